package ratelimit

import (
	"context"
	"time"

	"github.com/kdcar/kdcar-backend/pkg/redis"
)

type windowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.Window, error)
}

// FixedWindow enforces limit requests per window through a shared counter
// store such as Redis.
type FixedWindow struct {
	store  windowStore
	scope  string
	limit  int64
	window time.Duration
}

// NewFixedWindow builds a shared-store limiter. Keys are prefixed with scope.
func NewFixedWindow(store windowStore, scope string, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{store: store, scope: scope, limit: int64(limit), window: window}
}

// Allow counts a hit for key and reports whether it is within the limit.
func (f *FixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	w, err := f.store.FixedWindowAllow(ctx, f.scope+":"+key, f.limit, f.window)
	if err != nil {
		return false, err
	}
	return w.Allowed(), nil
}
