package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdcar/kdcar-backend/pkg/redis"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst, 0)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				ok, err := rl.Allow(context.Background(), "client")
				require.NoError(t, err)
				if ok {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(0.001, 1, 0)
	defer rl.Stop()
	ctx := context.Background()

	ok, _ := rl.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)
	ok, _ = rl.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "a second key must have its own bucket")
}

func TestKeyedRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := New(1, 1, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	_, _ = rl.Allow(context.Background(), "stale")
	now = now.Add(30 * time.Second)
	_, _ = rl.Allow(context.Background(), "fresh")
	now = now.Add(45 * time.Second)

	rl.sweep()
	assert.Equal(t, 1, rl.Len())
}

func TestPerWindow(t *testing.T) {
	rl := PerWindow(2, time.Minute)
	defer rl.Stop()

	ctx := context.Background()
	ok1, _ := rl.Allow(ctx, "k")
	ok2, _ := rl.Allow(ctx, "k")
	ok3, _ := rl.Allow(ctx, "k")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
}

type stubWindowStore struct {
	scopes []string
	count  int64
	err    error
}

func (s *stubWindowStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (redis.Window, error) {
	s.scopes = append(s.scopes, scope)
	if s.err != nil {
		return redis.Window{}, s.err
	}
	s.count++
	return redis.Window{Count: s.count, Limit: limit}, nil
}

func TestFixedWindow(t *testing.T) {
	store := &stubWindowStore{}
	fw := NewFixedWindow(store, "api", 1, time.Minute)

	ok, err := fw.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"api:1.2.3.4"}, store.scopes)

	ok, err = fw.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	store.err = errors.New("redis down")
	ok, err = fw.Allow(context.Background(), "1.2.3.4")
	assert.Error(t, err)
	assert.False(t, ok)
}
