package middleware

import (
	"net/http"

	"github.com/kdcar/kdcar-backend/api/responses"
	pkgerrors "github.com/kdcar/kdcar-backend/pkg/errors"
	"github.com/kdcar/kdcar-backend/pkg/logger"
	"github.com/kdcar/kdcar-backend/pkg/metrics"
	"github.com/kdcar/kdcar-backend/pkg/ratelimit"
)

const (
	decisionAllowed    = "allowed"
	decisionBlocked    = "blocked"
	decisionStoreError = "store_error"
)

// RateLimit throttles requests per client address. A nil limiter disables
// it. When the limiter's store fails the request is let through, so the
// inventory endpoints keep answering from their own fallback.
func RateLimit(limiter ratelimit.Limiter, ips *ClientIP, logg *logger.Logger, m *metrics.RateLimitMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		if ips == nil {
			ips = NewClientIP(nil)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := ips.Resolve(r)

			allowed, err := limiter.Allow(ctx, ip)
			if err != nil {
				m.Observe(decisionStoreError)
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"ip":    ip,
						"error": err.Error(),
					}), "rate_limit.store_failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				m.Observe(decisionBlocked)
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"ip":   ip,
						"path": r.URL.Path,
					}), "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			m.Observe(decisionAllowed)
			next.ServeHTTP(w, r)
		})
	}
}
