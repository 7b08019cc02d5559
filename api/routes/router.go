package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kdcar/kdcar-backend/api/controllers"
	"github.com/kdcar/kdcar-backend/api/middleware"
	"github.com/kdcar/kdcar-backend/internal/inventory"
	"github.com/kdcar/kdcar-backend/internal/media"
	"github.com/kdcar/kdcar-backend/pkg/config"
	"github.com/kdcar/kdcar-backend/pkg/logger"
	"github.com/kdcar/kdcar-backend/pkg/metrics"
	"github.com/kdcar/kdcar-backend/pkg/ratelimit"
)

type pinger interface {
	Ping(context.Context) error
}

// NewRouter mounts the public inventory API. limiter, limiterMetrics, store
// and metricsHandler are optional and may be nil.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	inventoryService inventory.Service,
	imageProxy *media.Proxy,
	limiter ratelimit.Limiter,
	limiterMetrics *metrics.RateLimitMetrics,
	store pinger,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, store, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		clientIP := middleware.NewClientIP(cfg.RateLimit.TrustedProxies)
		r.Use(middleware.RateLimit(limiter, clientIP, logg, limiterMetrics))

		r.Get("/cars", controllers.InventoryList(inventoryService))
		r.Get("/cars/{slug}", controllers.InventoryDetail(inventoryService))

		image := controllers.CarmsImage(imageProxy, logg)
		r.Get("/carms-image", image)
		r.Head("/carms-image", image)
	})

	return r
}
