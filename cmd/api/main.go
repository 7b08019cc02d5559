package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kdcar/kdcar-backend/api/routes"
	"github.com/kdcar/kdcar-backend/internal/carms"
	"github.com/kdcar/kdcar-backend/internal/inventory"
	"github.com/kdcar/kdcar-backend/internal/media"
	"github.com/kdcar/kdcar-backend/pkg/config"
	"github.com/kdcar/kdcar-backend/pkg/env"
	"github.com/kdcar/kdcar-backend/pkg/instance"
	"github.com/kdcar/kdcar-backend/pkg/logger"
	"github.com/kdcar/kdcar-backend/pkg/metrics"
	"github.com/kdcar/kdcar-backend/pkg/ratelimit"
	"github.com/kdcar/kdcar-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalog, err := inventory.LoadCatalog(ctx, cfg.Catalog.Path, time.Now(), logg)
	if err != nil {
		logg.Error(ctx, "failed to load fallback catalog", err)
		os.Exit(1)
	}

	client := carms.NewClient(
		carms.Config{BaseURL: cfg.Carms.BaseURL, APIKey: cfg.Carms.APIKey},
		carms.WithLogger(logg),
	)

	inventoryService, err := inventory.NewService(client, catalog, logg, metrics.NewInventoryMetrics(reg))
	if err != nil {
		logg.Error(ctx, "failed to create inventory service", err)
		os.Exit(1)
	}
	imageProxy := media.NewProxy(client, logg, metrics.NewImageProxyMetrics(reg))

	var (
		limiter ratelimit.Limiter
		store   *redis.Client
	)
	if cfg.Redis.Enabled() {
		store, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}
	if cfg.RateLimit.Enabled() {
		if store != nil {
			limiter = ratelimit.NewFixedWindow(store, "api", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		} else {
			local := ratelimit.PerWindow(cfg.RateLimit.Requests, cfg.RateLimit.Window)
			defer local.Stop()
			limiter = local
		}
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":              cfg.App.Env,
		"addr":             addr,
		"instance":         instance.GetID(),
		"carms_configured": client.Configured(),
		"catalog_size":     catalog.Len(),
		"redis":            store != nil,
		"trusted_proxies":  len(cfg.RateLimit.TrustedProxies),
	})
	logg.Info(logCtx, "starting api server")

	var readiness interface{ Ping(context.Context) error }
	if store != nil {
		readiness = store
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			inventoryService,
			imageProxy,
			limiter,
			metrics.NewRateLimitMetrics(reg),
			readiness,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}
