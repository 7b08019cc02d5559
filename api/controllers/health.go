package controllers

import (
	"context"
	"net/http"

	"github.com/kdcar/kdcar-backend/api/responses"
	"github.com/kdcar/kdcar-backend/pkg/config"
	pkgerrors "github.com/kdcar/kdcar-backend/pkg/errors"
	"github.com/kdcar/kdcar-backend/pkg/logger"
)

const envHeader = "X-KDCar-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the optional Redis store answers a ping.
// A nil store means no shared store is configured.
func HealthReady(cfg *config.Config, store pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
					WithDetails(map[string]any{"dependency": "redis"}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
