package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kdcar/kdcar-backend/api/responses"
	"github.com/kdcar/kdcar-backend/internal/media"
	"github.com/kdcar/kdcar-backend/pkg/logger"
)

type imageFetcher interface {
	Fetch(ctx context.Context, path string) (*media.Image, error)
}

// CarmsImage streams an inventory image through this origin.
func CarmsImage(proxy imageFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := proxy.Fetch(r.Context(), r.URL.Query().Get("path"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", img.ContentType)
		w.Header().Set("Cache-Control", media.CacheControl)
		w.Header().Set("Content-Length", strconv.Itoa(len(img.Body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(img.Body); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "media.write_failed")
		}
	}
}
