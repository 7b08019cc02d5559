package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/kdcar/kdcar-backend/api/responses"
	"github.com/kdcar/kdcar-backend/api/validators"
	"github.com/kdcar/kdcar-backend/internal/inventory"
)

// InventoryList answers GET /api/cars. The envelope reports remote failures
// in its error field, so the status is always 200.
func InventoryList(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.ListCars(r.Context(), validators.InventoryFilters(r))
		responses.WriteJSON(w, http.StatusOK, result)
	}
}

// InventoryDetail answers GET /api/cars/{slug}.
func InventoryDetail(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if decoded, err := url.PathUnescape(slug); err == nil {
			slug = decoded
		}
		result := svc.GetCar(r.Context(), slug)
		responses.WriteJSON(w, http.StatusOK, result)
	}
}
