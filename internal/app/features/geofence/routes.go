// internal/app/features/geofence/routes.go
package geofence

import (
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole("admin"))
	r.Get("/", h.ServeSettings)
	r.Put("/", h.HandleUpdateSettings)
	return r
}
