// internal/app/features/profile/routes.go
package profile

import (
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Put("/", h.HandleUpdateProfile)
	r.Put("/sharing", h.HandleUpdateSharing)
	return r
}
