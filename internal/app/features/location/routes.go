// internal/app/features/location/routes.go
package location

import (
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.HandleSubmit)
	return r
}
