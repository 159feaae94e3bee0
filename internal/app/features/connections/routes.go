// internal/app/features/connections/routes.go
package connections

import (
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeList)
	// {id} is a profile ID on request, a connection ID on accept/decline.
	r.Post("/{id}", h.HandleRequest)
	r.Post("/{id}/accept", h.HandleAccept)
	r.Post("/{id}/decline", h.HandleDecline)
	return r
}
