// internal/app/features/directory/profile.go
package directory

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/campusgrid/campusgrid/internal/app/proximity"
	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeProfile handles GET /directory/{id}: the public projection of one
// profile. Location state is never included.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput, "Invalid profile ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}
	apierr.WriteJSON(w, http.StatusOK, p.Public())
}

// compatibilityResponse is the GET /directory/{id}/compatibility payload.
type compatibilityResponse struct {
	ProfileID       string   `json:"profile_id"`
	Score           int      `json:"score"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	SharedInterests []string `json:"shared_interests"`
}

// ServeCompatibility handles GET /directory/{id}/compatibility?radius_km=N:
// the compatibility score between the signed-in user and the given profile.
//
// radius_km is optional; when present and the pair is farther apart than the
// radius, the score takes the out-of-radius penalty instead of a proximity
// bonus.
func (h *Handler) ServeCompatibility(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	otherID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput, "Invalid profile ID.")
		return
	}

	var radiusKm *float64
	if raw := strings.TrimSpace(r.URL.Query().Get("radius_km")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
				"radius_km must be a positive number.")
			return
		}
		radiusKm = &v
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := profilestore.New(h.DB)
	me, err := store.GetByID(ctx, pid)
	if err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}
	other, err := store.GetByID(ctx, otherID)
	if err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}

	score := proximity.Score(me, other, radiusKm)
	apierr.WriteJSON(w, http.StatusOK, compatibilityResponse{
		ProfileID:       other.ID.Hex(),
		Score:           score.Score,
		DistanceKm:      score.DistanceKm,
		SharedInterests: proximity.SharedInterests(me, other),
	})
}
