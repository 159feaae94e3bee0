// internal/app/features/geofence/geofence.go
package geofence

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/campusgrid/campusgrid/internal/app/system/geo"
	"github.com/campusgrid/campusgrid/internal/app/system/limits"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
	"github.com/campusgrid/campusgrid/internal/domain/models"
)

// ServeSettings handles GET /admin/geofence: the current boundary, or the
// configured defaults when nothing has been saved yet.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load geofence settings failed", err, "Failed to load settings.")
		return
	}
	apierr.WriteJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings handles PUT /admin/geofence. The body is a partial
// update; omitted fields keep their saved values.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	var upd models.GeofenceUpdate
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSettingsBodySize)
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode geofence update failed", err,
			apierr.CodeInvalidInput, "Invalid request body.")
		return
	}

	if upd.Enabled == nil && upd.CenterLat == nil && upd.CenterLng == nil && upd.RadiusMeters == nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"At least one of enabled, centerLat, centerLng, radiusMeters is required.")
		return
	}
	if upd.RadiusMeters != nil && *upd.RadiusMeters <= 0 {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"radiusMeters must be positive.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Validate the resulting center, not just the submitted halves, so a
	// partial update can never leave an enabled fence on a bad coordinate.
	current, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load geofence settings failed", err, "Failed to load settings.")
		return
	}
	lat, lng := current.CenterLat, current.CenterLng
	if upd.CenterLat != nil {
		lat = *upd.CenterLat
	}
	if upd.CenterLng != nil {
		lng = *upd.CenterLng
	}
	if !geo.ValidCoordinate(lat, lng) {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidCoordinates,
			"Center must be a valid coordinate.")
		return
	}

	settings, err := h.Settings.Save(ctx, upd, adminID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save geofence settings failed", err, "Failed to save settings.")
		return
	}

	h.Log.Info("geofence settings updated")
	apierr.WriteJSON(w, http.StatusOK, settings)
}
