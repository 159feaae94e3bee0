// internal/app/features/location/location.go
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/campusgrid/campusgrid/internal/app/proximity"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/campusgrid/campusgrid/internal/app/system/limits"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
)

// submitRequest is the POST /location body. Coordinates are accepted as JSON
// numbers or numeric strings; mobile clients are not consistent about which
// they send.
type submitRequest struct {
	Lat json.RawMessage `json:"lat"`
	Lng json.RawMessage `json:"lng"`
}

// coord parses a raw JSON value as a float, accepting 40.1 and "40.1".
func coord(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing")
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("not a number: %s", raw)
		}
		num = json.Number(s)
	}
	return strconv.ParseFloat(num.String(), 64)
}

// HandleSubmit handles POST /location: validate, geofence-check, persist, and
// kick off suggestion fan-out. The response acknowledges only the persisted
// location; suggestions ride the realtime channel.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, pid.Hex()); !ok {
			apierr.TooManyRequests(w, reason)
			return
		}
	}

	var req submitRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxLocationBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode location failed", err,
			apierr.CodeInvalidCoordinates, "Body must include numeric lat and lng.")
		return
	}

	lat, latErr := coord(req.Lat)
	lng, lngErr := coord(req.Lng)
	if latErr != nil || lngErr != nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidCoordinates,
			"Body must include numeric lat and lng.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	record, err := h.Engine.HandleLocationUpdate(ctx, pid, lat, lng)
	switch {
	case errors.Is(err, proximity.ErrInvalidCoordinate):
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidCoordinates, err.Error())
		return
	case errors.Is(err, proximity.ErrOutsideGeofence):
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeOutsideGeofence, err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "location update failed", err, "Failed to save location.")
		return
	}

	apierr.WriteJSON(w, http.StatusOK, record)
}
