// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/campusgrid/campusgrid/internal/app/system/htmlsanitize"
	"github.com/campusgrid/campusgrid/internal/app/system/limits"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
)

const (
	maxDisplayNameLen = 120
	maxBioLen         = 2000
	maxInterests      = 25
)

// ServeProfile handles GET /profile: the signed-in user's own profile,
// including location-sharing state.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).GetByID(ctx, pid)
	if err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}
	apierr.WriteJSON(w, http.StatusOK, p)
}

// updateRequest is the PUT /profile body.
type updateRequest struct {
	DisplayName  string   `json:"display_name"`
	Bio          string   `json:"bio"`
	FieldOfStudy string   `json:"field_of_study"`
	ClassYear    int      `json:"class_year"`
	Interests    []string `json:"interests"`
}

// HandleUpdateProfile handles PUT /profile. Text fields pass through the
// sanitizer before normalization so stored values never carry markup.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	var req updateRequest
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxProfileBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile update failed", err,
			apierr.CodeInvalidInput, "Invalid request body.")
		return
	}

	if req.DisplayName == "" || len(req.DisplayName) > maxDisplayNameLen {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"Display name is required and must be at most 120 characters.")
		return
	}
	if len(req.Bio) > maxBioLen {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"Bio must be at most 2000 characters.")
		return
	}
	if len(req.Interests) > maxInterests {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"At most 25 interests are allowed.")
		return
	}
	if req.ClassYear < 0 {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"Class year must not be negative.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := profilestore.New(h.DB)
	current, err := store.GetByID(ctx, pid)
	if err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}

	interests := make([]string, 0, len(req.Interests))
	for _, tag := range req.Interests {
		interests = append(interests, htmlsanitize.Plain(tag))
	}

	upd := profilestore.ProfileUpdate{
		DisplayName:   htmlsanitize.Plain(req.DisplayName),
		Bio:           htmlsanitize.Bio(req.Bio),
		FieldOfStudy:  htmlsanitize.Plain(req.FieldOfStudy),
		ClassYear:     req.ClassYear,
		Interests:     interests,
		ShareLocation: current.ShareLocation,
	}
	if err := store.UpdateProfile(ctx, pid, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Failed to save profile.")
		return
	}

	p, err := store.GetByID(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload profile failed", err, "Failed to save profile.")
		return
	}
	apierr.WriteJSON(w, http.StatusOK, p)
}

// sharingRequest is the PUT /profile/sharing body.
type sharingRequest struct {
	ShareLocation *bool `json:"share_location"`
}

// HandleUpdateSharing flips the location-sharing opt-in flag. Opting out does
// not clear the stored coordinate; it only removes the user from discovery.
func (h *Handler) HandleUpdateSharing(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	var req sharingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ShareLocation == nil {
		h.ErrLog.LogBadRequest(w, r, "decode sharing update failed", err,
			apierr.CodeInvalidInput, "Body must include share_location.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := profilestore.New(h.DB).SetShareLocation(ctx, pid, *req.ShareLocation); err != nil {
		h.ErrLog.LogServerError(w, r, "set share_location failed", err, "Failed to save preference.")
		return
	}
	apierr.WriteJSON(w, http.StatusOK, map[string]bool{"share_location": *req.ShareLocation})
}
