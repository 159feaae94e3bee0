// internal/app/features/connections/connections.go
package connections

import (
	"context"
	"errors"
	"net/http"
	"strings"

	connectionstore "github.com/campusgrid/campusgrid/internal/app/store/connections"
	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/campusgrid/campusgrid/internal/app/system/timeouts"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleRequest handles POST /connections/{id}: a connection request to the
// profile with that ID.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput, "Invalid profile ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// The target must exist before a request document is created.
	if _, err := profilestore.New(h.DB).GetByID(ctx, targetID); err != nil {
		apierr.NotFound(w, "Profile not found.")
		return
	}

	conn, err := connectionstore.New(h.DB).Request(ctx, pid, targetID)
	switch {
	case errors.Is(err, connectionstore.ErrSelfConnection):
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput, err.Error())
		return
	case errors.Is(err, connectionstore.ErrDuplicatePair):
		apierr.WriteError(w, http.StatusConflict, apierr.CodeInvalidInput, err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create connection request failed", err, "Failed to send request.")
		return
	}

	h.notifyBoth(conn)
	apierr.WriteJSON(w, http.StatusCreated, conn)
}

// HandleAccept handles POST /connections/{id}/accept.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// HandleDecline handles POST /connections/{id}/decline.
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

// decide applies an accept or decline on behalf of the recipient. The store
// filter enforces both the pending state and the recipient identity, so a
// non-recipient caller and an already-decided request look the same: not
// pending.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, accept bool) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	connID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput, "Invalid connection ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	conn, err := connectionstore.New(h.DB).Decide(ctx, connID, pid, accept)
	switch {
	case errors.Is(err, connectionstore.ErrNotPending):
		apierr.WriteError(w, http.StatusConflict, apierr.CodeInvalidInput,
			"Connection request is not pending or not addressed to you.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "decide connection failed", err, "Failed to update request.")
		return
	}

	h.notifyBoth(conn)
	apierr.WriteJSON(w, http.StatusOK, conn)
}

// ServeList handles GET /connections?status=pending|accepted|declined.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	switch status {
	case "", models.ConnectionPending, models.ConnectionAccepted, models.ConnectionDeclined:
		// ok
	default:
		apierr.WriteError(w, http.StatusBadRequest, apierr.CodeInvalidInput,
			"status must be pending, accepted, or declined.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	conns, err := connectionstore.New(h.DB).ListForProfile(ctx, pid, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list connections failed", err, "Failed to load connections.")
		return
	}
	if conns == nil {
		conns = []models.Connection{}
	}
	apierr.WriteJSON(w, http.StatusOK, conns)
}

// notifyBoth pushes the connection's current state to both participants.
// Best-effort: recipients without live sockets just miss the push.
func (h *Handler) notifyBoth(conn models.Connection) {
	h.Notifier.SendToUser(conn.RequesterID.Hex(), EventConnectionUpdate, conn)
	h.Notifier.SendToUser(conn.RecipientID.Hex(), EventConnectionUpdate, conn)
	h.Log.Debug("connection update dispatched",
		zap.String("connection_id", conn.ID.Hex()),
		zap.String("status", conn.Status))
}
