// internal/app/features/ws/handler.go
package ws

import (
	"net/http"

	"github.com/campusgrid/campusgrid/internal/app/realtime"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/authz"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades authenticated requests to WebSocket connections and hands
// them to the hub.
type Handler struct {
	Hub *realtime.Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs a Handler bound to the realtime hub.
func NewHandler(hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeWS handles GET /ws. The session cookie authenticates the upgrade; the
// resulting connection is registered under the user's profile ID.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	_, _, pid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Log.Warn("websocket upgrade failed",
			zap.String("profile_id", pid.Hex()),
			zap.Error(err))
		return
	}

	client := realtime.NewClient(h.Hub, conn, pid.Hex(), h.Log)
	client.Start()
}
