// internal/app/features/connections/handler.go
package connections

import (
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EventConnectionUpdate is the realtime event name for connection changes.
const EventConnectionUpdate = "connection_update"

// Notifier delivers a payload to every live connection of one identity.
type Notifier interface {
	SendToUser(profileID, event string, payload any)
}

// Handler owns the connection request endpoints.
type Handler struct {
	DB       *mongo.Database
	Notifier Notifier
	Log      *zap.Logger
	ErrLog   *apierr.ErrorLogger
}

// NewHandler constructs a Handler bound to the given database and notifier.
func NewHandler(db *mongo.Database, notifier Notifier, errLog *apierr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Notifier: notifier,
		Log:      logger,
		ErrLog:   errLog,
	}
}
