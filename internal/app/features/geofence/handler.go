// internal/app/features/geofence/handler.go
package geofence

import (
	geofencestore "github.com/campusgrid/campusgrid/internal/app/store/geofence"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"go.uber.org/zap"
)

// Handler owns the admin geofence configuration endpoints.
type Handler struct {
	Settings *geofencestore.Store
	Log      *zap.Logger
	ErrLog   *apierr.ErrorLogger
}

// NewHandler constructs a Handler bound to the geofence settings store.
func NewHandler(settings *geofencestore.Store, errLog *apierr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings: settings,
		Log:      logger,
		ErrLog:   errLog,
	}
}
