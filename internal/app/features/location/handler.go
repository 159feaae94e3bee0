// internal/app/features/location/handler.go
package location

import (
	"github.com/campusgrid/campusgrid/internal/app/proximity"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler owns the location submission endpoint.
type Handler struct {
	Engine  *proximity.Engine
	Limiter *ratelimit.SubmitLimiter // nil disables rate limiting
	Log     *zap.Logger
	ErrLog  *apierr.ErrorLogger
}

// NewHandler constructs a Handler bound to the suggestion engine.
func NewHandler(engine *proximity.Engine, errLog *apierr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
		ErrLog: errLog,
	}
}
