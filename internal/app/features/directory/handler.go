// internal/app/features/directory/handler.go
package directory

import (
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the campus directory endpoints.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *apierr.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *apierr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
	}
}
