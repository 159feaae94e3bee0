package proximity

import (
	"context"

	"github.com/campusgrid/campusgrid/internal/app/system/geo"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"go.uber.org/zap"
)

// SettingsProvider supplies the current geofence configuration. The concrete
// implementation is the geofence settings store.
type SettingsProvider interface {
	Get(ctx context.Context) (models.GeofenceSettings, error)
	Defaults() models.GeofenceSettings
}

// Evaluator answers whether a coordinate lies inside the administrator-
// configured campus boundary.
type Evaluator struct {
	settings SettingsProvider
	log      *zap.Logger
}

// NewEvaluator constructs a geofence Evaluator.
func NewEvaluator(settings SettingsProvider, logger *zap.Logger) *Evaluator {
	return &Evaluator{settings: settings, log: logger}
}

// Inside reports whether the coordinate is inside the boundary.
//
// A disabled geofence is permissive: every coordinate passes. Settings
// retrieval failures fall back to the defaults (which are also permissive) —
// a degraded settings store must never block a location write.
func (e *Evaluator) Inside(ctx context.Context, lat, lng float64) bool {
	cfg, err := e.settings.Get(ctx)
	if err != nil {
		e.log.Warn("geofence settings unavailable, using defaults", zap.Error(err))
		cfg = e.settings.Defaults()
	}

	if !cfg.Enabled {
		return true
	}

	dist := geo.DistanceMeters(lat, lng, cfg.CenterLat, cfg.CenterLng)
	return dist <= cfg.RadiusMeters
}
