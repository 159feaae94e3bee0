// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	connectionsfeature "github.com/campusgrid/campusgrid/internal/app/features/connections"
	directoryfeature "github.com/campusgrid/campusgrid/internal/app/features/directory"
	geofencefeature "github.com/campusgrid/campusgrid/internal/app/features/geofence"
	healthfeature "github.com/campusgrid/campusgrid/internal/app/features/health"
	locationfeature "github.com/campusgrid/campusgrid/internal/app/features/location"
	profilefeature "github.com/campusgrid/campusgrid/internal/app/features/profile"
	wsfeature "github.com/campusgrid/campusgrid/internal/app/features/ws"
	"github.com/campusgrid/campusgrid/internal/app/proximity"
	geofencestore "github.com/campusgrid/campusgrid/internal/app/store/geofence"
	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"github.com/campusgrid/campusgrid/internal/app/system/ratelimit"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CampusGrid wires the proximity engine to the profile store, the geofence
// settings store, and the WebSocket hub, then mounts JSON feature routers
// for profiles, location submissions, the directory, connections, and the
// admin geofence API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := apierr.NewErrorLogger(logger)

	// The geofence store falls back to config-supplied campus defaults until
	// an admin saves explicit settings. The fence ships disabled.
	settings := geofencestore.New(deps.MongoDatabase, models.GeofenceSettings{
		Enabled:      false,
		CenterLat:    appCfg.GeofenceCenterLat,
		CenterLng:    appCfg.GeofenceCenterLng,
		RadiusMeters: appCfg.GeofenceRadiusMeters,
	})

	profiles := profilestore.New(deps.MongoDatabase)
	fence := proximity.NewEvaluator(settings, logger)
	engine := proximity.NewEngine(profiles, fence, hub, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Profile management (view, edit, location-sharing toggle)
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	// Location submissions feed the proximity engine. Submissions are rate
	// limited per profile and per IP; clients report every few seconds at most.
	locationHandler := locationfeature.NewHandler(engine, errLog, logger)
	locationHandler.Limiter = ratelimit.NewSubmitLimiter()
	r.Mount("/location", locationfeature.Routes(locationHandler))

	// Student directory with compatibility scoring
	directoryHandler := directoryfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/directory", directoryfeature.Routes(directoryHandler))

	// Connection requests, pushed to both parties over the hub
	connectionsHandler := connectionsfeature.NewHandler(deps.MongoDatabase, hub, errLog, logger)
	r.Mount("/connections", connectionsfeature.Routes(connectionsHandler))

	// Admin-only geofence settings
	geofenceHandler := geofencefeature.NewHandler(settings, errLog, logger)
	r.Mount("/admin/geofence", geofencefeature.Routes(geofenceHandler))

	// WebSocket endpoint for proximity suggestions and connection updates
	wsHandler := wsfeature.NewHandler(hub, logger)
	r.Mount("/ws", wsfeature.Routes(wsHandler))

	return r, nil
}
