// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"

	"github.com/campusgrid/campusgrid/internal/app/system/geo"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CampusGrid.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAMPUSGRID_MONGO_URI, CAMPUSGRID_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campusgrid", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "campusgrid-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Geofence defaults. Lat/lng arrive as strings so fractional degrees
	// survive the config layer intact; they are parsed in LoadConfig.
	{Name: "geofence_center_lat", Default: "38.9451", Desc: "Default campus center latitude"},
	{Name: "geofence_center_lng", Default: "-92.3289", Desc: "Default campus center longitude"},
	{Name: "geofence_radius_meters", Default: 5000, Desc: "Default campus radius in meters"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CAMPUSGRID_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSGRID", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	centerLat, err := parseDegrees("geofence_center_lat", appValues.String("geofence_center_lat"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	centerLng, err := parseDegrees("geofence_center_lng", appValues.String("geofence_center_lng"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		GeofenceCenterLat:    centerLat,
		GeofenceCenterLng:    centerLng,
		GeofenceRadiusMeters: float64(appValues.Int("geofence_radius_meters")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// CampusGrid validates the MongoDB URI format and the geofence defaults
// to catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if !geo.ValidCoordinate(appCfg.GeofenceCenterLat, appCfg.GeofenceCenterLng) {
		return fmt.Errorf("geofence center (%.4f, %.4f) is not a valid coordinate",
			appCfg.GeofenceCenterLat, appCfg.GeofenceCenterLng)
	}
	if appCfg.GeofenceRadiusMeters <= 0 {
		return fmt.Errorf("geofence_radius_meters must be positive, got %.0f", appCfg.GeofenceRadiusMeters)
	}

	return nil
}

// parseDegrees parses a decimal-degrees config value.
func parseDegrees(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a number: %w", name, raw, err)
	}
	return v, nil
}
