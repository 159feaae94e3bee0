// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to CampusGrid lives: the MongoDB
// connection, session cookie settings, and the campus geofence defaults
// used until an admin saves explicit settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: campusgrid-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Geofence defaults, used when no settings document has been saved yet.
	// The fence ships disabled; an admin enables it through the settings API.
	GeofenceCenterLat    float64 // Default campus center latitude
	GeofenceCenterLng    float64 // Default campus center longitude
	GeofenceRadiusMeters float64 // Default campus radius in meters
}
