// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxProfileBodySize is the maximum size for profile update bodies.
	// The bio field dominates; 256 KB is far beyond any legitimate payload.
	MaxProfileBodySize = 256 << 10

	// MaxLocationBodySize is the maximum size for a location submission.
	// A lat/lng pair fits in well under 1 KB.
	MaxLocationBodySize = 4 << 10

	// MaxSettingsBodySize is the maximum size for geofence settings updates.
	MaxSettingsBodySize = 4 << 10
)
