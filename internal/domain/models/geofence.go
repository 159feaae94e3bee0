// internal/domain/models/geofence.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeofenceSettings is the administrator-owned circular campus boundary.
// A single document in the geofence_settings collection; when no document has
// been saved yet the boundary is disabled (permissive) rather than defaulting
// to the configured center, so an unconfigured fence never rejects locations.
type GeofenceSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	Enabled      bool    `bson:"enabled" json:"enabled"`
	CenterLat    float64 `bson:"center_lat" json:"centerLat"`
	CenterLng    float64 `bson:"center_lng" json:"centerLng"`
	RadiusMeters float64 `bson:"radius_meters" json:"radiusMeters"`

	UpdatedAt   *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// GeofenceUpdate carries a partial settings write. Nil fields are left
// untouched by Save, so admins can adjust one value at a time.
type GeofenceUpdate struct {
	Enabled      *bool    `json:"enabled,omitempty"`
	CenterLat    *float64 `json:"centerLat,omitempty"`
	CenterLng    *float64 `json:"centerLng,omitempty"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty"`
}
