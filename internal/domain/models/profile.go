// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile represents a campus user's public profile plus the location state
// the proximity engine maintains.
//
// NOTE:
//   - Accounts (credentials, sessions) are provisioned elsewhere; a profile is
//     created with empty location fields and mutated only by its owner.
//   - BucketKey is derived from the coordinate and must be rewritten in the
//     same store operation as any coordinate change. A stale bucket key must
//     never persist after a coordinate write.
type Profile struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// UserKey is the opaque identity key issued by the account system.
	UserKey string `bson:"user_key" json:"user_key"`

	DisplayName   string `bson:"display_name" json:"display_name"`
	DisplayNameCI string `bson:"display_name_ci" json:"display_name_ci"` // lowercase, diacritics-stripped
	Bio           string `bson:"bio,omitempty" json:"bio,omitempty"`

	FieldOfStudy string   `bson:"field_of_study,omitempty" json:"field_of_study,omitempty"`
	ClassYear    int      `bson:"class_year,omitempty" json:"class_year,omitempty"`
	Interests    []string `bson:"interests,omitempty" json:"interests,omitempty"` // normalized tags

	Role   string `bson:"role" json:"role"` // admin | student
	Status string `bson:"status,omitempty" json:"status,omitempty"`

	// Location state. Lat/Lng are nil until the owner submits a location.
	Lat               *float64   `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng               *float64   `bson:"lng,omitempty" json:"lng,omitempty"`
	BucketKey         string     `bson:"bucket_key,omitempty" json:"bucket_key,omitempty"`
	ShareLocation     bool       `bson:"share_location" json:"share_location"`
	LocationUpdatedAt *time.Time `bson:"location_updated_at,omitempty" json:"location_updated_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasCoordinate reports whether the profile carries a stored coordinate.
func (p *Profile) HasCoordinate() bool {
	return p.Lat != nil && p.Lng != nil
}

// PublicProfile is the directory-facing projection of a Profile. It never
// exposes raw location state or opt-in flags.
type PublicProfile struct {
	ID           primitive.ObjectID `json:"id"`
	DisplayName  string             `json:"display_name"`
	Bio          string             `json:"bio,omitempty"`
	FieldOfStudy string             `json:"field_of_study,omitempty"`
	ClassYear    int                `json:"class_year,omitempty"`
	Interests    []string           `json:"interests,omitempty"`
}

// Public returns the directory projection of the profile.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		FieldOfStudy: p.FieldOfStudy,
		ClassYear:    p.ClassYear,
		Interests:    p.Interests,
	}
}
