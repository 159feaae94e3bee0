// internal/app/store/geofence/geofencestore.go
package geofencestore

import (
	"context"
	"time"

	"github.com/campusgrid/campusgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the geofence_settings collection. The settings are
// a singleton document; Defaults fills the response when nothing has been
// saved yet.
type Store struct {
	c *mongo.Collection

	// defaults are sourced from environment configuration at startup.
	// Enabled is always false in the defaults: an unconfigured boundary is
	// permissive, never an implicit fence around the default center.
	defaults models.GeofenceSettings
}

// New creates a geofence settings store with the given defaults.
func New(db *mongo.Database, defaults models.GeofenceSettings) *Store {
	defaults.Enabled = false
	return &Store{c: db.Collection("geofence_settings"), defaults: defaults}
}

// Defaults returns the configured default settings.
func (s *Store) Defaults() models.GeofenceSettings {
	return s.defaults
}

// Get returns the current geofence settings, or the defaults when no
// document has been saved yet.
func (s *Store) Get(ctx context.Context) (models.GeofenceSettings, error) {
	var settings models.GeofenceSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return s.defaults, nil
	}
	if err != nil {
		return models.GeofenceSettings{}, err
	}
	return settings, nil
}

// Save merges a partial update over the existing settings (or the defaults
// when none exist) and upserts the singleton document.
func (s *Store) Save(ctx context.Context, upd models.GeofenceUpdate, updatedBy primitive.ObjectID) (models.GeofenceSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.GeofenceSettings{}, err
	}

	if upd.Enabled != nil {
		current.Enabled = *upd.Enabled
	}
	if upd.CenterLat != nil {
		current.CenterLat = *upd.CenterLat
	}
	if upd.CenterLng != nil {
		current.CenterLng = *upd.CenterLng
	}
	if upd.RadiusMeters != nil {
		current.RadiusMeters = *upd.RadiusMeters
	}

	now := time.Now().UTC()
	current.UpdatedAt = &now
	current.UpdatedByID = &updatedBy

	update := bson.M{
		"$set": bson.M{
			"enabled":       current.Enabled,
			"center_lat":    current.CenterLat,
			"center_lng":    current.CenterLng,
			"radius_meters": current.RadiusMeters,
			"updated_at":    current.UpdatedAt,
			"updated_by_id": current.UpdatedByID,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{}, update, opts); err != nil {
		return models.GeofenceSettings{}, err
	}
	return current, nil
}
