package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile creates a test student profile with the given display name,
// field of study, and interests.
func (f *Fixtures) CreateProfile(ctx context.Context, name, field string, interests []string) models.Profile {
	f.t.Helper()
	return f.createProfile(ctx, name, field, interests, "student")
}

// CreateAdminProfile creates a test admin profile.
func (f *Fixtures) CreateAdminProfile(ctx context.Context, name string) models.Profile {
	f.t.Helper()
	return f.createProfile(ctx, name, "", nil, "admin")
}

func (f *Fixtures) createProfile(ctx context.Context, name, field string, interests []string, role string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:            primitive.NewObjectID(),
		UserKey:       primitive.NewObjectID().Hex(),
		DisplayName:   name,
		DisplayNameCI: text.Fold(name),
		FieldOfStudy:  field,
		Interests:     interests,
		Role:          role,
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// PlaceProfile writes location state directly onto an existing profile so
// discovery scenarios can be staged without going through the engine.
func (f *Fixtures) PlaceProfile(ctx context.Context, id primitive.ObjectID, lat, lng float64, bucketKey string, share bool, at time.Time) {
	f.t.Helper()

	_, err := f.db.Collection("profiles").UpdateByID(ctx, id, map[string]any{
		"$set": map[string]any{
			"lat":                 lat,
			"lng":                 lng,
			"bucket_key":          bucketKey,
			"share_location":      share,
			"location_updated_at": at,
			"updated_at":          at,
		},
	})
	if err != nil {
		f.t.Fatalf("failed to place test profile: %v", err)
	}
}

// CreateConnection inserts a connection document in the given status.
func (f *Fixtures) CreateConnection(ctx context.Context, requester, recipient primitive.ObjectID, status string) models.Connection {
	f.t.Helper()

	now := time.Now().UTC()
	conn := models.Connection{
		ID:          primitive.NewObjectID(),
		RequesterID: requester,
		RecipientID: recipient,
		PairKey:     models.ConnectionPairKey(requester, recipient),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("connections").InsertOne(ctx, conn); err != nil {
		f.t.Fatalf("failed to create test connection: %v", err)
	}
	return conn
}
