package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/campusgrid/campusgrid/internal/app/system/normalize"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

var (
	// ErrDuplicateUserKey is returned when a profile already exists for the
	// identity key.
	ErrDuplicateUserKey = errors.New("a profile for this user already exists")
	errBadRole          = errors.New(`role must be "admin"|"student"`)
)

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserKey loads a profile by the opaque identity key issued by the
// account system. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUserKey(ctx context.Context, userKey string) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_key": userKey}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile after normalizing fields. Location fields
// start empty; they are only ever written through UpdateLocation.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.ID = primitive.NewObjectID()
	p.DisplayName = normalize.Name(p.DisplayName)
	p.DisplayNameCI = text.Fold(p.DisplayName)
	p.FieldOfStudy = normalize.FieldOfStudy(p.FieldOfStudy)
	p.Interests = normalize.Tags(p.Interests)
	if p.Status == "" {
		p.Status = "active"
	}

	switch p.Role {
	case "admin", "student":
		// ok
	default:
		return models.Profile{}, errBadRole
	}

	// A new profile never carries location state.
	p.Lat, p.Lng = nil, nil
	p.BucketKey = ""
	p.LocationUpdatedAt = nil

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateUserKey
		}
		return models.Profile{}, err
	}
	return p, nil
}

// ProfileUpdate holds the owner-editable profile fields.
type ProfileUpdate struct {
	DisplayName   string
	Bio           string
	FieldOfStudy  string
	ClassYear     int
	Interests     []string
	ShareLocation bool
}

// UpdateProfile applies an owner edit. Fields are normalized here so every
// write path produces canonical interest tags and a fresh folded name.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	name := normalize.Name(upd.DisplayName)
	set := bson.M{
		"display_name":    name,
		"display_name_ci": text.Fold(name),
		"bio":             upd.Bio,
		"field_of_study":  normalize.FieldOfStudy(upd.FieldOfStudy),
		"class_year":      upd.ClassYear,
		"interests":       normalize.Tags(upd.Interests),
		"share_location":  upd.ShareLocation,
		"updated_at":      time.Now().UTC(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// UpdateLocation persists a coordinate, its bucket key, and the update
// timestamp in a single write, so a stale bucket key can never outlive a
// coordinate change. The write is an idempotent overwrite.
func (s *Store) UpdateLocation(ctx context.Context, id primitive.ObjectID, lat, lng float64, bucketKey string, at time.Time) error {
	set := bson.M{
		"lat":                 lat,
		"lng":                 lng,
		"bucket_key":          bucketKey,
		"location_updated_at": at,
		"updated_at":          at,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearStaleLocations unsets the coordinate, bucket key, and location
// timestamp on every profile whose last update is older than the cutoff.
// Stale coordinates can never match anyone (the recency gate already skips
// them), so keeping them around is pure liability.
func (s *Store) ClearStaleLocations(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"location_updated_at": bson.M{"$lt": olderThan}},
		bson.M{"$unset": bson.M{
			"lat":                 "",
			"lng":                 "",
			"bucket_key":          "",
			"location_updated_at": "",
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetShareLocation flips the location-sharing opt-in flag.
func (s *Store) SetShareLocation(ctx context.Context, id primitive.ObjectID, share bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"share_location": share,
		"updated_at":     time.Now().UTC(),
	}})
	return err
}

// FindDiscoverableInBucket returns the opted-in profiles whose bucket key
// equals key, excluding the given profile. The bucket-key + share_location
// equality pair rides the compound index, so candidate discovery never scans
// the collection.
func (s *Store) FindDiscoverableInBucket(ctx context.Context, key string, exclude primitive.ObjectID) ([]models.Profile, error) {
	filter := bson.M{
		"bucket_key":     key,
		"share_location": true,
		"_id":            bson.M{"$ne": exclude},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
