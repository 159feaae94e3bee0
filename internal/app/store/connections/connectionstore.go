package connectionstore

import (
	"context"
	"errors"
	"time"

	"github.com/campusgrid/campusgrid/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("connections")}
}

var (
	// ErrDuplicatePair is returned when a connection already exists between
	// the two profiles, in either direction.
	ErrDuplicatePair = errors.New("a connection between these users already exists")
	// ErrSelfConnection is returned when a profile requests itself.
	ErrSelfConnection = errors.New("cannot request a connection with yourself")
	// ErrNotPending is returned when accepting or declining a request that
	// is not in the pending state.
	ErrNotPending = errors.New("connection request is not pending")
)

// Request creates a pending connection request from requester to recipient.
func (s *Store) Request(ctx context.Context, requester, recipient primitive.ObjectID) (models.Connection, error) {
	if requester == recipient {
		return models.Connection{}, ErrSelfConnection
	}

	now := time.Now().UTC()
	conn := models.Connection{
		ID:          primitive.NewObjectID(),
		RequesterID: requester,
		RecipientID: recipient,
		PairKey:     models.ConnectionPairKey(requester, recipient),
		Status:      models.ConnectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, conn); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Connection{}, ErrDuplicatePair
		}
		return models.Connection{}, err
	}
	return conn, nil
}

// GetByID loads a connection by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Decide moves a pending request to accepted or declined. Only the recipient
// may decide, which the filter enforces, so a raced or replayed decide is a
// clean ErrNotPending instead of a silent overwrite.
func (s *Store) Decide(ctx context.Context, id, recipient primitive.ObjectID, accept bool) (models.Connection, error) {
	status := models.ConnectionDeclined
	if accept {
		status = models.ConnectionAccepted
	}
	now := time.Now().UTC()

	filter := bson.M{
		"_id":          id,
		"recipient_id": recipient,
		"status":       models.ConnectionPending,
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"decided_at": now,
		"updated_at": now,
	}}

	var conn models.Connection
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return models.Connection{}, ErrNotPending
	}
	if err != nil {
		return models.Connection{}, err
	}
	return conn, nil
}

// ListForProfile returns the connections the profile participates in,
// optionally filtered by status, newest first.
func (s *Store) ListForProfile(ctx context.Context, profileID primitive.ObjectID, status string) ([]models.Connection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"requester_id": profileID},
			{"recipient_id": profileID},
		},
	}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Connection
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
