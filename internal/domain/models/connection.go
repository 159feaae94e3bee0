// internal/domain/models/connection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection statuses.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// Connection is a connection request between two profiles. The pair is unique
// regardless of direction; PairKey stores the two profile IDs hex-encoded in
// lexical order so a unique index can enforce that.
type Connection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	PairKey     string             `bson:"pair_key" json:"-"`
	Status      string             `bson:"status" json:"status"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DecidedAt *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}

// ConnectionPairKey returns the order-independent pair key for two profiles.
func ConnectionPairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah < bh {
		return ah + ":" + bh
	}
	return bh + ":" + ah
}
