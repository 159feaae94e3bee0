// internal/domain/models/suggestion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Suggestion is a proximity match produced while handling a single location
// update. It is delivered over the realtime channel and never persisted.
type Suggestion struct {
	ID              string               `json:"id"`
	ParticipantIDs  []primitive.ObjectID `json:"participantIds"`
	DistanceMeters  float64              `json:"distanceMeters"`
	SharedInterests []string             `json:"sharedInterests"`
	GeneratedAt     time.Time            `json:"timestamp"`
}
