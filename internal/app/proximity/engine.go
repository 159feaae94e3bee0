package proximity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campusgrid/campusgrid/internal/app/system/geo"
	"github.com/campusgrid/campusgrid/internal/app/system/spatial"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EventSuggestion is the realtime event name for proximity suggestions.
const EventSuggestion = "proximity_suggestion"

// Candidate gates. Hard-coded by design: the cutoff and recency window are
// product constants, not tunables.
const (
	candidateCutoffMeters = 100.0
	recencyWindow         = 5 * time.Minute
)

var (
	// ErrInvalidCoordinate is returned for non-finite or out-of-range input.
	ErrInvalidCoordinate = errors.New("coordinates must be finite numbers within valid ranges")
	// ErrOutsideGeofence is returned when the enabled boundary excludes the
	// coordinate. Distinct from ErrInvalidCoordinate so clients can render
	// different messaging.
	ErrOutsideGeofence = errors.New("location is outside the campus boundary")
)

// ProfileDirectory is the slice of the profile store the engine needs.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	UpdateLocation(ctx context.Context, id primitive.ObjectID, lat, lng float64, bucketKey string, at time.Time) error
	FindDiscoverableInBucket(ctx context.Context, key string, exclude primitive.ObjectID) ([]models.Profile, error)
}

// Notifier delivers a payload to every live connection of one identity.
// Implementations must treat unknown identities as a no-op.
type Notifier interface {
	SendToUser(profileID, event string, payload any)
}

// Engine orchestrates a location update: geofence check, persistence,
// bucket-bounded candidate discovery, boolean-gate filtering, and best-effort
// fan-out of suggestions to both participants.
type Engine struct {
	profiles ProfileDirectory
	fence    *Evaluator
	notifier Notifier
	log      *zap.Logger
}

// NewEngine constructs the suggestion engine.
func NewEngine(profiles ProfileDirectory, fence *Evaluator, notifier Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		profiles: profiles,
		fence:    fence,
		notifier: notifier,
		log:      logger,
	}
}

// LocationRecord is what a successful update returns to the caller.
type LocationRecord struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	BucketKey string    `json:"bucket_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleLocationUpdate runs the full pipeline for one submitted coordinate.
//
// The write is acknowledged by the returned record; everything after the
// persistence step is best-effort. A failed candidate search or dispatch is
// logged and swallowed — it never rolls back or fails the saved location.
func (e *Engine) HandleLocationUpdate(ctx context.Context, profileID primitive.ObjectID, lat, lng float64) (LocationRecord, error) {
	if !geo.ValidCoordinate(lat, lng) {
		return LocationRecord{}, ErrInvalidCoordinate
	}

	if !e.fence.Inside(ctx, lat, lng) {
		return LocationRecord{}, ErrOutsideGeofence
	}

	submitter, err := e.profiles.GetByID(ctx, profileID)
	if err != nil {
		return LocationRecord{}, err
	}

	now := time.Now().UTC()
	bucket := spatial.BucketKey(lat, lng)
	if err := e.profiles.UpdateLocation(ctx, profileID, lat, lng, bucket, now); err != nil {
		return LocationRecord{}, err
	}
	record := LocationRecord{Lat: lat, Lng: lng, BucketKey: bucket, UpdatedAt: now}

	// Mirror the persisted state onto the in-memory profile for filtering.
	submitter.Lat, submitter.Lng = &lat, &lng
	submitter.BucketKey = bucket
	submitter.LocationUpdatedAt = &now

	// No proximity work for or about a user who has not opted in.
	if !submitter.ShareLocation {
		return record, nil
	}

	candidates, err := e.gatherCandidates(ctx, lat, lng, profileID)
	if err != nil {
		e.log.Warn("candidate search failed after location write",
			zap.String("profile_id", profileID.Hex()),
			zap.Error(err))
		return record, nil
	}

	for i := range candidates {
		cand := &candidates[i]
		suggestion, ok := e.evaluateCandidate(ctx, submitter, cand, now)
		if !ok {
			continue
		}
		e.dispatch(suggestion)
	}

	return record, nil
}

// gatherCandidates queries the submitter's bucket and its 8 neighbors
// concurrently and joins the results.
func (e *Engine) gatherCandidates(ctx context.Context, lat, lng float64, exclude primitive.ObjectID) ([]models.Profile, error) {
	keys := spatial.SearchKeys(lat, lng)
	results := make([][]models.Profile, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			found, err := e.profiles.FindDiscoverableInBucket(gctx, key, exclude)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Profile
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all, nil
}

// evaluateCandidate applies the boolean gates and builds the suggestion
// payload. Every gate must pass; there is no ranked scoring on this path.
func (e *Engine) evaluateCandidate(ctx context.Context, submitter, cand *models.Profile, now time.Time) (models.Suggestion, bool) {
	if !cand.ShareLocation || !cand.HasCoordinate() {
		return models.Suggestion{}, false
	}
	if cand.LocationUpdatedAt == nil || now.Sub(*cand.LocationUpdatedAt) > recencyWindow {
		return models.Suggestion{}, false
	}
	if !e.fence.Inside(ctx, *cand.Lat, *cand.Lng) {
		return models.Suggestion{}, false
	}

	dist := geo.DistanceMeters(*submitter.Lat, *submitter.Lng, *cand.Lat, *cand.Lng)
	if dist >= candidateCutoffMeters {
		return models.Suggestion{}, false
	}

	if submitter.FieldOfStudy == "" || cand.FieldOfStudy == "" ||
		!strings.EqualFold(submitter.FieldOfStudy, cand.FieldOfStudy) {
		return models.Suggestion{}, false
	}

	shared := SharedInterests(submitter, cand)
	if len(shared) == 0 {
		return models.Suggestion{}, false
	}

	return models.Suggestion{
		ID:              uuid.NewString(),
		ParticipantIDs:  []primitive.ObjectID{submitter.ID, cand.ID},
		DistanceMeters:  dist,
		SharedInterests: shared,
		GeneratedAt:     now,
	}, true
}

// dispatch delivers a suggestion to both participants' live connections.
// Recipients without connections are simply skipped; nothing is queued or
// retried.
func (e *Engine) dispatch(s models.Suggestion) {
	for _, id := range s.ParticipantIDs {
		e.notifier.SendToUser(id.Hex(), EventSuggestion, s)
	}
	e.log.Debug("proximity suggestion dispatched",
		zap.String("suggestion_id", s.ID),
		zap.Float64("distance_m", s.DistanceMeters),
		zap.Int("shared_interests", len(s.SharedInterests)))
}
