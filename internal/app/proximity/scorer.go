// Package proximity implements the campus matching engine: compatibility
// scoring, geofence evaluation, and the per-location-update suggestion
// pipeline that fans alerts out to nearby, opted-in users.
package proximity

import (
	"math"
	"strings"

	"github.com/campusgrid/campusgrid/internal/app/system/geo"
	"github.com/campusgrid/campusgrid/internal/app/system/normalize"
	"github.com/campusgrid/campusgrid/internal/domain/models"
)

// Scoring weights. These are part of the API contract: clients display the
// breakdown and the tests pin the exact values.
const (
	scoreBase          = 30
	scorePerInterest   = 10
	scoreInterestCap   = 30
	scoreFieldMatch    = 15
	scoreSameYear      = 10
	scoreAdjacentYear  = 6
	scoreProximityMax  = 15
	scoreRadiusPenalty = 50
	scoreMax           = 100
)

// MatchScore is the result of scoring two profiles. DistanceKm is nil when
// either profile has no stored coordinate.
type MatchScore struct {
	Score      int      `json:"score"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// SharedInterests returns the normalized interest tags two profiles have in
// common, in a's order.
func SharedInterests(a, b *models.Profile) []string {
	if len(a.Interests) == 0 || len(b.Interests) == 0 {
		return nil
	}
	bSet := make(map[string]struct{}, len(b.Interests))
	for _, tag := range b.Interests {
		bSet[normalize.Tag(tag)] = struct{}{}
	}
	var shared []string
	seen := make(map[string]struct{})
	for _, raw := range a.Interests {
		tag := normalize.Tag(raw)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		if _, ok := bSet[tag]; ok {
			shared = append(shared, tag)
			seen[tag] = struct{}{}
		}
	}
	return shared
}

// Score computes the 0-100 compatibility score between two profiles.
//
// radiusKm is an optional caller-supplied search radius: when both profiles
// carry coordinates and the distance exceeds it, a flat penalty applies
// instead of the proximity bonus. The interest/field/year contributions are
// symmetric in a and b.
func Score(a, b *models.Profile, radiusKm *float64) MatchScore {
	score := scoreBase

	// Shared interests: 10 points each, capped.
	interestPts := len(SharedInterests(a, b)) * scorePerInterest
	if interestPts > scoreInterestCap {
		interestPts = scoreInterestCap
	}
	score += interestPts

	// Field of study: exact case-insensitive match, both non-empty.
	if a.FieldOfStudy != "" && strings.EqualFold(a.FieldOfStudy, b.FieldOfStudy) {
		score += scoreFieldMatch
	}

	// Class year proximity.
	if a.ClassYear != 0 && b.ClassYear != 0 {
		switch yearDiff := a.ClassYear - b.ClassYear; {
		case yearDiff == 0:
			score += scoreSameYear
		case yearDiff == 1 || yearDiff == -1:
			score += scoreAdjacentYear
		}
	}

	// Distance adjustment, only when both profiles have coordinates.
	var distPtr *float64
	if a.HasCoordinate() && b.HasCoordinate() {
		dist := geo.DistanceKm(*a.Lat, *a.Lng, *b.Lat, *b.Lng)
		distPtr = &dist

		if radiusKm != nil && dist > *radiusKm {
			score -= scoreRadiusPenalty
		} else {
			bonus := scoreProximityMax - int(math.Floor(dist))
			if bonus > 0 {
				score += bonus
			}
		}
	}

	if score > scoreMax {
		score = scoreMax
	}
	if score < 0 {
		score = 0
	}

	return MatchScore{Score: score, DistanceKm: distPtr}
}
