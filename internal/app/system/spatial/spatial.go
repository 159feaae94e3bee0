// Package spatial maps coordinates to fixed-precision geohash bucket keys so
// candidate discovery can query a 3x3 block of cells instead of scanning the
// whole profiles collection.
//
// The precision is fixed system-wide. At precision 7 a cell is roughly
// 153 m x 153 m, which is at least as wide as the 100 m candidate cutoff the
// engine applies downstream, so for any origin the origin cell plus its 8
// neighbors always covers the full search radius.
package spatial

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
)

// Precision is the geohash length used for every bucket key.
const Precision = 7

// BucketKey returns the bucket key for a coordinate.
func BucketKey(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, Precision)
}

// NeighborKeys returns the 8 bucket keys adjacent to key.
func NeighborKeys(key string) []string {
	return geohash.CalculateAllAdjacent(key)
}

// SearchKeys returns the bucket key for a coordinate plus its 8 neighbors,
// origin first. These are the keys a candidate query must cover.
func SearchKeys(lat, lng float64) []string {
	origin := BucketKey(lat, lng)
	keys := make([]string, 0, 9)
	keys = append(keys, origin)
	keys = append(keys, NeighborKeys(origin)...)
	return keys
}
