// internal/app/system/search/search.go
package search

import (
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// PrefixRange returns a case-insensitive prefix constraint for a *_ci field.
//
// The query is folded the same way the stored values were written, so the
// constraint rides the index as a bounded range scan instead of degrading to
// a regex.
//
// Typical usage in paged lists:
//
//	if q != "" {
//	    filter["display_name_ci"] = search.PrefixRange(q)
//	}
func PrefixRange(q string) bson.M {
	folded := text.Fold(q)
	return bson.M{"$gte": folded, "$lt": folded + "\uffff"}
}
