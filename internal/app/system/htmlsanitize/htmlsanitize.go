// Package htmlsanitize strips hostile markup from user-entered profile text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Plain removes all HTML, leaving text only. Used for single-line fields
// (display name, field of study, interest tags).
func Plain(s string) string {
	return strict.Sanitize(s)
}

// Bio allows the usual user-generated-content subset (formatting, links) and
// strips everything executable. Used for the profile bio.
func Bio(s string) string {
	return ugc.Sanitize(s)
}
