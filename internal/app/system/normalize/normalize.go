// Package normalize provides canonical forms for user-entered fields so
// comparisons (interest overlap, field-of-study match) behave consistently.
package normalize

import "strings"

// Name trims surrounding whitespace and collapses internal runs of spaces.
// Case is preserved; display names are shown as entered.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FieldOfStudy trims and collapses whitespace. Case is preserved for display;
// matching is done case-insensitively by callers.
func FieldOfStudy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tag returns the canonical form of an interest tag: lowercased, whitespace
// trimmed and collapsed. An empty result means the tag should be discarded.
func Tag(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Tags canonicalizes a list of interest tags, dropping empties and
// duplicates while preserving first-seen order.
func Tags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		tag := Tag(raw)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
