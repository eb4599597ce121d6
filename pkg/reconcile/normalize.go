// Package reconcile implements entity resolution and field merging for
// catalog records. Given an existing record set and incoming candidates it
// resolves which records refer to the same real-world model, merges matched
// pairs under a fixed field-classification policy, and de-duplicates the
// final set, keeping record identity stable across repeated syncs.
package reconcile

import (
	"strings"
	"unicode"
)

// NormalizeName produces the canonical matching key for a model name:
// lowercase, bracket qualifiers unwrapped ("Name [variant]" becomes
// "name variant"), every non-alphanumeric run collapsed to a single space,
// and trimmed. The same key drives fuzzy matching and final de-duplication,
// so it must stay stable.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastSpace := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		// Brackets and every other separator collapse to one space
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// dedupeKey is the normalized-name plus provider key used for the final
// de-duplication pass.
func dedupeKey(name, provider string) string {
	return NormalizeName(name) + "|" + strings.ToLower(strings.TrimSpace(provider))
}

// WordOverlap reports whether two names share at least two significant word
// segments. This is an optional enrichment heuristic, deliberately kept out
// of the primary match tiers.
func WordOverlap(a, b string) bool {
	const minSegment = 3
	const minShared = 2

	segments := func(s string) map[string]struct{} {
		set := make(map[string]struct{})
		for _, seg := range strings.Fields(NormalizeName(s)) {
			if len(seg) >= minSegment {
				set[seg] = struct{}{}
			}
		}
		return set
	}

	aSegs := segments(a)
	shared := 0
	for seg := range segments(b) {
		if _, ok := aSegs[seg]; ok {
			shared++
			if shared >= minShared {
				return true
			}
		}
	}
	return false
}
