package reconcile

import (
	"strings"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

// BatchResult is the outcome of merging a batch of incoming records into a
// working set.
type BatchResult struct {
	Models  []catalogs.Model // the new working set; callers own it
	Added   int              // incoming records with no existing match
	Updated int              // incoming records merged into an existing record
}

// MergeBatch merges incoming records into current. Each incoming record is
// resolved against the growing working set and either appended or merged in
// place; a final pass de-duplicates the set by ID and, when fuzzy matching
// is enabled, by the normalized-name+provider key.
//
// The input slices are treated as read-only: callers may keep references to
// them. The result is deterministic given the same input order.
func MergeBatch(current, incoming []catalogs.Model, fuzzy bool) BatchResult {
	working := make([]catalogs.Model, 0, len(current)+len(incoming))
	for _, m := range current {
		working = append(working, m.Copy())
	}

	result := BatchResult{}
	for _, inc := range incoming {
		idx := MatchIndex(working, inc, fuzzy)
		if idx == NoMatch {
			added := inc.Copy()
			RefreshReleaseTags(&added, timeNow())
			working = append(working, added)
			result.Added++
			continue
		}
		working[idx] = Merge(working[idx], inc)
		result.Updated++
	}

	result.Models = dedupe(working, fuzzy)
	return result
}

// dedupe collapses residual duplicates introduced by the batch itself:
// always by ID, and by normalized-name+provider only when fuzzy matching is
// enabled. Later duplicates merge into the earlier record, preserving order.
func dedupe(models []catalogs.Model, fuzzy bool) []catalogs.Model {
	out := make([]catalogs.Model, 0, len(models))
	byID := make(map[string]int, len(models))
	byKey := make(map[string]int, len(models))

	for _, m := range models {
		if m.ID != "" {
			if idx, ok := byID[m.ID]; ok {
				out[idx] = Merge(out[idx], m)
				continue
			}
		}
		if fuzzy && m.Name != "" {
			key := dedupeKey(m.Name, m.Provider)
			if idx, ok := byKey[key]; ok {
				out[idx] = Merge(out[idx], m)
				continue
			}
		}

		idx := len(out)
		out = append(out, m)
		if m.ID != "" {
			byID[m.ID] = idx
		}
		if fuzzy && m.Name != "" {
			byKey[dedupeKey(m.Name, m.Provider)] = idx
		}
	}

	return out
}

// NormalizeImported prepares raw imported records for MergeBatch: IDs are
// namespaced per source when missing, surrounding whitespace is trimmed
// from text fields, and tag sets are deduplicated. The input is not
// mutated.
func NormalizeImported(source string, records []catalogs.Model) []catalogs.Model {
	out := make([]catalogs.Model, 0, len(records))
	for _, rec := range records {
		m := rec.Copy()

		m.Name = strings.TrimSpace(m.Name)
		m.Provider = strings.TrimSpace(m.Provider)
		m.Description = strings.TrimSpace(m.Description)
		m.URL = strings.TrimSpace(m.URL)
		m.Repo = strings.TrimSpace(m.Repo)

		if m.Source == "" {
			m.Source = source
		}
		if m.ID == "" {
			m.ID = namespacedID(m.Source, m.Name)
		}
		m.Tags = unionStrings(nil, m.Tags)
		m.UsageRestrictions = unionStrings(nil, m.UsageRestrictions)

		out = append(out, m)
	}
	return out
}

// namespacedID builds a stable source-prefixed identifier from a record's
// name when the source supplied none.
func namespacedID(source, name string) string {
	slug := strings.ReplaceAll(NormalizeName(name), " ", "-")
	if slug == "" {
		return ""
	}
	if source == "" {
		return slug
	}
	return source + "-" + slug
}
