package reconcile

import (
	"strings"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

// NoMatch is returned by MatchIndex when no existing record represents the
// incoming model.
const NoMatch = -1

// MatchIndex finds the index of the existing record that represents the
// same real-world model as the incoming record, or NoMatch. The tiers are
// evaluated in fixed order, first match wins, and a tier is skipped when
// the incoming record lacks its key:
//
//  1. Exact ID equality.
//  2. Exact repo URL equality.
//  3. Exact URL equality.
//  4. Fuzzy (only when enabled): normalized-name equality with compatible
//     domain and provider.
func MatchIndex(existing []catalogs.Model, incoming catalogs.Model, fuzzy bool) int {
	if incoming.ID != "" {
		for i := range existing {
			if existing[i].ID == incoming.ID {
				return i
			}
		}
	}

	if incoming.Repo != "" {
		for i := range existing {
			if existing[i].Repo == incoming.Repo {
				return i
			}
		}
	}

	if incoming.URL != "" {
		for i := range existing {
			if existing[i].URL == incoming.URL {
				return i
			}
		}
	}

	if fuzzy && incoming.Name != "" {
		key := NormalizeName(incoming.Name)
		if key == "" {
			return NoMatch
		}
		for i := range existing {
			if NormalizeName(existing[i].Name) != key {
				continue
			}
			if !domainsCompatible(existing[i].Domain, incoming.Domain) {
				continue
			}
			if !providersCompatible(existing[i].Provider, incoming.Provider) {
				continue
			}
			return i
		}
	}

	return NoMatch
}

// domainsCompatible reports whether two domains can belong to the same
// model: equal, or either side unset.
func domainsCompatible(a, b catalogs.Domain) bool {
	return a == "" || b == "" || a == b
}

// providersCompatible reports whether two provider names can belong to the
// same model: case-insensitive equality, substring containment in either
// direction, or either side unset.
func providersCompatible(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return la == lb || strings.Contains(la, lb) || strings.Contains(lb, la)
}
