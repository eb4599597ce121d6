package reconcile

import (
	"time"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

// timeNow is stubbed in tests for the future-release tag recomputation.
var timeNow = time.Now

// Merge combines an incoming record into an existing record under the field
// classification policy:
//
//   - Identity fields (name, provider, domain, source, url, repo): existing
//     wins when present. Name has one exception: a non-CJK incoming name
//     replaces a CJK existing name, so translated data can displace an
//     earlier scraped name.
//   - Dynamic fields (dates, downloads, parameters, context window,
//     indemnity, data provenance, benchmarks, analytics, description):
//     incoming wins when present.
//   - Accumulating fields (tags, usage restrictions, hosting providers,
//     pricing, images, flagged image URLs): set-union, deduplicated.
//   - Sub-records (license, hosting booleans): merged member-by-member.
//   - User-authored fields (favorite, NSFW flag, flagged image URLs):
//     preserved from existing; flagged image URLs only ever grow.
//
// The ID always comes from existing: identity is immutable once assigned.
// Neither argument is mutated.
func Merge(existing, incoming catalogs.Model) catalogs.Model {
	merged := existing.Copy()

	// Identity fields
	merged.Name = mergeName(existing.Name, incoming.Name)
	if merged.Provider == "" {
		merged.Provider = incoming.Provider
	}
	if merged.Domain == "" {
		merged.Domain = incoming.Domain
	}
	if merged.Source == "" {
		merged.Source = incoming.Source
	}
	if merged.URL == "" {
		merged.URL = incoming.URL
	}
	if merged.Repo == "" {
		merged.Repo = incoming.Repo
	}

	// Dynamic fields
	if incoming.Description != "" {
		merged.Description = incoming.Description
	}
	if incoming.ReleaseDate != nil {
		release := *incoming.ReleaseDate
		merged.ReleaseDate = &release
	}
	if incoming.UpdatedAt != nil {
		updated := *incoming.UpdatedAt
		merged.UpdatedAt = &updated
	}
	if incoming.Downloads != nil {
		downloads := *incoming.Downloads
		merged.Downloads = &downloads
	}
	if incoming.Parameters != "" {
		merged.Parameters = incoming.Parameters
	}
	if incoming.ContextWindow != "" {
		merged.ContextWindow = incoming.ContextWindow
	}
	if incoming.Indemnity != "" {
		merged.Indemnity = incoming.Indemnity
	}
	if incoming.DataProvenance != "" {
		merged.DataProvenance = incoming.DataProvenance
	}
	if len(incoming.Benchmarks) > 0 {
		merged.Benchmarks = make(map[string]float64, len(incoming.Benchmarks))
		for k, v := range incoming.Benchmarks {
			merged.Benchmarks[k] = v
		}
	}
	if incoming.Analytics != nil {
		analytics := *incoming.Analytics
		merged.Analytics = &analytics
	}

	// Accumulating fields
	merged.Tags = unionStrings(merged.Tags, incoming.Tags)
	merged.UsageRestrictions = unionStrings(merged.UsageRestrictions, incoming.UsageRestrictions)
	merged.Images = unionStrings(merged.Images, incoming.Images)
	merged.Pricing = unionPricing(merged.Pricing, incoming.Pricing)

	// Sub-records
	merged.License = mergeLicense(existing.License, incoming.License)
	merged.Hosting = mergeHosting(existing.Hosting, incoming.Hosting)

	// User-authored state. Existing values are never cleared; an unset
	// existing value may be filled from incoming (e.g. safety tagging).
	merged.Favorite = existing.Favorite || incoming.Favorite
	merged.NSFWFlagged = existing.NSFWFlagged || incoming.NSFWFlagged
	merged.FlaggedImageURLs = unionStrings(merged.FlaggedImageURLs, incoming.FlaggedImageURLs)

	RefreshReleaseTags(&merged, timeNow())

	return merged
}

// RefreshReleaseTags recomputes the derived unreleased tagging against the
// given wall-clock time. Recomputed on every merge, not just at creation,
// so a record whose release date has passed loses the tags.
func RefreshReleaseTags(m *catalogs.Model, now time.Time) {
	if m.Unreleased(now) {
		m.AddTag(catalogs.TagUnreleased)
		m.AddTag(catalogs.TagFutureRelease)
		return
	}
	m.RemoveTag(catalogs.TagUnreleased)
	m.RemoveTag(catalogs.TagFutureRelease)
}

// mergeName applies the identity rule with the CJK exception.
func mergeName(existing, incoming string) string {
	if existing == "" {
		return incoming
	}
	if incoming != "" && catalogs.ContainsCJK(existing) && !catalogs.ContainsCJK(incoming) {
		return incoming
	}
	return existing
}

// mergeLicense merges license sub-records member-by-member: scalars follow
// the dynamic rule (incoming wins when present); the usage booleans travel
// with the license identity, so incoming booleans apply only when incoming
// names a license at all.
func mergeLicense(existing, incoming *catalogs.License) *catalogs.License {
	if incoming == nil {
		if existing == nil {
			return nil
		}
		out := *existing
		return &out
	}
	if existing == nil {
		out := *incoming
		return &out
	}

	out := *existing
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.Type != "" {
		out.Type = incoming.Type
	}
	if incoming.URL != "" {
		out.URL = incoming.URL
	}
	if incoming.Notes != "" {
		out.Notes = incoming.Notes
	}
	if incoming.Name != "" || incoming.Type != "" {
		out.CommercialUse = incoming.CommercialUse
		out.AttributionRequired = incoming.AttributionRequired
		out.ShareAlike = incoming.ShareAlike
		out.Copyleft = incoming.Copyleft
	}
	return &out
}

// mergeHosting ORs the hosting booleans (true wins) and unions providers.
func mergeHosting(existing, incoming *catalogs.Hosting) *catalogs.Hosting {
	if incoming == nil && existing == nil {
		return nil
	}
	out := catalogs.Hosting{}
	if existing != nil {
		out = *existing
		out.Providers = unionStrings(nil, existing.Providers)
	}
	if incoming != nil {
		out.WeightsAvailable = out.WeightsAvailable || incoming.WeightsAvailable
		out.APIAvailable = out.APIAvailable || incoming.APIAvailable
		out.OnPremiseFriendly = out.OnPremiseFriendly || incoming.OnPremiseFriendly
		out.Providers = unionStrings(out.Providers, incoming.Providers)
	}
	return &out
}

// unionStrings appends items from add not already in base, preserving order.
func unionStrings(base, add []string) []string {
	if len(add) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// unionPricing unions pricing entries by their structural key.
func unionPricing(base, add []catalogs.Pricing) []catalogs.Pricing {
	if len(add) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]catalogs.Pricing, 0, len(base)+len(add))
	for _, p := range base {
		key := p.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	for _, p := range add {
		key := p.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
