// Package catalogs defines the model record types shared across the
// modelscout pipeline. A Model is one catalog entry describing a single AI
// model discovered from an external source; the reconciliation engine
// guarantees exactly one record per resolved real-world model.
package catalogs

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"
)

// Model represents one catalog entry for a single AI model.
type Model struct {
	// Core identity. ID is namespaced per source ("hf-" + source-local id)
	// and immutable once the record is admitted to the catalog.
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`                             // Display name, not guaranteed unique
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // Organization or author
	Domain   Domain `json:"domain,omitempty" yaml:"domain,omitempty"`     // Category (closed set)
	Source   string `json:"source" yaml:"source"`                         // Fetcher that produced this record
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`           // Canonical reference link, secondary identity key
	Repo     string `json:"repo,omitempty" yaml:"repo,omitempty"`         // Repository URL, secondary identity key

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Structured sub-records, merged member-by-member rather than replaced
	License *License  `json:"license,omitempty" yaml:"license,omitempty"`
	Hosting *Hosting  `json:"hosting,omitempty" yaml:"hosting,omitempty"`
	Pricing []Pricing `json:"pricing,omitempty" yaml:"pricing,omitempty"`

	// Volatile metrics, freshest source wins
	Downloads  *int64             `json:"downloads,omitempty" yaml:"downloads,omitempty"`
	Benchmarks map[string]float64 `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
	Analytics  *Analytics         `json:"analytics,omitempty" yaml:"analytics,omitempty"`

	// Dates
	ReleaseDate *utc.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	UpdatedAt   *utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	// Free-form descriptors
	Parameters     string `json:"parameters,omitempty" yaml:"parameters,omitempty"`           // e.g. "7B"
	ContextWindow  string `json:"context_window,omitempty" yaml:"context_window,omitempty"`   // e.g. "128K"
	Indemnity      string `json:"indemnity,omitempty" yaml:"indemnity,omitempty"`             // Indemnification terms summary
	DataProvenance string `json:"data_provenance,omitempty" yaml:"data_provenance,omitempty"` // Training data disclosure summary

	// Accumulating sets
	Tags              []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	UsageRestrictions []string `json:"usage_restrictions,omitempty" yaml:"usage_restrictions,omitempty"`
	Images            []string `json:"images,omitempty" yaml:"images,omitempty"`

	// User-authored state. Sync merges preserve these; FlaggedImageURLs only
	// ever grows across merges.
	Favorite         bool     `json:"is_favorite,omitempty" yaml:"is_favorite,omitempty"`
	NSFWFlagged      bool     `json:"is_nsfw_flagged,omitempty" yaml:"is_nsfw_flagged,omitempty"`
	FlaggedImageURLs []string `json:"flagged_image_urls,omitempty" yaml:"flagged_image_urls,omitempty"`
}

// HasTag reports whether the model carries the given tag.
func (m *Model) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// AddTag appends a tag if not already present.
func (m *Model) AddTag(tag string) {
	if !m.HasTag(tag) {
		m.Tags = append(m.Tags, tag)
	}
}

// RemoveTag removes all occurrences of a tag.
func (m *Model) RemoveTag(tag string) {
	m.Tags = slices.DeleteFunc(m.Tags, func(t string) bool { return t == tag })
}

// Unreleased reports whether the model's release date is strictly after now.
func (m *Model) Unreleased(now time.Time) bool {
	return m.ReleaseDate != nil && m.ReleaseDate.Time.After(now)
}

// Copy returns a deep copy of the model. Slices, maps, and sub-records are
// cloned so a merge working set never aliases caller-owned data.
func (m Model) Copy() Model {
	out := m
	out.Tags = slices.Clone(m.Tags)
	out.UsageRestrictions = slices.Clone(m.UsageRestrictions)
	out.Images = slices.Clone(m.Images)
	out.FlaggedImageURLs = slices.Clone(m.FlaggedImageURLs)
	out.Pricing = slices.Clone(m.Pricing)
	for i := range out.Pricing {
		out.Pricing[i].Input = clonePtr(m.Pricing[i].Input)
		out.Pricing[i].Output = clonePtr(m.Pricing[i].Output)
		out.Pricing[i].Flat = clonePtr(m.Pricing[i].Flat)
	}
	out.Downloads = clonePtr(m.Downloads)
	out.ReleaseDate = clonePtr(m.ReleaseDate)
	out.UpdatedAt = clonePtr(m.UpdatedAt)
	if m.License != nil {
		license := *m.License
		out.License = &license
	}
	if m.Hosting != nil {
		hosting := *m.Hosting
		hosting.Providers = slices.Clone(m.Hosting.Providers)
		out.Hosting = &hosting
	}
	if m.Analytics != nil {
		analytics := *m.Analytics
		out.Analytics = &analytics
	}
	if m.Benchmarks != nil {
		out.Benchmarks = make(map[string]float64, len(m.Benchmarks))
		for k, v := range m.Benchmarks {
			out.Benchmarks[k] = v
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Well-known tags applied by the pipeline.
const (
	// TagNSFW marks content the safety screener flagged in tagging mode.
	TagNSFW = "nsfw"
	// TagUnreleased marks models whose release date is in the future.
	TagUnreleased = "unreleased"
	// TagFutureRelease accompanies TagUnreleased for display filtering.
	TagFutureRelease = "future-release"
	// TagTranslated marks records whose text was machine-translated.
	TagTranslated = "translated"
	// TagDiscovered marks records proposed by the discovery service.
	TagDiscovered = "discovered"
)

// Domain categorizes a model by its primary task.
type Domain string

// String returns the string representation of a Domain.
func (d Domain) String() string {
	return string(d)
}

// Model domains.
const (
	DomainLanguageModel     Domain = "language-model"
	DomainVisionLanguage    Domain = "vision-language-model"
	DomainImageGeneration   Domain = "image-generation"
	DomainVideoGeneration   Domain = "video-generation"
	DomainAudio             Domain = "audio"
	DomainSpeechRecognition Domain = "speech-recognition"
	DomainSpeechSynthesis   Domain = "speech-synthesis"
	Domain3D                Domain = "3d"
	DomainAdapter           Domain = "adapter"
	DomainFineTune          Domain = "fine-tune"
	DomainUpscaler          Domain = "upscaler"
	DomainBackgroundRemoval Domain = "background-removal"
	DomainEmbedding         Domain = "embedding"
	DomainOther             Domain = "other"
)

// Domains returns all defined domains.
func Domains() []Domain {
	return []Domain{
		DomainLanguageModel,
		DomainVisionLanguage,
		DomainImageGeneration,
		DomainVideoGeneration,
		DomainAudio,
		DomainSpeechRecognition,
		DomainSpeechSynthesis,
		Domain3D,
		DomainAdapter,
		DomainFineTune,
		DomainUpscaler,
		DomainBackgroundRemoval,
		DomainEmbedding,
		DomainOther,
	}
}

// IsValid returns true if the domain is one of the defined constants.
func (d Domain) IsValid() bool {
	return slices.Contains(Domains(), d)
}

// License describes the licensing terms of a model.
type License struct {
	Name                string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type                LicenseType `json:"type,omitempty" yaml:"type,omitempty"`
	CommercialUse       bool        `json:"commercial_use" yaml:"commercial_use"`
	AttributionRequired bool        `json:"attribution_required" yaml:"attribution_required"`
	ShareAlike          bool        `json:"share_alike" yaml:"share_alike"`
	Copyleft            bool        `json:"copyleft" yaml:"copyleft"`
	URL                 string      `json:"url,omitempty" yaml:"url,omitempty"`
	Notes               string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// LicenseType classifies a license.
type LicenseType string

// License types.
const (
	LicenseOpenSource    LicenseType = "open-source-approved"
	LicenseCopyleft      LicenseType = "copyleft"
	LicenseProprietary   LicenseType = "proprietary"
	LicenseNonCommercial LicenseType = "non-commercial"
	LicenseCustom        LicenseType = "custom"
)

// Hosting describes where and how a model can be run.
type Hosting struct {
	WeightsAvailable  bool     `json:"weights_available" yaml:"weights_available"`
	APIAvailable      bool     `json:"api_available" yaml:"api_available"`
	OnPremiseFriendly bool     `json:"on_premise_friendly" yaml:"on_premise_friendly"`
	Providers         []string `json:"providers,omitempty" yaml:"providers,omitempty"`
}

// Pricing is one pricing entry for a model.
type Pricing struct {
	ModelLabel string   `json:"model_label,omitempty" yaml:"model_label,omitempty"`
	Unit       string   `json:"unit,omitempty" yaml:"unit,omitempty"` // e.g. "1M tokens"
	Input      *float64 `json:"input,omitempty" yaml:"input,omitempty"`
	Output     *float64 `json:"output,omitempty" yaml:"output,omitempty"`
	Flat       *float64 `json:"flat,omitempty" yaml:"flat,omitempty"`
	Currency   string   `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Key returns the structural dedup key for a pricing entry: lowercase model
// label and unit, the three amounts, and uppercase currency.
func (p Pricing) Key() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(p.ModelLabel))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(p.Unit))
	b.WriteByte('|')
	b.WriteString(floatKey(p.Input))
	b.WriteByte('|')
	b.WriteString(floatKey(p.Output))
	b.WriteByte('|')
	b.WriteString(floatKey(p.Flat))
	b.WriteByte('|')
	b.WriteString(strings.ToUpper(p.Currency))
	return b.String()
}

func floatKey(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

// Analytics holds volatile popularity metrics from a source.
type Analytics struct {
	Views    int64   `json:"views,omitempty" yaml:"views,omitempty"`
	Likes    int64   `json:"likes,omitempty" yaml:"likes,omitempty"`
	Comments int64   `json:"comments,omitempty" yaml:"comments,omitempty"`
	Rating   float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
}
