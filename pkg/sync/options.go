// Package sync provides the options, callbacks, and result types for
// catalog sync orchestration.
package sync

import (
	"time"

	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/sources"
)

// Options controls a single sync run.
type Options struct {
	// Orchestration control
	DryRun   bool          // Fetch and reconcile without committing the working set
	FailFast bool          // Stop on the first source error instead of continuing
	Timeout  time.Duration // Timeout for the entire sync operation (0 means none)

	// Source selection
	Sources []sources.ID // Which sources to use (empty means all registered)

	// Reconciliation behavior
	FuzzyMatching bool // Match duplicates by normalized name across sources

	// Safety behavior
	BlockNSFW bool // Blocking mode: quarantine flagged records instead of tagging
	LLMSafety bool // Enable the second-stage LLM classification pass

	// Enrichment behavior
	Translate      bool   // Translate CJK names and descriptions
	TargetLanguage string // Translation target (empty means English)
	Discover       bool   // Ask the LLM for catalog records the fetchers missed

	// Capability configuration
	GeminiAPIKey string // API key for LLM-backed stages
	OllamaURL    string // Local runtime base URL (empty disables enumeration)

	// Events receives progress, log, and partial-result callbacks.
	Events *Events
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		FuzzyMatching: true,
		Translate:     true,
	}
}

// Apply applies the given options and returns the receiver.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks that the options are coherent.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	if o.LLMSafety && o.GeminiAPIKey == "" {
		return &errors.ValidationError{
			Field:   "GeminiAPIKey",
			Message: "LLM safety screening requires an API key",
		}
	}
	if o.Discover && o.GeminiAPIKey == "" && o.OllamaURL == "" {
		return &errors.ValidationError{
			Field:   "Discover",
			Message: "discovery requires an API key or a local runtime URL",
		}
	}
	return nil
}

// SourceConfig converts the options into the per-fetcher configuration.
func (o *Options) SourceConfig() *sources.Config {
	return &sources.Config{
		Enabled:        o.Sources,
		FuzzyMatching:  o.FuzzyMatching,
		BlockNSFW:      o.BlockNSFW,
		LLMSafety:      o.LLMSafety,
		Translate:      o.Translate,
		TargetLanguage: o.TargetLanguage,
		Discover:       o.Discover,
		GeminiAPIKey:   o.GeminiAPIKey,
		OllamaURL:      o.OllamaURL,
	}
}

// WithSources limits the sync to the given source IDs.
func WithSources(ids ...sources.ID) Option {
	return func(o *Options) {
		o.Sources = ids
	}
}

// WithTimeout bounds the entire sync operation.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithDryRun fetches and reconciles without committing the result.
func WithDryRun() Option {
	return func(o *Options) {
		o.DryRun = true
	}
}

// WithFailFast stops the sync on the first source error.
func WithFailFast() Option {
	return func(o *Options) {
		o.FailFast = true
	}
}

// WithFuzzyMatching toggles normalized-name duplicate matching.
func WithFuzzyMatching(enabled bool) Option {
	return func(o *Options) {
		o.FuzzyMatching = enabled
	}
}

// WithBlockNSFW quarantines flagged records instead of tagging them.
func WithBlockNSFW() Option {
	return func(o *Options) {
		o.BlockNSFW = true
	}
}

// WithLLMSafety enables the second-stage LLM classification pass.
func WithLLMSafety() Option {
	return func(o *Options) {
		o.LLMSafety = true
	}
}

// WithTranslation toggles CJK translation and sets the target language.
func WithTranslation(enabled bool, language string) Option {
	return func(o *Options) {
		o.Translate = enabled
		o.TargetLanguage = language
	}
}

// WithDiscovery enables LLM and local-runtime discovery.
func WithDiscovery() Option {
	return func(o *Options) {
		o.Discover = true
	}
}

// WithGeminiAPIKey sets the API key for LLM-backed stages.
func WithGeminiAPIKey(key string) Option {
	return func(o *Options) {
		o.GeminiAPIKey = key
	}
}

// WithOllamaURL sets the local runtime base URL for enumeration.
func WithOllamaURL(url string) Option {
	return func(o *Options) {
		o.OllamaURL = url
	}
}

// WithEvents attaches progress, log, and partial-result callbacks.
func WithEvents(e *Events) Option {
	return func(o *Options) {
		o.Events = e
	}
}
