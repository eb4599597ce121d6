package sources

import "slices"

// Config enumerates which sources are enabled for a sync pass along with
// the safety, translation, and discovery toggles and capability credentials
// the downstream stages need.
type Config struct {
	// Enabled lists the source IDs to run. Empty means every registered
	// fetcher that reports itself enabled.
	Enabled []ID

	// FuzzyMatching enables the normalized-name reconciliation tier.
	FuzzyMatching bool

	// BlockNSFW selects the safety screener's blocking mode. When false,
	// flagged records are retained but tagged.
	BlockNSFW bool

	// LLMSafety enables the second, probabilistic safety stage
	// (blocking mode only, requires a configured completer).
	LLMSafety bool

	// Translate enables CJK text translation.
	Translate bool

	// TargetLanguage is the translation target (defaults to "English").
	TargetLanguage string

	// Discover enables supplementary record generation.
	Discover bool

	// GeminiAPIKey configures the text-completion capability. Empty means
	// the capability is unavailable and dependent stages degrade.
	GeminiAPIKey string

	// OllamaURL is the base URL of a locally reachable model runtime
	// (e.g. "http://localhost:11434"). Empty disables runtime enumeration.
	OllamaURL string
}

// SourceEnabled reports whether the given ID passes the Enabled filter.
func (c *Config) SourceEnabled(id ID) bool {
	if c == nil || len(c.Enabled) == 0 {
		return true
	}
	return slices.Contains(c.Enabled, id)
}

// Language returns the configured target language, defaulting to English.
func (c *Config) Language() string {
	if c == nil || c.TargetLanguage == "" {
		return "English"
	}
	return c.TargetLanguage
}
