// Package safety implements the two-stage content screener. Stage one is a
// deterministic keyword scan that always runs; stage two is an optional
// probabilistic pass over the stage-one-safe subset using the
// text-completion capability. Stage two fails open: a capability or parse
// failure never blocks content that stage one accepted.
package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/llm"
	"github.com/modelscout/modelscout/pkg/logging"
)

// defaultPatterns is the stage-one keyword list, matched on word boundaries
// against name, description, and tags.
var defaultPatterns = []string{
	"nsfw", "porn", "pornographic", "hentai", "explicit", "xxx",
	"nude", "nudity", "sexual", "erotic", "erotica", "uncensored",
	"fetish", "adult content", "adult only",
}

// defaults for the stage-two batch loop.
const (
	defaultBatchSize     = 10
	defaultBatchDelay    = time.Second
	estimatePerBatch     = 3 * time.Second
	classifySystemPrompt = "You are a content safety classifier for an AI model catalog. " +
		"Given a numbered list of models with their names and descriptions, decide for each " +
		"whether it is primarily intended for generating adult (NSFW) content. " +
		"Respond with strict JSON only: an object mapping each model id to true (NSFW) or false (safe). " +
		"No prose, no markdown."
)

// ConfirmFunc asks for explicit user confirmation before the probabilistic
// stage runs, given the number of batches and a time estimate. Returning
// false skips stage two.
type ConfirmFunc func(batches int, estimated time.Duration) bool

// SkipFunc is polled between stage-two batches; returning true drains the
// remaining batches as safe.
type SkipFunc func() bool

// Result is the outcome of a screening pass.
type Result struct {
	Complete []catalogs.Model // records admitted to the pipeline
	Flagged  []catalogs.Model // records blocked (blocking mode only)

	// Stage-two accounting
	LLMChecked    int // records examined by the probabilistic stage
	ParseFailures int // batches whose response could not be parsed (failed open)
}

// Screener is the two-stage content classifier.
type Screener struct {
	patterns   []*regexp.Regexp
	completer  llm.Completer
	confirm    ConfirmFunc
	skip       SkipFunc
	batchSize  int
	batchDelay time.Duration
}

// Option configures a Screener.
type Option func(*Screener)

// WithCompleter provides the text-completion capability enabling stage two.
func WithCompleter(c llm.Completer) Option {
	return func(s *Screener) {
		s.completer = c
	}
}

// WithConfirm sets the stage-two confirmation callback. Without one, stage
// two proceeds unconditionally when a completer is configured.
func WithConfirm(fn ConfirmFunc) Option {
	return func(s *Screener) {
		s.confirm = fn
	}
}

// WithSkip sets the user-skip signal polled between stage-two batches.
func WithSkip(fn SkipFunc) Option {
	return func(s *Screener) {
		s.skip = fn
	}
}

// WithKeywords replaces the default stage-one keyword list.
func WithKeywords(keywords []string) Option {
	return func(s *Screener) {
		s.patterns = compilePatterns(keywords)
	}
}

// WithBatchSize overrides the stage-two batch size.
func WithBatchSize(n int) Option {
	return func(s *Screener) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithBatchDelay overrides the inter-batch delay used to respect external
// rate limits.
func WithBatchDelay(d time.Duration) Option {
	return func(s *Screener) {
		s.batchDelay = d
	}
}

// NewScreener creates a screener with the default keyword list.
func NewScreener(opts ...Option) *Screener {
	s := &Screener{
		patterns:   compilePatterns(defaultPatterns),
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func compilePatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b(?:`+regexp.QuoteMeta(kw)+`)\b`))
	}
	return patterns
}

// Partition runs the deterministic stage-one scan, splitting the input into
// safe and flagged subsets. It runs regardless of operating mode and never
// mutates its input.
func (s *Screener) Partition(models []catalogs.Model) (safe, flagged []catalogs.Model) {
	for _, m := range models {
		if s.matches(&m) {
			flagged = append(flagged, m)
			continue
		}
		safe = append(safe, m)
	}
	return safe, flagged
}

// matches reports whether any stage-one pattern hits the record's name,
// description, or tags.
func (s *Screener) matches(m *catalogs.Model) bool {
	text := m.Name + "\n" + m.Description + "\n" + strings.Join(m.Tags, "\n")
	for _, p := range s.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Screen runs the full screening pass. In blocking mode, stage-one flagged
// records move to Result.Flagged and the stage-one-safe subset optionally
// goes through the probabilistic stage. In tagging mode, flagged records
// stay in Result.Complete, annotated with the NSFW flag and tag, so a
// presentation layer can hide them without deleting them.
func (s *Screener) Screen(ctx context.Context, models []catalogs.Model, blocking bool, logFn func(string)) (Result, error) {
	safe, flagged := s.Partition(models)

	logger := logging.FromContext(ctx)
	logger.Debug().
		Int("input", len(models)).
		Int("flagged", len(flagged)).
		Bool("blocking", blocking).
		Msg("Keyword screening complete")

	if !blocking {
		// Tagging mode: retain but annotate.
		complete := make([]catalogs.Model, 0, len(models))
		complete = append(complete, safe...)
		for _, m := range flagged {
			tagged := m.Copy()
			tagged.NSFWFlagged = true
			tagged.AddTag(catalogs.TagNSFW)
			complete = append(complete, tagged)
		}
		return Result{Complete: complete}, nil
	}

	result := Result{Complete: safe, Flagged: flagged}

	if s.completer == nil {
		return result, nil
	}

	return s.classify(ctx, result, logFn)
}

// classify runs stage two over the stage-one-safe subset in fixed-size
// batches. Per-batch parse failures fail open; only a summary count is
// reported.
func (s *Screener) classify(ctx context.Context, result Result, logFn func(string)) (Result, error) {
	pending := result.Complete
	batches := (len(pending) + s.batchSize - 1) / s.batchSize
	if batches == 0 {
		return result, nil
	}

	if s.confirm != nil {
		estimated := time.Duration(batches) * estimatePerBatch
		if !s.confirm(batches, estimated) {
			logging.FromContext(ctx).Info().Msg("Probabilistic safety pass declined")
			return result, nil
		}
	}

	complete := make([]catalogs.Model, 0, len(pending))
	for start := 0; start < len(pending); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapCanceled("safety classification", err)
		}
		if s.skip != nil && s.skip() {
			// Drain the remainder as safe rather than silently stopping.
			complete = append(complete, pending[start:]...)
			if logFn != nil {
				logFn("Safety classification skipped; remaining models treated as safe")
			}
			break
		}

		end := min(start+s.batchSize, len(pending))
		batch := pending[start:end]

		flaggedIDs, err := s.classifyBatch(ctx, batch)
		result.LLMChecked += len(batch)
		if err != nil {
			// Fail open: the whole batch is treated as safe.
			result.ParseFailures++
			complete = append(complete, batch...)
		} else {
			for _, m := range batch {
				if flaggedIDs[m.ID] {
					result.Flagged = append(result.Flagged, m)
					continue
				}
				complete = append(complete, m)
			}
		}

		if end < len(pending) && s.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return result, errors.WrapCanceled("safety classification", ctx.Err())
			case <-time.After(s.batchDelay):
			}
		}
	}

	result.Complete = complete

	if result.ParseFailures > 0 && logFn != nil {
		logFn(fmt.Sprintf("Safety classification: %d of %d batches could not be parsed and were treated as safe", result.ParseFailures, batches))
	}

	return result, nil
}

// classifyBatch sends one batch to the completer and parses the strict
// per-id JSON verdict.
func (s *Screener) classifyBatch(ctx context.Context, batch []catalogs.Model) (map[string]bool, error) {
	var b strings.Builder
	for i, m := range batch {
		fmt.Fprintf(&b, "%d. id=%q name=%q", i+1, m.ID, m.Name)
		if m.Description != "" {
			fmt.Fprintf(&b, " description=%q", truncate(m.Description, 300))
		}
		b.WriteByte('\n')
	}

	completion, err := s.completer.Complete(ctx, classifySystemPrompt, b.String())
	if err != nil {
		return nil, errors.WrapCapability("classify", err)
	}

	verdicts := make(map[string]bool)
	if err := json.Unmarshal([]byte(llm.ExtractJSON(completion)), &verdicts); err != nil {
		return nil, errors.WrapParse("json", "safety classification response", err)
	}
	return verdicts, nil
}

// truncate caps s at n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
