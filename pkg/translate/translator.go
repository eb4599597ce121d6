// Package translate normalizes cross-lingual record text. It detects CJK
// code points in name and description fields and asks the text-completion
// capability for a translation, tagging records it successfully translated.
// Capability failures are tolerated per record: the original text is kept
// and the batch continues.
package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/llm"
	"github.com/modelscout/modelscout/pkg/logging"
)

const (
	defaultConcurrency = 4

	translateSystemPrompt = "You are a translator for an AI model catalog. Translate the given " +
		"model name and description to %s. Keep technical terms, version numbers, and brand " +
		"names as-is. Respond with strict JSON only: {\"name\": \"...\", \"description\": \"...\"}."
)

// Translator rewrites CJK record text via the text-completion capability.
type Translator struct {
	completer   llm.Completer
	language    string
	concurrency int
}

// Option configures a Translator.
type Option func(*Translator)

// WithLanguage sets the target language (defaults to English).
func WithLanguage(language string) Option {
	return func(t *Translator) {
		if language != "" {
			t.language = language
		}
	}
}

// WithConcurrency bounds the number of in-flight capability calls.
func WithConcurrency(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// New creates a Translator. A nil completer yields a Translator whose
// Translate is a no-op, so callers need not special-case an unconfigured
// capability.
func New(completer llm.Completer, opts ...Option) *Translator {
	t := &Translator{
		completer:   completer,
		language:    "English",
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// translation is the strict JSON shape the capability must return.
type translation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Translate returns a new slice in which records with CJK name or
// description text have been translated where the capability succeeded.
// The input is not mutated; record order is preserved.
func (t *Translator) Translate(ctx context.Context, models []catalogs.Model, logFn func(string)) []catalogs.Model {
	out := make([]catalogs.Model, len(models))
	copy(out, models)

	if t.completer == nil {
		return out
	}

	logger := logging.FromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	var needed int
	for i := range out {
		if !out[i].NeedsTranslation() {
			continue
		}
		needed++

		g.Go(func() error {
			translated, err := t.translateOne(gctx, out[i])
			if err != nil {
				// Keep the original text and move on.
				logger.Debug().
					Err(err).
					Str("model_id", out[i].ID).
					Msg("Translation failed, keeping original text")
				return nil
			}
			out[i] = translated
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; failures are per-record

	if needed > 0 && logFn != nil {
		logFn(fmt.Sprintf("Translation: %d records needed translation", needed))
	}

	return out
}

// translateOne translates a single record's name and description.
func (t *Translator) translateOne(ctx context.Context, m catalogs.Model) (catalogs.Model, error) {
	payload, err := json.Marshal(translation{Name: m.Name, Description: m.Description})
	if err != nil {
		return m, err
	}

	completion, err := t.completer.Complete(ctx,
		fmt.Sprintf(translateSystemPrompt, t.language),
		string(payload),
	)
	if err != nil {
		return m, err
	}

	var result translation
	if err := json.Unmarshal([]byte(llm.ExtractJSON(completion)), &result); err != nil {
		return m, err
	}
	if result.Name == "" && result.Description == "" {
		return m, fmt.Errorf("empty translation for model %s", m.ID)
	}

	translated := m.Copy()
	if result.Name != "" && catalogs.ContainsCJK(m.Name) {
		translated.Name = result.Name
	}
	if result.Description != "" && catalogs.ContainsCJK(m.Description) {
		translated.Description = result.Description
	}
	translated.AddTag(catalogs.TagTranslated)
	return translated, nil
}
