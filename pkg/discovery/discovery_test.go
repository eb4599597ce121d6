package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/llm"
)

type fakeRuntime struct {
	models []catalogs.Model
	err    error
}

func (f *fakeRuntime) ListModels(_ context.Context) ([]catalogs.Model, error) {
	return f.models, f.err
}

func TestDiscoverProposals(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(_ context.Context, _, userPrompt string) (string, error) {
		assert.Contains(t, userPrompt, "GPT-4")
		return `[
			{"name": "Claude 3", "provider": "anthropic", "domain": "language-model", "description": "Assistant model"},
			{"name": "GPT-4", "provider": "OpenAI", "domain": "language-model", "description": "Already known"},
			{"name": "Mystery", "provider": "", "domain": "not-a-domain", "description": ""}
		]`, nil
	})

	d := New(WithCompleter(completer))
	existing := []catalogs.Model{{ID: "hf-gpt-4", Name: "GPT-4", Provider: "OpenAI"}}

	var logs []string
	got := d.Discover(context.Background(), existing, func(msg string) { logs = append(logs, msg) })

	require.Len(t, got, 2)

	claude := got[0]
	assert.Equal(t, "Claude 3", claude.Name)
	assert.Equal(t, "Anthropic", claude.Provider, "lowercase provider gets display casing")
	assert.Equal(t, catalogs.DomainLanguageModel, claude.Domain)
	assert.Equal(t, "discovery", claude.Source)
	assert.True(t, strings.HasPrefix(claude.ID, "discovery-"))
	assert.True(t, claude.HasTag(catalogs.TagDiscovered))

	assert.Equal(t, catalogs.DomainOther, got[1].Domain, "unknown domain falls back to other")

	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "2 models proposed")
}

func TestDiscoverCapabilityFailure(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	d := New(WithCompleter(completer))
	got := d.Discover(context.Background(), nil, nil)
	assert.Empty(t, got, "capability failure yields no extra records")
}

func TestDiscoverUnparseableResponse(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(_ context.Context, _, _ string) (string, error) {
		return "I think you should look at Claude 3 and Gemini.", nil
	})

	d := New(WithCompleter(completer))
	got := d.Discover(context.Background(), nil, nil)
	assert.Empty(t, got)
}

func TestDiscoverLimit(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(_ context.Context, _, _ string) (string, error) {
		return `[
			{"name": "Model A", "provider": "A", "domain": "language-model"},
			{"name": "Model B", "provider": "B", "domain": "language-model"},
			{"name": "Model C", "provider": "C", "domain": "language-model"}
		]`, nil
	})

	d := New(WithCompleter(completer), WithLimit(2))
	got := d.Discover(context.Background(), nil, nil)
	assert.Len(t, got, 2)
}

func TestDiscoverRuntime(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{models: []catalogs.Model{
		{ID: "ollama-llama3", Name: "llama3", Source: "ollama"},
		{ID: "ollama-gpt-4", Name: "GPT-4", Source: "ollama"},
	}}

	d := New(WithRuntime(rt))
	existing := []catalogs.Model{{ID: "hf-gpt-4", Name: "GPT-4"}}
	got := d.Discover(context.Background(), existing, nil)

	require.Len(t, got, 1, "runtime records already in the catalog are skipped")
	assert.Equal(t, "ollama-llama3", got[0].ID)
}

func TestDiscoverRuntimeFailure(t *testing.T) {
	t.Parallel()

	d := New(WithRuntime(&fakeRuntime{err: errors.New("connection refused")}))
	got := d.Discover(context.Background(), nil, nil)
	assert.Empty(t, got)
}

func TestDiscoverNothingConfigured(t *testing.T) {
	t.Parallel()

	got := New().Discover(context.Background(), nil, nil)
	assert.Empty(t, got)
}
