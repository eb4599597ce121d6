package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

func TestMergeBatch_AddAndUpdate(t *testing.T) {
	current := []catalogs.Model{
		{ID: "hf-1", Name: "Llama", Provider: "Meta"},
	}
	incoming := []catalogs.Model{
		{ID: "hf-1", Name: "Llama v2", Parameters: "7B"},
		{ID: "hf-2", Name: "Mistral", Provider: "Mistral AI"},
	}

	result := MergeBatch(current, incoming, false)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Models, 2)
	assert.Equal(t, "Llama", result.Models[0].Name)
	assert.Equal(t, "7B", result.Models[0].Parameters)
	assert.Equal(t, "hf-2", result.Models[1].ID)
}

func TestMergeBatch_FuzzyScenario(t *testing.T) {
	current := []catalogs.Model{
		{ID: "a", Name: "GPT-4", Provider: "OpenAI"},
	}
	incoming := []catalogs.Model{
		{ID: "b", Name: "gpt-4", Provider: "openai"},
	}

	t.Run("fuzzy enabled collapses to one record", func(t *testing.T) {
		result := MergeBatch(current, incoming, true)
		assert.Equal(t, 0, result.Added)
		assert.Equal(t, 1, result.Updated)
		require.Len(t, result.Models, 1)
		assert.Equal(t, "a", result.Models[0].ID, "identity stays with the existing record")
	})

	t.Run("fuzzy disabled keeps two records", func(t *testing.T) {
		result := MergeBatch(current, incoming, false)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 0, result.Updated)
		assert.Len(t, result.Models, 2)
	})
}

func TestMergeBatch_Idempotence(t *testing.T) {
	current := []catalogs.Model{
		{ID: "hf-1", Name: "Llama", Provider: "Meta", Tags: []string{"chat"}},
	}
	batch := []catalogs.Model{
		{ID: "hf-1", Name: "Llama v2", Parameters: "7B", Tags: []string{"instruct"}},
		{ID: "cai-1", Name: "Dreamshaper", Provider: "Lykon"},
	}

	once := MergeBatch(current, batch, true)
	twice := MergeBatch(once.Models, batch, true)

	assert.Equal(t, once.Models, twice.Models, "merging the same batch twice changes nothing")
	assert.Equal(t, 0, twice.Added)
}

func TestMergeBatch_IdentityStability(t *testing.T) {
	current := []catalogs.Model{
		{ID: "hf-1", Name: "Llama", Repo: "https://github.com/meta/llama", URL: "https://hf.co/meta/llama"},
	}

	// Matched by repo, by url, then by id across successive syncs; the
	// assigned ID never changes.
	working := current
	for _, incoming := range [][]catalogs.Model{
		{{ID: "scrape-7", Repo: "https://github.com/meta/llama"}},
		{{ID: "scrape-8", URL: "https://hf.co/meta/llama"}},
		{{ID: "hf-1", Name: "Llama 3"}},
	} {
		result := MergeBatch(working, incoming, false)
		require.Len(t, result.Models, 1)
		assert.Equal(t, "hf-1", result.Models[0].ID)
		working = result.Models
	}
}

func TestMergeBatch_MatchesAgainstGrowingSet(t *testing.T) {
	// The second incoming record matches the first incoming record, which
	// was appended earlier in the same batch.
	incoming := []catalogs.Model{
		{ID: "x-1", Name: "Flux Dev", Provider: "BFL"},
		{ID: "x-1", Parameters: "12B"},
	}

	result := MergeBatch(nil, incoming, false)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Models, 1)
	assert.Equal(t, "12B", result.Models[0].Parameters)
}

func TestMergeBatch_FinalDedupe(t *testing.T) {
	// Two batch records with distinct IDs but the same normalized name and
	// provider are residual duplicates: the final pass collapses them when
	// fuzzy matching is on.
	current := []catalogs.Model{
		{ID: "a", Name: "SDXL [base]", Provider: "Stability AI", Repo: "https://github.com/stability/sdxl"},
		{ID: "b", Name: "sdxl base", Provider: "stability ai", Tags: []string{"image"}},
	}

	result := MergeBatch(current, nil, true)

	require.Len(t, result.Models, 1)
	assert.Equal(t, "a", result.Models[0].ID)
	assert.Equal(t, "https://github.com/stability/sdxl", result.Models[0].Repo)
	assert.True(t, result.Models[0].HasTag("image"))
}

func TestMergeBatch_DoesNotMutateInputs(t *testing.T) {
	current := []catalogs.Model{
		{ID: "hf-1", Name: "Llama", Tags: []string{"chat"}},
	}
	incoming := []catalogs.Model{
		{ID: "hf-1", Tags: []string{"instruct"}},
	}

	_ = MergeBatch(current, incoming, false)

	assert.Equal(t, []string{"chat"}, current[0].Tags)
	assert.Equal(t, []string{"instruct"}, incoming[0].Tags)
}

func TestMergeBatch_Deterministic(t *testing.T) {
	current := []catalogs.Model{{ID: "a", Name: "One"}}
	incoming := []catalogs.Model{
		{ID: "b", Name: "Two"},
		{ID: "c", Name: "Three"},
		{ID: "b", Name: "Two", Parameters: "3B"},
	}

	first := MergeBatch(current, incoming, true)
	second := MergeBatch(current, incoming, true)

	assert.Equal(t, first, second)
}

func TestNormalizeImported(t *testing.T) {
	records := []catalogs.Model{
		{Name: "  My Model  ", Provider: " Acme ", Tags: []string{"a", "a", "b"}},
		{ID: "keep-1", Name: "Kept", Source: "manual"},
		{Name: "Another [v2]"},
	}

	out := NormalizeImported("import", records)

	require.Len(t, out, 3)
	assert.Equal(t, "import-my-model", out[0].ID)
	assert.Equal(t, "My Model", out[0].Name)
	assert.Equal(t, "Acme", out[0].Provider)
	assert.Equal(t, "import", out[0].Source)
	assert.Equal(t, []string{"a", "b"}, out[0].Tags)

	assert.Equal(t, "keep-1", out[1].ID, "existing IDs are kept")
	assert.Equal(t, "manual", out[1].Source, "existing source is kept")

	assert.Equal(t, "import-another-v2", out[2].ID)

	// Input untouched
	assert.Equal(t, "  My Model  ", records[0].Name)
	assert.Empty(t, records[0].ID)
}
