package reconcile

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

// fixedNow pins the merge clock for a test and restores it afterwards.
func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

func TestMerge_IdentityVsDynamic(t *testing.T) {
	// Existing identity fields win; incoming dynamic fields win.
	existing := catalogs.Model{ID: "hf-1", Name: "Llama", Provider: "Meta"}
	incoming := catalogs.Model{ID: "hf-1", Name: "Llama v2", Parameters: "7B"}

	merged := Merge(existing, incoming)

	assert.Equal(t, "hf-1", merged.ID)
	assert.Equal(t, "Llama", merged.Name)
	assert.Equal(t, "Meta", merged.Provider)
	assert.Equal(t, "7B", merged.Parameters)
}

func TestMerge_IdentityFieldsFillGaps(t *testing.T) {
	existing := catalogs.Model{ID: "a", Name: "Whisper"}
	incoming := catalogs.Model{
		ID:       "b",
		Name:     "Whisper Large",
		Provider: "OpenAI",
		Domain:   catalogs.DomainSpeechRecognition,
		URL:      "https://hf.co/openai/whisper",
		Repo:     "https://github.com/openai/whisper",
		Source:   "huggingface",
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, "a", merged.ID, "id is immutable")
	assert.Equal(t, "Whisper", merged.Name, "existing name wins")
	assert.Equal(t, "OpenAI", merged.Provider)
	assert.Equal(t, catalogs.DomainSpeechRecognition, merged.Domain)
	assert.Equal(t, "https://hf.co/openai/whisper", merged.URL)
	assert.Equal(t, "https://github.com/openai/whisper", merged.Repo)
	assert.Equal(t, "huggingface", merged.Source)
}

func TestMerge_CJKNameException(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     string
	}{
		{"non-cjk replaces cjk", "通义千问", "Qwen", "Qwen"},
		{"cjk never replaces non-cjk", "Qwen", "通义千问", "Qwen"},
		{"cjk keeps cjk", "通义千问", "千问大模型", "通义千问"},
		{"empty incoming keeps cjk", "通义千问", "", "通义千问"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				catalogs.Model{ID: "x", Name: tt.existing},
				catalogs.Model{ID: "x", Name: tt.incoming},
			)
			assert.Equal(t, tt.want, merged.Name)
		})
	}
}

func TestMerge_DynamicFieldsIncomingWins(t *testing.T) {
	oldDownloads, newDownloads := int64(10), int64(500)
	oldDate := utc.Time{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newDate := utc.Time{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}

	existing := catalogs.Model{
		ID:          "m",
		Description: "old description",
		Downloads:   &oldDownloads,
		UpdatedAt:   &oldDate,
		Benchmarks:  map[string]float64{"mmlu": 0.5},
		Analytics:   &catalogs.Analytics{Likes: 5},
	}
	incoming := catalogs.Model{
		ID:          "m",
		Description: "fresh description",
		Downloads:   &newDownloads,
		UpdatedAt:   &newDate,
		Benchmarks:  map[string]float64{"gsm8k": 0.9},
		Analytics:   &catalogs.Analytics{Likes: 90},
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, "fresh description", merged.Description)
	assert.Equal(t, int64(500), *merged.Downloads)
	assert.Equal(t, newDate.Time, merged.UpdatedAt.Time)
	assert.Equal(t, map[string]float64{"gsm8k": 0.9}, merged.Benchmarks, "benchmarks are volatile, replaced wholesale")
	assert.Equal(t, int64(90), merged.Analytics.Likes)

	// Absent incoming values keep existing ones
	merged = Merge(existing, catalogs.Model{ID: "m"})
	assert.Equal(t, "old description", merged.Description)
	assert.Equal(t, int64(10), *merged.Downloads)
}

func TestMerge_AccumulatingFields(t *testing.T) {
	in := 1.0
	existing := catalogs.Model{
		ID:     "m",
		Tags:   []string{"chat", "vision"},
		Images: []string{"https://img/1.png"},
		Pricing: []catalogs.Pricing{
			{Unit: "1M tokens", Input: &in, Currency: "USD"},
		},
		UsageRestrictions: []string{"no-military"},
	}
	incoming := catalogs.Model{
		ID:     "m",
		Tags:   []string{"vision", "coding"},
		Images: []string{"https://img/1.png", "https://img/2.png"},
		Pricing: []catalogs.Pricing{
			{Unit: "1m Tokens", Input: &in, Currency: "usd"}, // same key
			{Unit: "image", Currency: "USD"},
		},
		UsageRestrictions: []string{"no-military", "research-only"},
	}

	merged := Merge(existing, incoming)

	assert.Equal(t, []string{"chat", "vision", "coding"}, merged.Tags)
	assert.Equal(t, []string{"https://img/1.png", "https://img/2.png"}, merged.Images)
	assert.Equal(t, []string{"no-military", "research-only"}, merged.UsageRestrictions)
	require.Len(t, merged.Pricing, 2, "structurally equal pricing entries collapse")

	// Tag accumulation is monotonic: merged tags are a superset of both sides
	for _, tag := range existing.Tags {
		assert.True(t, merged.HasTag(tag))
	}
	for _, tag := range incoming.Tags {
		assert.True(t, merged.HasTag(tag))
	}
}

func TestMerge_LicenseMemberByMember(t *testing.T) {
	existing := catalogs.Model{ID: "m", License: &catalogs.License{
		Name:          "CreativeML Open RAIL-M",
		Type:          catalogs.LicenseCustom,
		CommercialUse: false,
		URL:           "https://old.example/license",
	}}
	incoming := catalogs.Model{ID: "m", License: &catalogs.License{
		Name:          "Apache-2.0",
		Type:          catalogs.LicenseOpenSource,
		CommercialUse: true,
		Notes:         "re-licensed upstream",
	}}

	merged := Merge(existing, incoming)

	require.NotNil(t, merged.License)
	assert.Equal(t, "Apache-2.0", merged.License.Name)
	assert.Equal(t, catalogs.LicenseOpenSource, merged.License.Type)
	assert.True(t, merged.License.CommercialUse)
	assert.Equal(t, "https://old.example/license", merged.License.URL, "absent incoming member keeps existing")
	assert.Equal(t, "re-licensed upstream", merged.License.Notes)

	// Incoming without a license leaves existing untouched
	merged = Merge(existing, catalogs.Model{ID: "m"})
	require.NotNil(t, merged.License)
	assert.Equal(t, "CreativeML Open RAIL-M", merged.License.Name)
}

func TestMerge_HostingBooleansOr(t *testing.T) {
	existing := catalogs.Model{ID: "m", Hosting: &catalogs.Hosting{
		WeightsAvailable: true,
		Providers:        []string{"replicate"},
	}}
	incoming := catalogs.Model{ID: "m", Hosting: &catalogs.Hosting{
		APIAvailable: true,
		Providers:    []string{"replicate", "modal"},
	}}

	merged := Merge(existing, incoming)

	require.NotNil(t, merged.Hosting)
	assert.True(t, merged.Hosting.WeightsAvailable)
	assert.True(t, merged.Hosting.APIAvailable)
	assert.False(t, merged.Hosting.OnPremiseFriendly)
	assert.Equal(t, []string{"replicate", "modal"}, merged.Hosting.Providers)
}

func TestMerge_UserAuthoredPreserved(t *testing.T) {
	existing := catalogs.Model{
		ID:               "m",
		Favorite:         true,
		NSFWFlagged:      true,
		FlaggedImageURLs: []string{"https://img/bad1.png"},
	}
	incoming := catalogs.Model{
		ID:               "m",
		FlaggedImageURLs: []string{"https://img/bad2.png"},
	}

	merged := Merge(existing, incoming)

	assert.True(t, merged.Favorite, "favorite unchanged by sync")
	assert.True(t, merged.NSFWFlagged)
	assert.Equal(t,
		[]string{"https://img/bad1.png", "https://img/bad2.png"},
		merged.FlaggedImageURLs,
		"flagged image urls grow monotonically")
}

func TestMerge_FutureReleaseTags(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	future := utc.Time{Time: now.AddDate(0, 2, 0)}
	past := utc.Time{Time: now.AddDate(-1, 0, 0)}

	t.Run("future release gains tags", func(t *testing.T) {
		merged := Merge(
			catalogs.Model{ID: "m"},
			catalogs.Model{ID: "m", ReleaseDate: &future},
		)
		assert.True(t, merged.HasTag(catalogs.TagUnreleased))
		assert.True(t, merged.HasTag(catalogs.TagFutureRelease))
	})

	t.Run("past release strips stale tags", func(t *testing.T) {
		merged := Merge(
			catalogs.Model{ID: "m", Tags: []string{catalogs.TagUnreleased, catalogs.TagFutureRelease, "chat"}, ReleaseDate: &future},
			catalogs.Model{ID: "m", ReleaseDate: &past},
		)
		assert.False(t, merged.HasTag(catalogs.TagUnreleased))
		assert.False(t, merged.HasTag(catalogs.TagFutureRelease))
		assert.True(t, merged.HasTag("chat"))
	})
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	existing := catalogs.Model{ID: "m", Tags: []string{"chat"}, Hosting: &catalogs.Hosting{Providers: []string{"a"}}}
	incoming := catalogs.Model{ID: "m", Tags: []string{"vision"}, Hosting: &catalogs.Hosting{Providers: []string{"b"}}}

	_ = Merge(existing, incoming)

	assert.Equal(t, []string{"chat"}, existing.Tags)
	assert.Equal(t, []string{"a"}, existing.Hosting.Providers)
	assert.Equal(t, []string{"vision"}, incoming.Tags)
	assert.Equal(t, []string{"b"}, incoming.Hosting.Providers)
}
