package catalogs

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Tags(t *testing.T) {
	m := Model{ID: "hf-1", Name: "Llama"}

	m.AddTag("chat")
	m.AddTag("chat")
	assert.Equal(t, []string{"chat"}, m.Tags)
	assert.True(t, m.HasTag("chat"))

	m.RemoveTag("chat")
	assert.False(t, m.HasTag("chat"))
}

func TestModel_Unreleased(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		release *utc.Time
		want    bool
	}{
		{"nil date", nil, false},
		{"past", &utc.Time{Time: now.AddDate(0, -1, 0)}, false},
		{"exact now", &utc.Time{Time: now}, false},
		{"future", &utc.Time{Time: now.AddDate(0, 1, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{ReleaseDate: tt.release}
			assert.Equal(t, tt.want, m.Unreleased(now))
		})
	}
}

func TestModel_Copy_NoAliasing(t *testing.T) {
	downloads := int64(100)
	input := 1.25
	original := Model{
		ID:        "civitai-9",
		Tags:      []string{"chat"},
		Downloads: &downloads,
		License:   &License{Name: "MIT", CommercialUse: true},
		Hosting:   &Hosting{APIAvailable: true, Providers: []string{"replicate"}},
		Pricing:   []Pricing{{Unit: "1M tokens", Input: &input, Currency: "usd"}},
		Benchmarks: map[string]float64{
			"mmlu": 0.82,
		},
	}

	clone := original.Copy()
	clone.Tags[0] = "vision"
	clone.License.Name = "Apache-2.0"
	clone.Hosting.Providers[0] = "modal"
	*clone.Downloads = 999
	*clone.Pricing[0].Input = 9.99
	clone.Benchmarks["mmlu"] = 0.1

	assert.Equal(t, []string{"chat"}, original.Tags)
	assert.Equal(t, "MIT", original.License.Name)
	assert.Equal(t, []string{"replicate"}, original.Hosting.Providers)
	assert.Equal(t, int64(100), *original.Downloads)
	assert.Equal(t, 1.25, *original.Pricing[0].Input)
	assert.Equal(t, 0.82, original.Benchmarks["mmlu"])
}

func TestPricing_Key(t *testing.T) {
	in, out := 1.25, 10.0
	a := Pricing{ModelLabel: "Turbo", Unit: "1M Tokens", Input: &in, Output: &out, Currency: "usd"}
	b := Pricing{ModelLabel: "turbo", Unit: "1m tokens", Input: &in, Output: &out, Currency: "USD"}

	assert.Equal(t, a.Key(), b.Key())

	flat := 5.0
	c := Pricing{ModelLabel: "turbo", Flat: &flat, Currency: "USD"}
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestDomain_IsValid(t *testing.T) {
	assert.True(t, DomainLanguageModel.IsValid())
	assert.True(t, Domain3D.IsValid())
	assert.False(t, Domain("quantum").IsValid())
}

func TestModels_Container(t *testing.T) {
	models := NewModels()
	models.Set(Model{ID: "a", Name: "First"})
	models.Set(Model{ID: "b", Name: "Second"})
	models.Set(Model{ID: "a", Name: "First Updated"})

	require.Equal(t, 2, models.Len())

	got, found := models.Get("a")
	require.True(t, found)
	assert.Equal(t, "First Updated", got.Name)

	// Insertion order survives updates
	list := models.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	models.Delete("a")
	assert.Equal(t, 1, models.Len())

	models.Replace([]Model{{ID: "x"}, {ID: "y"}, {ID: "x"}})
	list = models.List()
	require.Len(t, list, 2)
	assert.Equal(t, "x", list[0].ID)
}
