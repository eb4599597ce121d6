package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/sources"
)

const listingPayload = `[
	{
		"id": "meta-llama/Llama-3-70B",
		"pipeline_tag": "text-generation",
		"tags": ["pytorch", "license:llama3", "arxiv:2407.21783"],
		"downloads": 1250000,
		"likes": 9000,
		"lastModified": "2024-06-01T10:00:00.000Z",
		"createdAt": "2024-04-18T00:00:00.000Z"
	},
	{
		"id": "stabilityai/sdxl-turbo",
		"pipeline_tag": "text-to-image",
		"tags": ["diffusers"],
		"downloads": 800000,
		"likes": 4000
	},
	{
		"id": "",
		"pipeline_tag": "text-generation"
	}
]`

func newTestServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/models", r.URL.Path)
		assert.Equal(t, "downloads", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListModels(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, listingPayload)
	client := NewClient(WithBaseURL(srv.URL), WithLimit(10))

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2, "entries without an id are dropped")

	llama := models[0]
	assert.Equal(t, "huggingface-meta-llama-Llama-3-70B", llama.ID)
	assert.Equal(t, "Llama-3-70B", llama.Name)
	assert.Equal(t, "meta-llama", llama.Provider)
	assert.Equal(t, catalogs.DomainLanguageModel, llama.Domain)
	assert.Equal(t, "huggingface", llama.Source)
	assert.Equal(t, "meta-llama/Llama-3-70B", llama.Repo)
	assert.Equal(t, "https://huggingface.co/meta-llama/Llama-3-70B", llama.URL)
	require.NotNil(t, llama.Downloads)
	assert.Equal(t, int64(1250000), *llama.Downloads)
	require.NotNil(t, llama.License)
	assert.Equal(t, "llama3", llama.License.Name)
	assert.Equal(t, []string{"pytorch"}, llama.Tags, "namespaced tags are dropped")
	require.NotNil(t, llama.UpdatedAt)
	require.NotNil(t, llama.ReleaseDate)
	require.NotNil(t, llama.Hosting)
	assert.True(t, llama.Hosting.WeightsAvailable)

	sdxl := models[1]
	assert.Equal(t, catalogs.DomainImageGeneration, sdxl.Domain)
	assert.Nil(t, sdxl.License)
	assert.Nil(t, sdxl.UpdatedAt)
}

func TestDomainFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, catalogs.DomainLanguageModel, domainFor("text-generation"))
	assert.Equal(t, catalogs.DomainEmbedding, domainFor("sentence-similarity"))
	assert.Equal(t, catalogs.DomainOther, domainFor("token-classification"))
	assert.Equal(t, catalogs.DomainOther, domainFor(""))
}

func TestFetcherContract(t *testing.T) {
	t.Parallel()

	f := NewFetcher()
	assert.Equal(t, sources.HuggingFaceID, f.ID())
	assert.Equal(t, "Hugging Face Hub", f.Name())

	assert.True(t, f.Enabled(&sources.Config{}))
	assert.True(t, f.Enabled(&sources.Config{Enabled: []sources.ID{sources.HuggingFaceID}}))
	assert.False(t, f.Enabled(&sources.Config{Enabled: []sources.ID{sources.CivitaiID}}))
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, listingPayload)
	f := NewFetcher(WithBaseURL(srv.URL))

	var logs []string
	res, err := f.Fetch(context.Background(), &sources.Config{}, func(msg string) { logs = append(logs, msg) })
	require.NoError(t, err)
	assert.Len(t, res.Complete, 2)
	assert.Empty(t, res.Flagged)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0], "2 models fetched")
}

func TestFetchUnavailable(t *testing.T) {
	t.Parallel()

	f := NewFetcher(WithBaseURL("http://127.0.0.1:1"))
	res, err := f.Fetch(context.Background(), &sources.Config{}, nil)
	require.NoError(t, err, "ordinary unavailability is recovered as an empty result")
	assert.Zero(t, res.Len())
}
