// Package ollama enumerates models from a locally reachable Ollama runtime.
// It exposes both a raw client and a sources.Fetcher so the runtime can
// participate in a sync pass like any other source.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/modelscout/modelscout/internal/transport"
	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/sources"
)

// DefaultBaseURL is the standard local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// Client talks to the Ollama HTTP API.
type Client struct {
	baseURL string
	http    *transport.Client
}

// NewClient creates an Ollama client for the given base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    transport.New(transport.WithTimeout(10 * time.Second)),
	}
}

// tagsResponse mirrors the /api/tags payload.
type tagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Model      string    `json:"model"`
		ModifiedAt time.Time `json:"modified_at"`
		Size       int64     `json:"size"`
		Details    struct {
			Family            string `json:"family"`
			ParameterSize     string `json:"parameter_size"`
			QuantizationLevel string `json:"quantization_level"`
		} `json:"details"`
	} `json:"models"`
}

// ListModels enumerates the locally installed models as catalog records.
func (c *Client) ListModels(ctx context.Context) ([]catalogs.Model, error) {
	var resp tagsResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/api/tags", &resp); err != nil {
		return nil, err
	}

	models := make([]catalogs.Model, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == "" {
			continue
		}

		record := catalogs.Model{
			ID:         "ollama-" + slug(name),
			Name:       name,
			Source:     string(sources.OllamaID),
			Domain:     catalogs.DomainLanguageModel,
			Parameters: m.Details.ParameterSize,
			Hosting: &catalogs.Hosting{
				WeightsAvailable:  true,
				OnPremiseFriendly: true,
				Providers:         []string{"ollama"},
			},
			Tags: []string{"local"},
		}
		if m.Details.Family != "" {
			record.Description = fmt.Sprintf("Local %s model served by Ollama", m.Details.Family)
		}
		if !m.ModifiedAt.IsZero() {
			updated := utc.Time{Time: m.ModifiedAt.UTC()}
			record.UpdatedAt = &updated
		}
		models = append(models, record)
	}
	return models, nil
}

// slug lowercases a model reference and replaces separator characters so it
// can serve as an ID suffix ("library/llama3:8b" becomes "library-llama3-8b").
func slug(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', ':', ' ':
			return '-'
		}
		return r
	}, strings.ToLower(name))
}

// Fetcher adapts the client to the sources.Fetcher contract.
type Fetcher struct {
	client *Client
}

// NewFetcher creates the runtime fetcher. The base URL is taken from the
// sync configuration at fetch time.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// ID implements sources.Fetcher.
func (f *Fetcher) ID() sources.ID {
	return sources.OllamaID
}

// Name implements sources.Fetcher.
func (f *Fetcher) Name() string {
	return "Ollama (local runtime)"
}

// Enabled implements sources.Fetcher. The runtime participates only when a
// base URL is configured.
func (f *Fetcher) Enabled(cfg *sources.Config) bool {
	return cfg != nil && cfg.OllamaURL != ""
}

// Fetch implements sources.Fetcher. An unreachable runtime is ordinary
// unavailability: it logs and returns an empty result.
func (f *Fetcher) Fetch(ctx context.Context, cfg *sources.Config, logFn sources.LogFunc) (sources.Result, error) {
	client := f.client
	if client == nil {
		client = NewClient(cfg.OllamaURL)
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Ollama runtime not reachable")
		logFn.Log("Ollama runtime not reachable, skipping")
		return sources.Result{}, nil
	}

	logFn.Log(fmt.Sprintf("Ollama: found %d local models", len(models)))
	return sources.Result{Complete: models}, nil
}
