// Package huggingface fetches model metadata from the Hugging Face Hub API.
// The Hub is public; no API key is required for model listings.
package huggingface

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/modelscout/modelscout/internal/transport"
	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/sources"
)

const (
	// DefaultBaseURL is the public Hub API endpoint.
	DefaultBaseURL = "https://huggingface.co"

	// defaultLimit caps one listing page. The Hub sorts by downloads so the
	// head of the list carries the models worth cataloging.
	defaultLimit = 100
)

// pipelineDomains maps Hub pipeline tags onto catalog domains.
var pipelineDomains = map[string]catalogs.Domain{
	"text-generation":              catalogs.DomainLanguageModel,
	"text2text-generation":         catalogs.DomainLanguageModel,
	"conversational":               catalogs.DomainLanguageModel,
	"image-text-to-text":           catalogs.DomainVisionLanguage,
	"visual-question-answering":    catalogs.DomainVisionLanguage,
	"text-to-image":                catalogs.DomainImageGeneration,
	"image-to-image":               catalogs.DomainImageGeneration,
	"text-to-video":                catalogs.DomainVideoGeneration,
	"text-to-speech":               catalogs.DomainSpeechSynthesis,
	"automatic-speech-recognition": catalogs.DomainSpeechRecognition,
	"text-to-audio":                catalogs.DomainAudio,
	"audio-classification":         catalogs.DomainAudio,
	"feature-extraction":           catalogs.DomainEmbedding,
	"sentence-similarity":          catalogs.DomainEmbedding,
	"image-to-3d":                  catalogs.Domain3D,
	"text-to-3d":                   catalogs.Domain3D,
}

// Client talks to the Hub API.
type Client struct {
	baseURL string
	limit   int
	http    *transport.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Hub endpoint, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLimit caps the number of models fetched per listing.
func WithLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewClient creates a Hub client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		limit:   defaultLimit,
		http:    transport.New(transport.WithTimeout(30 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// hubModel mirrors one entry of the /api/models payload.
type hubModel struct {
	ID           string   `json:"id"` // "org/name"
	PipelineTag  string   `json:"pipeline_tag"`
	Tags         []string `json:"tags"`
	Downloads    int64    `json:"downloads"`
	Likes        int64    `json:"likes"`
	LastModified string   `json:"lastModified"`
	CreatedAt    string   `json:"createdAt"`
}

// ListModels fetches the top model listing from the Hub.
func (c *Client) ListModels(ctx context.Context) ([]catalogs.Model, error) {
	endpoint := fmt.Sprintf("%s/api/models?%s", c.baseURL, url.Values{
		"limit": []string{fmt.Sprint(c.limit)},
		"sort":  []string{"downloads"},
	}.Encode())

	var payload []hubModel
	if err := c.http.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	models := make([]catalogs.Model, 0, len(payload))
	for _, hm := range payload {
		if hm.ID == "" {
			continue
		}
		models = append(models, c.toModel(hm))
	}
	return models, nil
}

// toModel converts one Hub entry to a catalog record.
func (c *Client) toModel(hm hubModel) catalogs.Model {
	provider := ""
	name := hm.ID
	if org, rest, found := strings.Cut(hm.ID, "/"); found {
		provider = org
		name = rest
	}

	downloads := hm.Downloads
	m := catalogs.Model{
		ID:        "huggingface-" + strings.ReplaceAll(hm.ID, "/", "-"),
		Name:      name,
		Provider:  provider,
		Domain:    domainFor(hm.PipelineTag),
		Source:    string(sources.HuggingFaceID),
		URL:       "https://huggingface.co/" + hm.ID,
		Repo:      hm.ID,
		Downloads: &downloads,
		Tags:      licenseFreeTags(hm.Tags),
		Hosting: &catalogs.Hosting{
			WeightsAvailable:  true,
			OnPremiseFriendly: true,
			Providers:         []string{"huggingface"},
		},
	}

	if lic := licenseTag(hm.Tags); lic != "" {
		m.License = &catalogs.License{Name: lic}
	}
	if ts, err := utc.Parse(time.RFC3339, hm.LastModified); err == nil {
		m.UpdatedAt = &ts
	}
	if ts, err := utc.Parse(time.RFC3339, hm.CreatedAt); err == nil {
		m.ReleaseDate = &ts
	}
	return m
}

// domainFor resolves a pipeline tag, defaulting to other.
func domainFor(pipeline string) catalogs.Domain {
	if d, ok := pipelineDomains[pipeline]; ok {
		return d
	}
	return catalogs.DomainOther
}

// licenseTag extracts the license from Hub tags of the form "license:mit".
func licenseTag(tags []string) string {
	for _, tag := range tags {
		if lic, found := strings.CutPrefix(tag, "license:"); found {
			return lic
		}
	}
	return ""
}

// licenseFreeTags drops namespaced Hub tags (license:, dataset:, arxiv:),
// keeping the plain descriptive ones.
func licenseFreeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if strings.ContainsRune(tag, ':') {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// Fetcher adapts the client to the sources.Fetcher contract.
type Fetcher struct {
	client *Client
}

var _ sources.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a Hub fetcher.
func NewFetcher(opts ...ClientOption) *Fetcher {
	return &Fetcher{client: NewClient(opts...)}
}

// ID returns the fetcher identifier.
func (f *Fetcher) ID() sources.ID {
	return sources.HuggingFaceID
}

// Name returns a human-readable source name.
func (f *Fetcher) Name() string {
	return "Hugging Face Hub"
}

// Enabled reports whether the source participates in a sync.
func (f *Fetcher) Enabled(cfg *sources.Config) bool {
	return cfg.SourceEnabled(sources.HuggingFaceID)
}

// Fetch lists the Hub's top models. Ordinary unavailability is recovered
// as an empty result.
func (f *Fetcher) Fetch(ctx context.Context, _ *sources.Config, logFn sources.LogFunc) (sources.Result, error) {
	models, err := f.client.ListModels(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return sources.Result{}, err
		}
		logging.FromContext(ctx).Warn().Err(err).Msg("Hugging Face Hub unavailable")
		logFn.Log("Hugging Face Hub unavailable, skipping")
		return sources.Result{}, nil
	}

	logFn.Log(fmt.Sprintf("Hugging Face: %d models fetched", len(models)))
	return sources.Result{Complete: models}, nil
}
