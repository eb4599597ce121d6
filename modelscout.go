// Package modelscout reconciles AI model metadata from heterogeneous
// sources into a single deduplicated catalog. A Client owns a fetcher
// registry and an in-memory working set; Sync fans out to the enabled
// fetchers concurrently, screens and enriches the combined records, and
// merges them into the working set through the background merge worker.
//
// Example usage:
//
//	registry := sources.NewRegistry()
//	registry.Register(ollama.NewFetcher())
//
//	client, err := modelscout.New(modelscout.WithRegistry(registry))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Sync(ctx, sync.WithFuzzyMatching(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package modelscout

import (
	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/llm"
	"github.com/modelscout/modelscout/pkg/sources"
	"github.com/modelscout/modelscout/pkg/worker"
)

// Client coordinates fetching, reconciliation, and enrichment for one
// catalog working set.
type Client struct {
	registry *sources.Registry
	models   *catalogs.Models
	merger   *worker.Merger

	// completer, when set, overrides the capability client built from
	// the sync options' API key.
	completer llm.Completer

	// newCompleter builds the capability client for a sync run.
	newCompleter func(apiKey string) (llm.Completer, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRegistry provides the fetcher registry. Without it the client
// starts with an empty one.
func WithRegistry(r *sources.Registry) ClientOption {
	return func(c *Client) {
		c.registry = r
	}
}

// WithInitialModels seeds the working set.
func WithInitialModels(models []catalogs.Model) ClientOption {
	return func(c *Client) {
		c.models.Replace(models)
	}
}

// WithMerger provides the merge worker. Without it the client creates
// one and starts its background goroutine.
func WithMerger(m *worker.Merger) ClientOption {
	return func(c *Client) {
		c.merger = m
	}
}

// WithCompleter pins the text-completion capability, bypassing API key
// construction.
func WithCompleter(completer llm.Completer) ClientOption {
	return func(c *Client) {
		c.completer = completer
	}
}

// New creates a Client.
func New(opts ...ClientOption) (*Client, error) {
	c := &Client{
		models: catalogs.NewModels(),
		newCompleter: func(apiKey string) (llm.Completer, error) {
			return llm.NewGemini(apiKey)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = sources.NewRegistry()
	}
	if c.merger == nil {
		c.merger = worker.New()
		c.merger.Start()
	}
	return c, nil
}

// Close stops the background merge worker.
func (c *Client) Close() {
	c.merger.Stop()
}

// Registry returns the fetcher registry for registration.
func (c *Client) Registry() *sources.Registry {
	return c.registry
}

// Models returns a snapshot of the current working set.
func (c *Client) Models() []catalogs.Model {
	return c.models.List()
}

// Model looks a record up by ID.
func (c *Client) Model(id string) (catalogs.Model, error) {
	m, ok := c.models.Get(id)
	if !ok {
		return catalogs.Model{}, &errors.NotFoundError{Resource: "model", ID: id}
	}
	return m, nil
}
