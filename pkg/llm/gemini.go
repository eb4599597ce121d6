package llm

import (
	"context"
	"sync"

	"google.golang.org/genai"

	"github.com/modelscout/modelscout/pkg/errors"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini implements Completer against the Gemini API.
type Gemini struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client // lazily created, reused across calls
}

// GeminiOption configures a Gemini completer.
type GeminiOption func(*Gemini)

// WithModel overrides the completion model.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) {
		g.model = model
	}
}

// NewGemini creates a Gemini-backed completer.
func NewGemini(apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, &errors.ValidationError{
			Field:   "apiKey",
			Message: "API key is required for the Gemini completer",
		}
	}
	g := &Gemini{
		apiKey: apiKey,
		model:  DefaultGeminiModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Complete implements the Completer interface.
func (g *Gemini) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client, err := g.getOrCreateClient(ctx)
	if err != nil {
		return "", errors.WrapCapability("complete", err)
	}

	var config *genai.GenerateContentConfig
	if systemPrompt != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), config)
	if err != nil {
		return "", errors.WrapCapability("complete", err)
	}

	text := resp.Text()
	if text == "" {
		return "", &errors.CapabilityError{
			Operation: "complete",
			Message:   "empty completion response",
		}
	}
	return text, nil
}

// getOrCreateClient initializes the genai client on first use.
func (g *Gemini) getOrCreateClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}
