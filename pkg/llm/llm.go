// Package llm defines the text-completion capability used by the safety,
// translation, and discovery stages. The capability is a black box: given a
// system prompt and a user prompt it returns text, and any error or
// unparseable response is treated by consumers as "capability unavailable".
package llm

import (
	"context"
	"strings"
)

// Completer is the text-completion capability contract.
type Completer interface {
	// Complete sends a prompt pair and returns the completion text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Complete implements the Completer interface.
func (f CompleterFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// ExtractJSON strips markdown code fences and surrounding prose from a
// completion so the payload can be unmarshaled. Models often wrap JSON in
// ```json fences or prepend a sentence of explanation.
func ExtractJSON(completion string) string {
	s := strings.TrimSpace(completion)

	// Prefer fenced content when present
	if start := strings.Index(s, "```"); start != -1 {
		inner := s[start+3:]
		inner = strings.TrimPrefix(inner, "json")
		inner = strings.TrimPrefix(inner, "JSON")
		if end := strings.Index(inner, "```"); end != -1 {
			inner = inner[:end]
		}
		s = strings.TrimSpace(inner)
	}

	// Fall back to the outermost JSON value
	objStart := strings.IndexAny(s, "[{")
	if objStart == -1 {
		return s
	}
	closing := byte(']')
	if s[objStart] == '{' {
		closing = '}'
	}
	objEnd := strings.LastIndexByte(s, closing)
	if objEnd > objStart {
		return s[objStart : objEnd+1]
	}
	return s
}
