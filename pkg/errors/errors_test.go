package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NewNotFoundError("model", "hf-1"), ErrNotFound},
		{"validation", NewValidationError("timeout", -1, "must be non-negative"), ErrInvalidInput},
		{"source", &SourceError{Source: "huggingface", Message: "503"}, ErrSourceUnavailable},
		{"capability", &CapabilityError{Operation: "translate", Message: "timeout"}, ErrCapabilityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestWrapHelpers_NilPassthrough(t *testing.T) {
	assert.NoError(t, WrapSource("civitai", nil))
	assert.NoError(t, WrapCapability("classify", nil))
	assert.NoError(t, WrapParse("json", "safety batch", nil))
	assert.NoError(t, WrapIO("read", "/tmp/import.yaml", nil))
	assert.NoError(t, WrapCanceled("fetch-join", nil))
}

func TestWrapSource_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapSource("ollama", cause)
	require.Error(t, err)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "ollama")
}

func TestWrapCanceled(t *testing.T) {
	err := WrapCanceled("pre-discovery", fmt.Errorf("context canceled"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Contains(t, err.Error(), "pre-discovery")
}

func TestParseError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := WrapParse("json", "classification response", cause)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
	assert.ErrorIs(t, err, cause)
}
