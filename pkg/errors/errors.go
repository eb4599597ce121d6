// Package errors provides custom error types for the modelscout pipeline.
// These errors enable programmatic error checking across the sync, safety,
// and reconciliation stages, and keep the error taxonomy explicit: source
// failures recover locally, capability failures degrade features, and
// cancellation propagates to the caller.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
// Alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// Alias for the standard library errors.As.
var As = errors.As

// Join wraps a list of errors. Alias for the standard library errors.Join.
var Join = errors.Join

// Common sentinel errors for the modelscout pipeline
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates that a fetch source is temporarily unavailable
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCapabilityUnavailable indicates that the text-completion capability
	// is not configured or not reachable
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrRateLimited indicates that an external API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled by the caller
	ErrCanceled = errors.New("operation canceled")

	// ErrNoFetchers indicates that no enabled fetchers were resolved for a sync
	ErrNoFetchers = errors.New("no fetchers enabled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError represents a failure while fetching from an external source.
// Source failures are recovered locally by the orchestrator and never abort
// the remaining fetchers.
type SourceError struct {
	Source  string // Fetcher ID as string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("source %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("source %s failed", e.Source)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// CapabilityError represents a failure of the text-completion capability.
// Consumers degrade gracefully: safety fails open, translation skips the
// item, discovery yields no extra records.
type CapabilityError struct {
	Operation string // e.g. "classify", "translate", "discover"
	Message   string
	Err       error
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("capability %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("capability error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityUnavailable
}

// ParseError represents a failure to parse structured content, such as a
// JSON payload returned by the text-completion capability or an import file.
type ParseError struct {
	Format  string // e.g. "json", "yaml"
	Input   string // short description of what was being parsed
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("failed to parse %s from %s: %s", e.Format, e.Input, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents a file system or network IO failure
type IOError struct {
	Operation string
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapSource wraps an error as a SourceError
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Source: source, Message: err.Error(), Err: err}
}

// WrapCapability wraps an error as a CapabilityError
func WrapCapability(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CapabilityError{Operation: operation, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, input string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Input: input, Message: err.Error(), Err: err}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapCanceled wraps a context cancellation as an explicit canceled outcome.
// Returns nil when err is nil.
func WrapCanceled(stage string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sync canceled at %s: %w", stage, ErrCanceled)
}
