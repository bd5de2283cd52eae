// Package utils holds small helpers shared by the CLI commands.
package utils

import "fmt"

// ErrorWithSuggestion wraps an error with a helpful suggestion for the user
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// Common error constructors with suggestions

// ErrCollectionNotFound creates an error when a collection is not configured
func ErrCollectionNotFound(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("collection '%s' is not configured", name),
		Suggestion: "Run 'nexussync status' to see configured collections, or add it to collections.yaml",
	}
}

// ErrNoCollectionsConfigured creates an error when the collections file is empty or missing
func ErrNoCollectionsConfigured(path string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no collections configured"),
		Suggestion: fmt.Sprintf("Describe your collections in %s (see the README for the format)", path),
	}
}

// ErrGatewayUnreachable creates an error when the gateway cannot be reached
func ErrGatewayUnreachable(url, reason string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("gateway %s is unreachable: %s", url, reason),
		Suggestion: "Local changes are kept and will be flushed on the next online sync",
	}
}
