package utils

import (
	"errors"
	"strings"
	"testing"
)

// TestErrorWithSuggestion tests message formatting
func TestErrorWithSuggestion(t *testing.T) {
	err := &ErrorWithSuggestion{
		Err:        errors.New("something broke"),
		Suggestion: "try again",
	}

	msg := err.Error()
	if !strings.Contains(msg, "something broke") {
		t.Errorf("Message missing the error: %q", msg)
	}
	if !strings.Contains(msg, "Suggestion: try again") {
		t.Errorf("Message missing the suggestion: %q", msg)
	}
}

// TestErrorWithoutSuggestion tests the bare case
func TestErrorWithoutSuggestion(t *testing.T) {
	err := &ErrorWithSuggestion{Err: errors.New("plain")}
	if err.Error() != "plain" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

// TestUnwrap tests errors.Is through the wrapper
func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &ErrorWithSuggestion{Err: inner, Suggestion: "s"}

	if !errors.Is(err, inner) {
		t.Error("Expected errors.Is to reach the wrapped error")
	}
}

// TestConstructors tests that each constructor carries a suggestion
func TestConstructors(t *testing.T) {
	for name, err := range map[string]error{
		"collection not found": ErrCollectionNotFound("notes"),
		"no collections":       ErrNoCollectionsConfigured("/etc/collections.yaml"),
		"gateway unreachable":  ErrGatewayUnreachable("https://api.example.com", "connection refused"),
	} {
		var sugg *ErrorWithSuggestion
		if !errors.As(err, &sugg) {
			t.Errorf("%s: expected an ErrorWithSuggestion", name)
			continue
		}
		if sugg.Suggestion == "" {
			t.Errorf("%s: expected a suggestion", name)
		}
	}
}
