package collection

import (
	"errors"
	"fmt"
)

// Precondition errors reported by the engine when a mutation or sync is
// attempted without the configuration it requires. They are reported through
// the engine's error slot, never panicked.
var (
	// ErrNoIdentity is reported when a mutation needs the collection's id
	// attribute and none is configured.
	ErrNoIdentity = errors.New("collection has no identity attribute configured")

	// ErrNoOrdering is reported when an update needs the modification
	// marker and none is configured.
	ErrNoOrdering = errors.New("collection has no modification marker configured")

	// ErrSyncInProgress is returned when a refresh is requested while a
	// sync session is already past Idle.
	ErrSyncInProgress = errors.New("a sync session is already in progress")
)

// GatewayError represents an error from a remote gateway operation with the
// HTTP status code and record context needed to classify it.
type GatewayError struct {
	Op         string // e.g. "FetchAll", "Create", "Delete"
	StatusCode int    // HTTP status code (0 if not an HTTP error)
	Message    string
	RecordID   string // optional: affected record id
	Body       string // optional: response body for debugging
	Err        error  // optional: underlying error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error is a 404 Not Found.
func (e *GatewayError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized or 403 Forbidden.
func (e *GatewayError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError returns true if the error is a 5xx server error.
func (e *GatewayError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(op string, statusCode int, message string) *GatewayError {
	return &GatewayError{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
	}
}

// WithRecordID adds the affected record id for context.
func (e *GatewayError) WithRecordID(id string) *GatewayError {
	e.RecordID = id
	return e
}

// WithBody adds the response body to the error for debugging.
func (e *GatewayError) WithBody(body string) *GatewayError {
	e.Body = body
	return e
}

// WithError wraps an underlying error.
func (e *GatewayError) WithError(err error) *GatewayError {
	e.Err = err
	return e
}

// IsNotFoundError reports whether err is a gateway 404. A delete that hits a
// record already gone remotely counts as reconciled, not failed.
func IsNotFoundError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.IsNotFound()
}
