package cms

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the content services. Handlers map these to HTTP
// status codes; anything else is an internal failure.
var (
	// ErrNotFound means an id or slug does not resolve to a live record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a computed slug collides with another record of the
	// same type. The database unique index is the enforcement point; the
	// service pre-check only produces this error earlier and cheaper.
	ErrConflict = errors.New("slug already in use")
)

// ValidationError reports a missing or malformed field the caller can fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a critical filesystem failure during ingest. It aborts
// the enclosing mutation: a persisted record must never point at a file that
// was not placed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
