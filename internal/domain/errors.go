package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Handlers and CLI commands map
// these onto transport-level responses; everything else is treated as an
// internal error.
var (
	// ErrNotFound marks the absence of any data for the requested entity.
	// Absence of recent activity is a normal business state, so read paths
	// surface this as an empty/null result rather than a failure.
	ErrNotFound = errors.New("not found")

	// ErrTenantMismatch marks an operation whose resolved org does not match
	// an explicitly supplied org id. Always fatal to the request.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrStoreUnavailable marks a transient persistence failure. Safe to
	// retry: all core writes are idempotent.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError is malformed caller input, rejected before touching
// persistence. Non-retryable until the input is corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
