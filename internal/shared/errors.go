package shared

import "errors"

var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a state transition that violates an invariant,
	// e.g. opening a second period or closing an already closed one.
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates the referenced owner or period does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoOpenPeriod indicates the operation requires an open period.
	ErrNoOpenPeriod = errors.New("no open period")
	// ErrUnauthorized indicates a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")
)
