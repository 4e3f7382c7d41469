package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the requested id.
	// It is a normal outcome, not a failure of the store itself.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique-field constraint is violated.
	ErrConflict = errors.New("duplicate record")

	// ErrValidation is returned when required fields are missing or empty.
	ErrValidation = errors.New("invalid record")

	// ErrStorage is returned when a collection file cannot be read, parsed,
	// or written. Fatal for the request; mapped to an internal error, never
	// to a validation failure.
	ErrStorage = errors.New("storage failure")
)
