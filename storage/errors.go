package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a stored record is not found.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned for malformed entity IDs.
	ErrInvalidID = errors.New("invalid entity ID")
)
