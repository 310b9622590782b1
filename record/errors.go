package record

import (
	"errors"
	"fmt"
)

// Common record errors.
var (
	// ErrUnknownField is returned when a name is not declared by a schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue is returned when a value does not fit a field kind.
	ErrInvalidValue = errors.New("invalid value")

	// ErrIndexOutOfRange is returned by keypath lookups past a list end.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotTraversable is returned when a keypath descends into a leaf.
	ErrNotTraversable = errors.New("value is not traversable")

	// ErrNotUpdatable is returned when a session update targets a field
	// that is not updatable.
	ErrNotUpdatable = errors.New("field is not updatable")
)

// FieldError reports a failure tied to a field or keypath.
type FieldError struct {
	Schema string
	Path   string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Schema, e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
