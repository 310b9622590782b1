package quantity

import "errors"

var (
	// ErrAttributeNotSet is returned when a conversion or arithmetic
	// operation needs a value or unit the record does not hold.
	ErrAttributeNotSet = errors.New("attribute not set")

	// ErrNoValue is returned when no number can be read from a raw value.
	ErrNoValue = errors.New("no numeric value")

	// ErrNotQuantity is returned for records whose schema has no dimension.
	ErrNotQuantity = errors.New("record is not a quantity")
)
