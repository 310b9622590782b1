package units

import (
	"errors"
	"fmt"
)

// Sentinel errors for unit algebra and conversion.
var (
	// ErrUnsupportedAlgebra is returned when two differently scaled instances
	// of the same unit would have to merge in one multiplication (km * m).
	ErrUnsupportedAlgebra = errors.New("unsupported unit algebra")

	// ErrDimensionMismatch is wrapped by DimensionError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnknownDimension is returned for dimension names with no base.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// DimensionError reports that a unit does not have the dimension that was
// required of it.
type DimensionError struct {
	Expected Dimension
	Got      Dimension
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %s, got %s", e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// IsDimensionMismatch returns true if err is or wraps a dimension mismatch.
func IsDimensionMismatch(err error) bool {
	return errors.Is(err, ErrDimensionMismatch)
}
