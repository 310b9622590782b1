package quantity

import (
	"fmt"
	"math"

	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

func convertible(r *record.Record, to units.Unit) ([]float64, units.Unit, error) {
	values := r.Range(FieldValue)
	if len(values) == 0 {
		return nil, units.Unit{}, fmt.Errorf("%s %s: %w", r.Schema().Name(), FieldValue, ErrAttributeNotSet)
	}
	from := r.Unit(FieldUnits)
	if from.IsZero() {
		return nil, units.Unit{}, fmt.Errorf("%s %s: %w", r.Schema().Name(), FieldUnits, ErrAttributeNotSet)
	}
	if !from.Dimension().Equal(to.Dimension()) {
		return nil, units.Unit{}, &units.DimensionError{Expected: from.Dimension(), Got: to.Dimension()}
	}
	return values, from, nil
}

// ConvertValue returns the value of r expressed in to.
func ConvertValue(r *record.Record, to units.Unit) ([]float64, error) {
	values, from, err := convertible(r, to)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = to.ConvertValueFromStandard(from.ConvertValueToStandard(v))
	}
	if len(out) == 2 && out[0] > out[1] {
		out[0], out[1] = out[1], out[0]
	}
	return out, nil
}

// ConvertError returns the error of r expressed in to.
func ConvertError(r *record.Record, to units.Unit) (float64, bool, error) {
	_, from, err := convertible(r, to)
	if err != nil {
		return 0, false, err
	}
	e, ok := r.Float(FieldError)
	if !ok {
		return 0, false, nil
	}
	return math.Abs(to.ConvertErrorFromStandard(from.ConvertErrorToStandard(e))), true, nil
}

// ConvertTo rewrites the value, error and units of r in to.
func ConvertTo(r *record.Record, to units.Unit) error {
	values, err := ConvertValue(r, to)
	if err != nil {
		return err
	}
	e, hasError, err := ConvertError(r, to)
	if err != nil {
		return err
	}
	if err := r.Set(FieldValue, values); err != nil {
		return err
	}
	if hasError {
		if err := r.Set(FieldError, e); err != nil {
			return err
		}
	}
	return r.Set(FieldUnits, to)
}

// ConvertToStandard rewrites r in the standard unit of its dimension.
func ConvertToStandard(r *record.Record) error {
	u := r.Unit(FieldUnits)
	if u.IsZero() {
		return fmt.Errorf("%s %s: %w", r.Schema().Name(), FieldUnits, ErrAttributeNotSet)
	}
	return ConvertTo(r, units.StandardUnit(u.Dimension()))
}

// Equivalent reports whether two quantities describe the same value: both
// are converted to standard units and each bound must agree within the sum
// of their errors.
func Equivalent(a, b *record.Record) (bool, error) {
	ua, ub := a.Unit(FieldUnits), b.Unit(FieldUnits)
	if ua.IsZero() || ub.IsZero() {
		return false, ErrAttributeNotSet
	}
	if !ua.Dimension().Equal(ub.Dimension()) {
		return false, nil
	}
	std := units.StandardUnit(ua.Dimension())

	va, err := ConvertValue(a, std)
	if err != nil {
		return false, err
	}
	vb, err := ConvertValue(b, std)
	if err != nil {
		return false, err
	}
	if len(va) != len(vb) {
		return false, nil
	}
	ea, _, err := ConvertError(a, std)
	if err != nil {
		return false, err
	}
	eb, _, err := ConvertError(b, std)
	if err != nil {
		return false, err
	}

	for i := range va {
		tolerance := ea + eb + 1e-9*math.Max(math.Abs(va[i]), math.Abs(vb[i]))
		if math.Abs(va[i]-vb[i]) > tolerance {
			return false, nil
		}
	}
	return true, nil
}
