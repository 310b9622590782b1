package quantity

import (
	"fmt"
	"math"
	"sort"

	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

type operand struct {
	values   []float64
	unit     units.Unit
	err      float64
	hasError bool
}

func operandOf(r *record.Record) (operand, error) {
	if !IsQuantity(r) {
		return operand{}, ErrNotQuantity
	}
	op := operand{values: r.Range(FieldValue), unit: r.Unit(FieldUnits)}
	if len(op.values) == 0 {
		return operand{}, fmt.Errorf("%s %s: %w", r.Schema().Name(), FieldValue, ErrAttributeNotSet)
	}
	if op.unit.IsZero() {
		return operand{}, fmt.Errorf("%s %s: %w", r.Schema().Name(), FieldUnits, ErrAttributeNotSet)
	}
	op.err, op.hasError = r.Float(FieldError)
	return op, nil
}

// Mul returns a * b as a record of the schema for the product dimension.
func Mul(a, b *record.Record) (*record.Record, error) {
	x, err := operandOf(a)
	if err != nil {
		return nil, err
	}
	y, err := operandOf(b)
	if err != nil {
		return nil, err
	}
	u, err := x.unit.Mul(y.unit)
	if err != nil {
		return nil, err
	}
	values := combine(x.values, y.values, func(p, q float64) float64 { return p * q })
	return build(values, u, relativeError(x, y, values))
}

// Div returns a / b. Dividing quantities of equal units yields a
// DimensionlessModel record.
func Div(a, b *record.Record) (*record.Record, error) {
	x, err := operandOf(a)
	if err != nil {
		return nil, err
	}
	y, err := operandOf(b)
	if err != nil {
		return nil, err
	}
	u, err := x.unit.Div(y.unit)
	if err != nil {
		return nil, err
	}
	values := combine(x.values, y.values, func(p, q float64) float64 { return p / q })
	return build(values, u, relativeError(x, y, values))
}

// Pow returns a raised to n.
func Pow(a *record.Record, n float64) (*record.Record, error) {
	x, err := operandOf(a)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(x.values))
	for i, v := range x.values {
		values[i] = math.Pow(v, n)
	}
	var e *float64
	if x.hasError && len(values) == 1 && x.values[0] != 0 {
		v := math.Abs(n * values[0] * x.err / x.values[0])
		e = &v
	}
	return build(values, x.unit.Pow(n), e)
}

// Scale returns a multiplied by the plain number k.
func Scale(a *record.Record, k float64) (*record.Record, error) {
	x, err := operandOf(a)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(x.values))
	for i, v := range x.values {
		values[i] = v * k
	}
	var e *float64
	if x.hasError {
		v := math.Abs(x.err * k)
		e = &v
	}
	return build(values, x.unit, e)
}

// combine applies op elementwise. A scalar operand is broadcast over a
// range.
func combine(a, b []float64, op func(p, q float64) float64) []float64 {
	n := max(len(a), len(b))
	out := make([]float64, n)
	for i := range out {
		out[i] = op(a[min(i, len(a)-1)], b[min(i, len(b)-1)])
	}
	return out
}

// relativeError propagates errors to first order for products and
// quotients of scalars: the relative errors add in quadrature.
func relativeError(x, y operand, values []float64) *float64 {
	if (!x.hasError && !y.hasError) || len(values) != 1 || len(x.values) != 1 || len(y.values) != 1 {
		return nil
	}
	var sum float64
	for _, op := range []operand{x, y} {
		if !op.hasError {
			continue
		}
		if op.values[0] == 0 {
			return nil
		}
		rel := op.err / op.values[0]
		sum += rel * rel
	}
	v := math.Abs(values[0]) * math.Sqrt(sum)
	return &v
}

func build(values []float64, u units.Unit, e *float64) (*record.Record, error) {
	dim := u.Dimension()
	if dim.IsDimensionless() {
		for i, v := range values {
			values[i] = u.ConvertValueToStandard(v)
		}
		if e != nil {
			v := u.ConvertErrorToStandard(*e)
			e = &v
		}
		u = units.DimensionlessUnit()
	}
	sort.Float64s(values)

	r := record.New(SchemaFor(dim))
	if err := r.Set(FieldValue, values); err != nil {
		return nil, err
	}
	if err := r.Set(FieldUnits, u); err != nil {
		return nil, err
	}
	if e != nil {
		if err := r.Set(FieldError, *e); err != nil {
			return nil, err
		}
	}
	return r, nil
}
