package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Definition describes a leaf unit such as Meter or Celsius.
//
// ToStandard and FromStandard convert unscaled values to and from the
// standard unit of Dimension. Scaling by a unit's power-of-ten exponent is
// applied by Unit before ToStandard and after FromStandard, so definitions
// never deal with prefixes.
type Definition struct {
	Name      string
	Dimension Dimension

	ToStandard   func(float64) float64
	FromStandard func(float64) float64

	// ErrorToStandard and ErrorFromStandard convert uncertainties. When nil
	// the linear part of the value conversion is used.
	ErrorToStandard   func(float64) float64
	ErrorFromStandard func(float64) float64
}

// Linear returns a definition whose standard value is value * factor.
func Linear(name string, dim Dimension, factor float64) *Definition {
	return Affine(name, dim, factor, 0)
}

// Affine returns a definition whose standard value is value*factor + offset.
func Affine(name string, dim Dimension, factor, offset float64) *Definition {
	return &Definition{
		Name:         name,
		Dimension:    dim,
		ToStandard:   func(v float64) float64 { return v*factor + offset },
		FromStandard: func(v float64) float64 { return (v - offset) / factor },
	}
}

func (d *Definition) toStandard(v float64) float64 {
	if d.ToStandard == nil {
		return v
	}
	return d.ToStandard(v)
}

func (d *Definition) fromStandard(v float64) float64 {
	if d.FromStandard == nil {
		return v
	}
	return d.FromStandard(v)
}

// slope is the linear factor of the value conversion, offsets removed.
func (d *Definition) slope() float64 {
	return d.toStandard(1) - d.toStandard(0)
}

// Unit is an immutable unit value. A leaf unit has a definition; a composite
// unit has a list of leaf units raised to powers. Both carry a power-of-ten
// exponent. The zero Unit means "no unit" and behaves as dimensionless in
// algebra.
type Unit struct {
	def      *Definition
	exponent float64
	powers   []Power
}

// Power is a leaf unit raised to a rational power inside a composite unit.
type Power struct {
	Unit  Unit
	Power float64
}

// New returns a leaf unit for def scaled by 10^exponent.
func New(def *Definition, exponent float64) Unit {
	return Unit{def: def, exponent: exponent}
}

// Must panics if err is non-nil. It is intended for fixtures and tests
// where the algebra is known to be valid.
func Must(u Unit, err error) Unit {
	if err != nil {
		panic(err)
	}
	return u
}

// IsZero reports whether u is the zero Unit.
func (u Unit) IsZero() bool {
	return u.def == nil && len(u.powers) == 0
}

// IsComposite reports whether u is built from other units.
func (u Unit) IsComposite() bool {
	return u.def == nil && len(u.powers) > 0
}

// Definition returns the leaf definition, nil for composite units.
func (u Unit) Definition() *Definition {
	return u.def
}

// Exponent returns the power-of-ten exponent.
func (u Unit) Exponent() float64 {
	return u.exponent
}

// WithExponent returns a copy of u with the given power-of-ten exponent.
func (u Unit) WithExponent(exponent float64) Unit {
	out := u.clone()
	out.exponent = exponent
	return out
}

// Powers returns the constituents of a composite unit.
func (u Unit) Powers() []Power {
	out := make([]Power, len(u.powers))
	copy(out, u.powers)
	return out
}

func (u Unit) clone() Unit {
	out := u
	if u.powers != nil {
		out.powers = make([]Power, len(u.powers))
		copy(out.powers, u.powers)
	}
	return out
}

// Dimension returns the physical dimension of u.
func (u Unit) Dimension() Dimension {
	if u.def != nil {
		return u.def.Dimension
	}
	dim := Dimensionless
	for _, p := range u.powers {
		dim = dim.Mul(p.Unit.Dimension().Pow(p.Power))
	}
	return dim
}

// terms splits u into leaf powers and an outer exponent. A dimensionless
// leaf contributes only its exponent.
func (u Unit) terms() ([]Power, float64) {
	switch {
	case u.def == DimensionlessDefinition:
		return nil, u.exponent
	case u.def != nil:
		return []Power{{Unit: u, Power: 1}}, 0
	default:
		return u.Powers(), u.exponent
	}
}

// Mul returns u * other. It returns ErrUnsupportedAlgebra when both sides
// hold the same unit with different exponents.
func (u Unit) Mul(other Unit) (Unit, error) {
	merged, exp := u.terms()
	otherTerms, otherExp := other.terms()
	exp += otherExp

	for _, t := range otherTerms {
		found := false
		for i := range merged {
			if merged[i].Unit.def != t.Unit.def {
				continue
			}
			if merged[i].Unit.exponent != t.Unit.exponent {
				return Unit{}, fmt.Errorf("%w: cannot combine %s and %s", ErrUnsupportedAlgebra, merged[i].Unit, t.Unit)
			}
			merged[i].Power += t.Power
			found = true
			break
		}
		if !found {
			merged = append(merged, t)
		}
	}
	return compose(merged, exp), nil
}

// Div returns u / other.
func (u Unit) Div(other Unit) (Unit, error) {
	return u.Mul(other.Pow(-1))
}

// Pow returns u raised to n.
func (u Unit) Pow(n float64) Unit {
	if n == 0 {
		return DimensionlessUnit()
	}
	terms, exp := u.terms()
	for i := range terms {
		terms[i].Power *= n
	}
	return compose(terms, exp*n)
}

// compose normalizes leaf powers into the canonical unit form.
func compose(terms []Power, exp float64) Unit {
	kept := terms[:0]
	for _, t := range terms {
		t.Power = roundExponent(t.Power)
		if t.Power != 0 {
			kept = append(kept, t)
		}
	}
	switch {
	case len(kept) == 0:
		return New(DimensionlessDefinition, exp)
	case len(kept) == 1 && kept[0].Power == 1:
		leaf := kept[0].Unit
		return New(leaf.def, leaf.exponent+exp)
	}
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i].Unit, kept[j].Unit
		if a.def.Name != b.def.Name {
			return a.def.Name < b.def.Name
		}
		return a.exponent < b.exponent
	})
	return Unit{exponent: exp, powers: kept}
}

// Equal reports whether two units have the same constituents and exponent.
func (u Unit) Equal(other Unit) bool {
	if u.IsZero() || other.IsZero() {
		return u.IsZero() && other.IsZero()
	}
	if u.def != other.def || roundExponent(u.exponent-other.exponent) != 0 {
		return false
	}
	if len(u.powers) != len(other.powers) {
		return false
	}
	for i := range u.powers {
		if !u.powers[i].Unit.Equal(other.powers[i].Unit) || u.powers[i].Power != other.powers[i].Power {
			return false
		}
	}
	return true
}

// ConvertValueToStandard converts a value in u to the standard unit of its
// dimension.
func (u Unit) ConvertValueToStandard(v float64) float64 {
	v *= pow10(u.exponent)
	if u.def != nil {
		return u.def.toStandard(v)
	}
	for _, p := range u.powers {
		v *= math.Pow(p.Unit.slope(), p.Power)
	}
	return v
}

// ConvertValueFromStandard converts a standard value into u.
func (u Unit) ConvertValueFromStandard(v float64) float64 {
	if u.def != nil {
		return u.def.fromStandard(v) * pow10(-u.exponent)
	}
	for _, p := range u.powers {
		v /= math.Pow(p.Unit.slope(), p.Power)
	}
	return v * pow10(-u.exponent)
}

// ConvertErrorToStandard converts an uncertainty in u to the standard unit.
func (u Unit) ConvertErrorToStandard(e float64) float64 {
	e *= pow10(u.exponent)
	if u.def != nil {
		if u.def.ErrorToStandard != nil {
			return u.def.ErrorToStandard(e)
		}
		return math.Abs(e * u.def.slope())
	}
	for _, p := range u.powers {
		e *= math.Pow(math.Abs(p.Unit.slope()), p.Power)
	}
	return math.Abs(e)
}

// ConvertErrorFromStandard converts a standard uncertainty into u.
func (u Unit) ConvertErrorFromStandard(e float64) float64 {
	if u.def != nil {
		if u.def.ErrorFromStandard != nil {
			return u.def.ErrorFromStandard(e) * pow10(-u.exponent)
		}
		return math.Abs(e/u.def.slope()) * pow10(-u.exponent)
	}
	for _, p := range u.powers {
		e /= math.Pow(math.Abs(p.Unit.slope()), p.Power)
	}
	return math.Abs(e * pow10(-u.exponent))
}

// slope is the linear standard factor of a leaf unit including its exponent.
func (u Unit) slope() float64 {
	return u.ConvertValueToStandard(1) - u.ConvertValueToStandard(0)
}

func pow10(exp float64) float64 {
	if exp == 0 {
		return 1
	}
	return math.Pow(10, exp)
}

// String renders the canonical form "(10^3) * Meter^(0.5) Second^(-0.5)".
func (u Unit) String() string {
	if u.IsZero() {
		return ""
	}
	var sb strings.Builder
	if u.exponent != 0 {
		sb.WriteString("(10^" + formatPower(u.exponent) + ") * ")
	}
	if u.def != nil {
		sb.WriteString(u.def.Name)
		return sb.String()
	}
	for i, p := range u.powers {
		if i > 0 {
			sb.WriteString(" ")
		}
		// The first term spells out its own exponent after an outer one.
		if p.Unit.exponent != 0 || (i == 0 && u.exponent != 0) {
			sb.WriteString("(10^" + formatPower(p.Unit.exponent) + ") * ")
		}
		sb.WriteString(p.Unit.def.Name + "^(" + formatPower(p.Power) + ")")
	}
	return sb.String()
}

// MarshalText renders the canonical string form.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}
