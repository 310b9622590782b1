package units

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// BaseDimension names a primitive physical dimension.
type BaseDimension string

// Standard base dimensions.
const (
	BaseLength      BaseDimension = "length"
	BaseTime        BaseDimension = "time"
	BaseTemperature BaseDimension = "temperature"
	BaseMass        BaseDimension = "mass"
)

type dimensionTerm struct {
	base BaseDimension
	exp  float64
}

// Dimension is a physical dimension expressed as powers of base dimensions.
// The zero value is Dimensionless. Terms are kept sorted by base name with
// no zero exponents, so two equal dimensions always have identical terms.
type Dimension struct {
	terms []dimensionTerm
}

// Standard dimensions.
var (
	Dimensionless = Dimension{}
	Length        = Of(BaseLength)
	Time          = Of(BaseTime)
	Temperature   = Of(BaseTemperature)
	Mass          = Of(BaseMass)
)

// Of returns the primitive dimension for a base.
func Of(base BaseDimension) Dimension {
	return Dimension{terms: []dimensionTerm{{base: base, exp: 1}}}
}

// FromPowers builds a dimension from a base to exponent map.
func FromPowers(powers map[BaseDimension]float64) Dimension {
	terms := make([]dimensionTerm, 0, len(powers))
	for base, exp := range powers {
		exp = roundExponent(exp)
		if exp == 0 {
			continue
		}
		terms = append(terms, dimensionTerm{base: base, exp: exp})
	}
	if len(terms) == 0 {
		return Dimensionless
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].base < terms[j].base })
	return Dimension{terms: terms}
}

// roundExponent keeps sums of fractional powers comparable.
func roundExponent(exp float64) float64 {
	r := math.Round(exp*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}

// Powers returns a copy of the base to exponent map.
func (d Dimension) Powers() map[BaseDimension]float64 {
	powers := make(map[BaseDimension]float64, len(d.terms))
	for _, t := range d.terms {
		powers[t.base] = t.exp
	}
	return powers
}

// Bases returns the base dimensions present, sorted.
func (d Dimension) Bases() []BaseDimension {
	bases := make([]BaseDimension, len(d.terms))
	for i, t := range d.terms {
		bases[i] = t.base
	}
	return bases
}

// Exponent returns the power of base in d, zero if absent.
func (d Dimension) Exponent(base BaseDimension) float64 {
	for _, t := range d.terms {
		if t.base == base {
			return t.exp
		}
	}
	return 0
}

// Mul returns the product of two dimensions.
func (d Dimension) Mul(other Dimension) Dimension {
	powers := d.Powers()
	for _, t := range other.terms {
		powers[t.base] += t.exp
	}
	return FromPowers(powers)
}

// Div returns d / other.
func (d Dimension) Div(other Dimension) Dimension {
	return d.Mul(other.Pow(-1))
}

// Pow raises every exponent of d to n.
func (d Dimension) Pow(n float64) Dimension {
	if n == 0 || d.IsDimensionless() {
		return Dimensionless
	}
	powers := make(map[BaseDimension]float64, len(d.terms))
	for _, t := range d.terms {
		powers[t.base] = t.exp * n
	}
	return FromPowers(powers)
}

// IsDimensionless reports whether d has no base terms.
func (d Dimension) IsDimensionless() bool {
	return len(d.terms) == 0
}

// Equal reports structural equality.
func (d Dimension) Equal(other Dimension) bool {
	if len(d.terms) != len(other.terms) {
		return false
	}
	for i := range d.terms {
		if d.terms[i] != other.terms[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string usable as a map key.
func (d Dimension) Key() string {
	return d.String()
}

// String renders the dimension as "Length * Time^(-1)".
func (d Dimension) String() string {
	if d.IsDimensionless() {
		return "Dimensionless"
	}
	parts := make([]string, len(d.terms))
	for i, t := range d.terms {
		name := titleCase(string(t.base))
		if t.exp == 1 {
			parts[i] = name
			continue
		}
		parts[i] = name + "^(" + formatPower(t.exp) + ")"
	}
	return strings.Join(parts, " * ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatPower(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
