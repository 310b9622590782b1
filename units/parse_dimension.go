package units

import (
	"fmt"
	"strconv"
	"strings"
)

var baseNames = map[string]BaseDimension{
	"length":      BaseLength,
	"time":        BaseTime,
	"temperature": BaseTemperature,
	"mass":        BaseMass,
}

// ParseDimension reads a dimension expression such as "length/time",
// "mass*length^-3" or the String form "Length * Time^(-1)". Names are case
// insensitive; "dimensionless" and the empty string are Dimensionless.
func ParseDimension(s string) (Dimension, error) {
	expr := strings.NewReplacer("*", " * ", "/", " / ", "(", "", ")", "").Replace(strings.ToLower(s))

	dim := Dimensionless
	sign := 1.0
	for _, tok := range strings.Fields(expr) {
		switch tok {
		case "*":
			sign = 1
			continue
		case "/":
			sign = -1
			continue
		case "dimensionless", "1":
			continue
		}

		name, power, hasPower := strings.Cut(tok, "^")
		base, ok := baseNames[name]
		if !ok {
			return Dimension{}, fmt.Errorf("%w: %q", ErrUnknownDimension, name)
		}
		exp := 1.0
		if hasPower {
			p, err := strconv.ParseFloat(power, 64)
			if err != nil {
				return Dimension{}, fmt.Errorf("dimension %q: bad power %q", s, power)
			}
			exp = p
		}
		dim = dim.Mul(Of(base).Pow(exp * sign))
		sign = 1
	}
	return dim, nil
}

// AnyDimension is the product of every base dimension. Parsing against it
// with strict off considers every registered symbol.
var AnyDimension = Length.Mul(Time).Mul(Temperature).Mul(Mass)
