package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafUnitRoundTrip(t *testing.T) {
	leaves := []Unit{
		Meter(), Meter().WithExponent(3), Mile(), Angstrom(),
		Second(), Minute(), Hour(), Day(), Year(),
		Kelvin(), Celsius(), Fahrenheit(), Kelvin().WithExponent(-3),
		Gram(), Gram().WithExponent(3), Pound(), Tonne(),
		DimensionlessUnit(), Percent(),
	}
	values := []float64{-40, 0, 1, 12.5, 373.15, 1e6}

	for _, u := range leaves {
		for _, v := range values {
			got := u.ConvertValueFromStandard(u.ConvertValueToStandard(v))
			assert.InDelta(t, v, got, 1e-9*max(1, abs(v)), "%s round trip of %v", u, v)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		in   float64
		want float64
	}{
		{"celsius to kelvin", Celsius(), 100, 373.15},
		{"fahrenheit to kelvin", Fahrenheit(), 32, 273.15},
		{"kilometer to meter", Meter().WithExponent(3), 2.5, 2500},
		{"millikelvin", Kelvin().WithExponent(-3), 500, 0.5},
		{"gram to kilogram", Gram(), 250, 0.25},
		{"kilogram to kilogram", Gram().WithExponent(3), 2, 2},
		{"hour to second", Hour(), 2, 7200},
		{"percent", Percent(), 45, 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.unit.ConvertValueToStandard(tt.in), 1e-9)
		})
	}
}

func TestCompositeConversion(t *testing.T) {
	mph := Must(Mile().Div(Hour()))

	standard := mph.ConvertValueToStandard(60)
	assert.InDelta(t, 26.8224, standard, 1e-9)
	assert.InDelta(t, 60.0, mph.ConvertValueFromStandard(standard), 1e-9)
	assert.True(t, mph.Dimension().Equal(Length.Div(Time)))

	t.Run("errors scale linearly", func(t *testing.T) {
		assert.InDelta(t, 0.44704, mph.ConvertErrorToStandard(1), 1e-9)
		assert.InDelta(t, 1.0, mph.ConvertErrorFromStandard(0.44704), 1e-9)
	})

	t.Run("temperature differences in composites ignore offsets", func(t *testing.T) {
		perC := Celsius().Pow(-1)
		perK := Kelvin().Pow(-1)
		assert.InDelta(t, perK.ConvertValueToStandard(2), perC.ConvertValueToStandard(2), 1e-12)
	})

	t.Run("celsius error conversion drops offset", func(t *testing.T) {
		assert.InDelta(t, 0.5, Celsius().ConvertErrorToStandard(0.5), 1e-12)
		assert.InDelta(t, 0.5, Fahrenheit().ConvertErrorFromStandard(5.0/18.0), 1e-12)
	})
}

func TestUnitAlgebra(t *testing.T) {
	t.Run("single power one collapses to leaf", func(t *testing.T) {
		u := Must(Meter().Mul(Second())).Pow(1)
		v := Must(u.Div(Second()))
		assert.True(t, v.Equal(Meter()))
		assert.False(t, v.IsComposite())
	})

	t.Run("same unit cancels to dimensionless", func(t *testing.T) {
		u := Must(Meter().WithExponent(3).Div(Meter().WithExponent(3)))
		assert.True(t, u.Equal(DimensionlessUnit()))
		assert.True(t, u.Dimension().IsDimensionless())
	})

	t.Run("differently scaled duplicates are unsupported", func(t *testing.T) {
		_, err := Meter().WithExponent(3).Mul(Meter())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedAlgebra))
	})

	t.Run("pow zero is dimensionless", func(t *testing.T) {
		assert.True(t, Hour().Pow(0).Equal(DimensionlessUnit()))
	})

	t.Run("order independent equality", func(t *testing.T) {
		a := Must(Kelvin().Mul(Hour().Pow(2)))
		b := Must(Hour().Pow(2).Mul(Kelvin()))
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.String(), b.String())
	})

	t.Run("exponent distinguishes units", func(t *testing.T) {
		assert.False(t, Meter().Equal(Meter().WithExponent(-3)))
		assert.False(t, Meter().Pow(2).Equal(Meter().WithExponent(-3).Pow(2)))
	})

	t.Run("dimensionless exponent folds into composite", func(t *testing.T) {
		scaled := DimensionlessUnit().WithExponent(3)
		u := Must(scaled.Mul(Meter()))
		assert.True(t, u.Equal(Meter().WithExponent(3)))
	})
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "Meter", Meter().String())
	assert.Equal(t, "(10^3) * Meter", Meter().WithExponent(3).String())
	assert.Equal(t, "Hour^(-1) Mile^(1)", Must(Mile().Div(Hour())).String())
	assert.Equal(t, "(10^-3) * Meter^(2) Second^(-1)", Must(Meter().WithExponent(-3).Pow(2).Div(Second())).String())
	assert.Equal(t, "", Unit{}.String())
}

func TestStandardUnit(t *testing.T) {
	assert.True(t, StandardUnit(Length).Equal(Meter()))
	assert.True(t, StandardUnit(Mass).Equal(New(GramDefinition, 3)))
	assert.True(t, StandardUnit(Dimensionless).Equal(DimensionlessUnit()))

	speed := StandardUnit(Length.Div(Time))
	assert.True(t, speed.Dimension().Equal(Length.Div(Time)))
	assert.Equal(t, "Meter^(1) Second^(-1)", speed.String())
	assert.InDelta(t, 3.5, speed.ConvertValueToStandard(3.5), 1e-12)

	density := StandardUnit(Mass.Div(Length.Pow(3)))
	assert.InDelta(t, 1.0, density.ConvertValueToStandard(1), 1e-12)
}
