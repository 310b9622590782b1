package quantity

import (
	"errors"
	"testing"

	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantityOf(t *testing.T, schema *record.Schema, raw, rawUnits string) *record.Record {
	t.Helper()
	r := record.New(schema)
	require.NoError(t, Populate(r, raw, rawUnits, true))
	return r
}

func TestPopulate(t *testing.T) {
	r := quantityOf(t, TemperatureModel, "100–120", "°C")

	assert.Equal(t, "100–120", r.String(FieldRawValue))
	assert.Equal(t, "°C", r.String(FieldRawUnits))
	assert.Equal(t, []float64{100, 120}, r.Range(FieldValue))
	assert.True(t, units.Celsius().Equal(r.Unit(FieldUnits)))
	assert.True(t, r.RequiredFulfilled())

	withError := quantityOf(t, LengthModel, "5.2 ± 0.1", "nm")
	e, ok := withError.Float(FieldError)
	require.True(t, ok)
	assert.InDelta(t, 0.1, e, 1e-12)
	assert.True(t, units.New(units.MeterDefinition, -9).Equal(withError.Unit(FieldUnits)))
}

func TestPopulateDimensionMismatch(t *testing.T) {
	strict := record.New(TemperatureModel)
	err := Populate(strict, "100", "km2", true)
	assert.True(t, units.IsDimensionMismatch(err))

	lenient := record.New(LengthModel)
	err = Populate(lenient, "100", "km2", false)
	var de *units.DimensionError
	require.True(t, errors.As(err, &de))
	assert.True(t, de.Expected.Equal(units.Length))
	assert.Equal(t, []float64{100}, lenient.Range(FieldValue), "value is kept")
	assert.False(t, lenient.Has(FieldUnits))
}

func TestPopulateNotQuantity(t *testing.T) {
	plain := record.NewSchema("Plain", record.StringField("raw_value"))
	assert.ErrorIs(t, Populate(record.New(plain), "1", "K", true), ErrNotQuantity)
}

func TestSchemaFor(t *testing.T) {
	assert.Same(t, TemperatureModel, SchemaFor(units.Temperature))
	assert.Same(t, DimensionlessModel, SchemaFor(units.Length.Div(units.Length)))

	speed := units.Length.Div(units.Time)
	s := SchemaFor(speed)
	assert.Same(t, s, SchemaFor(units.Length.Mul(units.Time.Pow(-1))))
	dim, ok := s.Dimensions()
	require.True(t, ok)
	assert.True(t, dim.Equal(speed))
	assert.Equal(t, "QuantityModel(Length * Time^(-1))", s.Name())
}

func TestDivEqualUnitsIsDimensionless(t *testing.T) {
	a := quantityOf(t, TemperatureModel, "300", "K")
	b := quantityOf(t, TemperatureModel, "150", "K")

	got, err := Div(a, b)
	require.NoError(t, err)
	assert.Same(t, DimensionlessModel, got.Schema())
	assert.Equal(t, []float64{2}, got.Range(FieldValue))
	assert.True(t, units.DimensionlessUnit().Equal(got.Unit(FieldUnits)))
}

func TestDivPrefixedUnitsCollapseToStandard(t *testing.T) {
	a := quantityOf(t, LengthModel, "3", "km")
	b := quantityOf(t, LengthModel, "1", "km")

	got, err := Div(a, b)
	require.NoError(t, err)
	assert.Same(t, DimensionlessModel, got.Schema())
	assert.InDelta(t, 3, got.Range(FieldValue)[0], 1e-12)
}

func TestMul(t *testing.T) {
	length := quantityOf(t, LengthModel, "2 ± 0.1", "m")
	speed := quantityOf(t, LengthModel, "10-20", "m")
	time := quantityOf(t, TimeModel, "2", "s")

	area, err := Mul(length, length)
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, area.Range(FieldValue))
	assert.True(t, area.Unit(FieldUnits).Dimension().Equal(units.Length.Pow(2)))
	e, ok := area.Float(FieldError)
	require.True(t, ok)
	// 4 * sqrt(2 * (0.1/2)^2)
	assert.InDelta(t, 0.28284271, e, 1e-6)

	product, err := Mul(speed, time)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 40}, product.Range(FieldValue))
	_, ok = product.Float(FieldError)
	assert.False(t, ok)
}

func TestMulUnsupportedAlgebra(t *testing.T) {
	km := quantityOf(t, LengthModel, "1", "km")
	m := quantityOf(t, LengthModel, "1", "m")

	_, err := Mul(km, m)
	assert.ErrorIs(t, err, units.ErrUnsupportedAlgebra)
}

func TestPowAndScale(t *testing.T) {
	side := quantityOf(t, LengthModel, "3 ± 0.1", "m")

	volume, err := Pow(side, 3)
	require.NoError(t, err)
	assert.InDelta(t, 27, volume.Range(FieldValue)[0], 1e-9)
	assert.True(t, volume.Unit(FieldUnits).Dimension().Equal(units.Length.Pow(3)))
	e, _ := volume.Float(FieldError)
	assert.InDelta(t, 2.7, e, 1e-9)

	doubled, err := Scale(side, -2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-6}, doubled.Range(FieldValue))
	e, _ = doubled.Float(FieldError)
	assert.InDelta(t, 0.2, e, 1e-12)
	assert.Same(t, LengthModel, doubled.Schema())
}

func TestAlgebraRequiresValueAndUnits(t *testing.T) {
	noUnits := record.New(LengthModel).MustSet(FieldValue, 1.0)
	noValue := record.New(LengthModel).MustSet(FieldUnits, units.Meter())
	full := quantityOf(t, LengthModel, "1", "m")

	_, err := Mul(noUnits, full)
	assert.ErrorIs(t, err, ErrAttributeNotSet)
	_, err = Div(full, noValue)
	assert.ErrorIs(t, err, ErrAttributeNotSet)
}

func TestConvert(t *testing.T) {
	r := quantityOf(t, TemperatureModel, "100-120 ± 0.5", "°C")

	values, err := ConvertValue(r, units.Kelvin())
	require.NoError(t, err)
	assert.InDelta(t, 373.15, values[0], 1e-9)
	assert.InDelta(t, 393.15, values[1], 1e-9)

	values, err = ConvertValue(r, units.Fahrenheit())
	require.NoError(t, err)
	assert.InDelta(t, 212, values[0], 1e-9)

	require.NoError(t, ConvertTo(r, units.Fahrenheit()))
	e, _ := r.Float(FieldError)
	assert.InDelta(t, 0.9, e, 1e-9)
	assert.True(t, units.Fahrenheit().Equal(r.Unit(FieldUnits)))

	require.NoError(t, ConvertToStandard(r))
	assert.InDelta(t, 373.15, r.Range(FieldValue)[0], 1e-9)
	assert.True(t, units.Kelvin().Equal(r.Unit(FieldUnits)))
}

func TestConvertSpeed(t *testing.T) {
	speed := units.Must(units.Mile().Div(units.Hour()))
	r := record.New(SchemaFor(speed.Dimension())).
		MustSet(FieldValue, 60.0).
		MustSet(FieldUnits, speed)

	require.NoError(t, ConvertToStandard(r))
	assert.InDelta(t, 26.8224, r.Range(FieldValue)[0], 1e-9)

	require.NoError(t, ConvertTo(r, speed))
	assert.InDelta(t, 60, r.Range(FieldValue)[0], 1e-9)
}

func TestConvertErrors(t *testing.T) {
	r := quantityOf(t, TemperatureModel, "100", "K")

	_, err := ConvertValue(r, units.Meter())
	var de *units.DimensionError
	assert.True(t, errors.As(err, &de))

	_, err = ConvertValue(record.New(TemperatureModel), units.Kelvin())
	assert.ErrorIs(t, err, ErrAttributeNotSet)

	noUnits := record.New(TemperatureModel).MustSet(FieldValue, 1.0)
	assert.ErrorIs(t, ConvertToStandard(noUnits), ErrAttributeNotSet)
}

func TestEquivalent(t *testing.T) {
	celsius := quantityOf(t, TemperatureModel, "100 ± 0.5", "°C")
	kelvin := quantityOf(t, TemperatureModel, "373.5", "K")
	far := quantityOf(t, TemperatureModel, "380", "K")
	length := quantityOf(t, LengthModel, "100", "m")

	ok, err := Equivalent(celsius, kelvin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Equivalent(celsius, far)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Equivalent(celsius, length)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Equivalent(celsius, record.New(TemperatureModel))
	assert.ErrorIs(t, err, ErrAttributeNotSet)
}
