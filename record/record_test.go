package record

import (
	"errors"
	"testing"

	"github.com/c360studio/semchem/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRangeIsSorted(t *testing.T) {
	r := temperature("120-100")
	require.NoError(t, r.Set("value", []float64{120, 100}))
	assert.Equal(t, []float64{100, 120}, r.Range("value"))

	require.NoError(t, r.Set("value", 42))
	assert.Equal(t, []float64{42}, r.Range("value"))

	err := r.Set("value", []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.False(t, r.Has("value"))
}

func TestSetUnknownField(t *testing.T) {
	err := New(testCompound).Set("formula", "H2O")

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Compound", fe.Schema)
	assert.Equal(t, "formula", fe.Path)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetWrongKind(t *testing.T) {
	r := New(testTemperature)
	assert.ErrorIs(t, r.Set("raw_value", 12.5), ErrInvalidValue)
	assert.ErrorIs(t, r.Set("compound", New(testApparatus)), ErrInvalidValue)
	assert.ErrorIs(t, r.Set("units", "K"), ErrInvalidValue)
}

func TestSetUnitDimensionMismatch(t *testing.T) {
	r := temperature("100")
	require.NoError(t, r.Set("units", units.Celsius()))
	assert.True(t, r.Unit("units").Equal(units.Celsius()))

	err := r.Set("units", units.Meter())
	require.Error(t, err)
	assert.True(t, units.IsDimensionMismatch(err))

	var de *units.DimensionError
	require.True(t, errors.As(err, &de))
	assert.True(t, de.Expected.Equal(units.Temperature))
	assert.False(t, r.Has("units"), "mismatched unit must leave the field empty")
}

func TestSetCopiesNestedRecords(t *testing.T) {
	c := compound("benzene")
	r := temperature("5")
	require.NoError(t, r.Set("compound", c))

	c.MustSet("labels", []string{"1"})
	assert.False(t, r.Model("compound").Has("labels"))
}

func TestSetFieldDeduplicatesAndSorts(t *testing.T) {
	c := compound("toluene", "benzene", "toluene")
	assert.Equal(t, []string{"benzene", "toluene"}, c.Strings("names"))
}

func TestSetNilClears(t *testing.T) {
	r := temperature("5")
	require.NoError(t, r.Set("raw_value", nil))
	assert.False(t, r.Has("raw_value"))
	assert.True(t, r.IsEmpty())
}

func TestDefaults(t *testing.T) {
	s := NewSchema("Sample",
		StringField("state", Default("solid")),
		StringField("name"),
	)
	r := New(s)
	assert.Equal(t, "solid", r.String("state"))
	assert.False(t, r.Has("name"))
}

func TestCloneIsDeep(t *testing.T) {
	r := temperature("5").MustSet("compound", compound("A"))
	c := r.Clone()
	require.True(t, r.Equal(c))

	c.Model("compound").MustSet("labels", []string{"2"})
	assert.False(t, r.Equal(c))
	assert.False(t, r.Model("compound").Has("labels"))
}

func TestNewSchemaOverridesField(t *testing.T) {
	s := NewSchema("Derived",
		StringField("a"),
		StringField("b"),
		StringField("a", Required()),
	)
	require.Len(t, s.Fields(), 2)
	f, ok := s.Field("a")
	require.True(t, ok)
	assert.True(t, f.Required)
	assert.Equal(t, "a", s.Fields()[0].Name)
}

func TestNewSchemaPanicsOnInvalidField(t *testing.T) {
	assert.Panics(t, func() { NewSchema("Bad", ModelField("m", nil)) })
	assert.Panics(t, func() { NewSchema("Bad", ListField("l", nil)) })
}
