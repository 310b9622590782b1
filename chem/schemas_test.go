package chem

import (
	"testing"

	"github.com/c360studio/semchem/quantity"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := Registry()
	for _, s := range Schemas() {
		got, ok := r.Lookup(s.Name())
		require.True(t, ok, s.Name())
		assert.Same(t, s, got)
	}
	_, ok := r.Lookup("TemperatureModel")
	assert.True(t, ok)
}

func TestPropertiesAreQuantities(t *testing.T) {
	for _, s := range Properties() {
		r := record.New(s)
		assert.True(t, quantity.IsQuantity(r), s.Name())
		f, ok := s.Field("compound")
		require.True(t, ok)
		assert.True(t, f.Binding && f.Contextual && f.Required)
	}
}

func TestMeltingPointSpecifier(t *testing.T) {
	session := record.NewSession()
	for _, text := range []string{"m.p.", "mp", "M.p.", "melting point", "Tm", "T_m"} {
		matched, viaUpdate, err := session.Match(MeltingPoint, quantity.FieldSpecifier, text)
		require.NoError(t, err)
		assert.True(t, matched, text)
		assert.False(t, viaUpdate, text)
	}
	matched, _, err := session.Match(MeltingPoint, quantity.FieldSpecifier, "Tg")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestDensityPopulate(t *testing.T) {
	r := record.New(Density)
	require.NoError(t, quantity.Populate(r, "0.87", "g/cm3", true))

	require.NoError(t, quantity.ConvertToStandard(r))
	assert.InDelta(t, 870, r.Range(quantity.FieldValue)[0], 1e-9)
	assert.True(t, r.Unit(quantity.FieldUnits).Dimension().Equal(units.Mass.Div(units.Length.Pow(3))))
}

func TestMeltingPointResolvesCompound(t *testing.T) {
	mp := record.New(MeltingPoint)
	require.NoError(t, quantity.Populate(mp, "5.5", "°C", true))
	assert.False(t, mp.RequiredFulfilled())

	benzene := record.New(Compound).MustSet("names", []string{"benzene"})
	assert.True(t, mp.MergeContextual(benzene, record.DocumentRange()))
	assert.True(t, mp.RequiredFulfilled())
}

func TestSpectrumPeaksInheritCompound(t *testing.T) {
	spectrum := record.New(NmrSpectrum).
		MustSet("nucleus", "1H").
		MustSet("peaks", []*record.Record{record.New(NmrPeak).MustSet("shift", []float64{7.26})})

	benzene := record.New(Compound).MustSet("names", []string{"benzene"})
	require.True(t, spectrum.MergeContextual(benzene, record.SectionRange()))

	peaks := spectrum.Records("peaks")
	require.Len(t, peaks, 1)
	assert.Equal(t, []string{"benzene"}, peaks[0].Model("compound").Strings("names"))
}
