package chem

import (
	"github.com/c360studio/semchem/quantity"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

// Compound identifies a chemical by its names and in-document labels.
var Compound = record.NewSchema("Compound",
	record.SetField("names", record.StringField("")),
	record.SetField("labels", record.StringField(""), record.Updatable(`\d{1,3}[a-z]?|[IVX]{1,4}[a-z]?`)),
	record.SetField("roles", record.StringField("")),
)

// Apparatus is the instrument a measurement was taken with.
var Apparatus = record.NewSchema("Apparatus",
	record.StringField("name", record.Required()),
)

func compoundField() *record.Field {
	return record.ModelField("compound", Compound, record.Contextual(), record.Binding(), record.Required())
}

func apparatusField() *record.Field {
	return record.ModelField("apparatus", Apparatus, record.ContextualWithin(record.SectionRange()))
}

func specifierField(pattern string) *record.Field {
	return record.StringField(quantity.FieldSpecifier, record.Updatable(pattern), record.IgnoreWhenMerging())
}

// MeltingPoint is the melting temperature of a compound.
var MeltingPoint = quantity.NewSchema("MeltingPoint", units.Temperature,
	specifierField(`(?i:m\.?\s?p\.?|melting\s+(?:point|temperature|range))|T_?m|Tm`),
	record.StringField("solvent", record.ContextualWithin(record.ParagraphRange())),
	compoundField(),
	apparatusField(),
)

// BoilingPoint is the boiling temperature of a compound.
var BoilingPoint = quantity.NewSchema("BoilingPoint", units.Temperature,
	specifierField(`(?i:b\.?\s?p\.?|boiling\s+(?:point|temperature))|T_?b|Tb`),
	compoundField(),
	apparatusField(),
)

// GlassTransition is the glass transition temperature of a compound.
var GlassTransition = quantity.NewSchema("GlassTransition", units.Temperature,
	specifierField(`(?i:glass\s+transition(?:\s+temperature)?)|T_?g|Tg`),
	compoundField(),
	apparatusField(),
)

// Density is mass per volume.
var Density = quantity.NewSchema("Density", units.Mass.Div(units.Length.Pow(3)),
	specifierField(`(?i:density)|ρ`),
	compoundField(),
)

// NmrPeak is one peak of an NMR spectrum.
var NmrPeak = record.NewSchema("NmrPeak",
	record.RangeField("shift", record.Required()),
	record.StringField("intensity"),
	record.StringField("multiplicity"),
	record.FloatField("coupling"),
	record.StringField("coupling_units"),
	record.StringField("number"),
	record.StringField("assignment"),
	record.ModelField("compound", Compound),
)

// NmrSpectrum is an NMR spectrum with its peaks.
var NmrSpectrum = record.NewSchema("NmrSpectrum",
	record.StringField("nucleus", record.Required()),
	record.StringField("solvent", record.ContextualWithin(record.ParagraphRange())),
	record.StringField("frequency"),
	record.StringField("frequency_units"),
	record.StringField("standard"),
	record.ListField("peaks", record.ModelField("", NmrPeak)),
	record.ModelField("compound", Compound, record.Contextual(), record.Binding()),
)

// Schemas returns every chemistry schema.
func Schemas() []*record.Schema {
	return []*record.Schema{
		Compound,
		Apparatus,
		MeltingPoint,
		BoilingPoint,
		GlassTransition,
		Density,
		NmrPeak,
		NmrSpectrum,
	}
}

// Register adds every chemistry schema and the standard quantity schemas to
// r.
func Register(r *record.Registry) error {
	schemas := append(Schemas(),
		quantity.TemperatureModel,
		quantity.LengthModel,
		quantity.TimeModel,
		quantity.MassModel,
		quantity.DimensionlessModel,
	)
	return r.Register(schemas...)
}

// Registry returns a new registry holding the chemistry schemas.
func Registry() *record.Registry {
	r := record.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// Properties returns the schemas of measured compound properties.
func Properties() []*record.Schema {
	return []*record.Schema{MeltingPoint, BoilingPoint, GlassTransition, Density}
}
