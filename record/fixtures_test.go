package record

import "github.com/c360studio/semchem/units"

var (
	testCompound = NewSchema("Compound",
		SetField("names", StringField("")),
		SetField("labels", StringField("")),
	)

	testApparatus = NewSchema("Apparatus",
		StringField("name", Required()),
		StringField("model"),
	)

	testTemperature = NewDimensionedSchema("Temperature", units.Temperature,
		StringField("raw_value", Required()),
		StringField("raw_units"),
		RangeField("value"),
		UnitField("units"),
		FloatField("error"),
		StringField("specifier", IgnoreWhenMerging(), Updatable(`Tm|melting\s+point`)),
		StringField("solvent", ContextualWithin(SentenceRange())),
		ModelField("compound", testCompound, Contextual(), Binding(), Required()),
		ModelField("apparatus", testApparatus, ContextualWithin(SentenceRange())),
	)

	testPeak = NewSchema("Peak",
		FloatField("shift", Required()),
		ModelField("compound", testCompound),
	)

	testSpectrum = NewSchema("Spectrum",
		StringField("nucleus"),
		ModelField("compound", testCompound, Contextual(), Binding()),
		ListField("peaks", ModelField("", testPeak)),
	)
)

func compound(names ...string) *Record {
	return New(testCompound).MustSet("names", names)
}

func temperature(raw string) *Record {
	return New(testTemperature).MustSet("raw_value", raw)
}
