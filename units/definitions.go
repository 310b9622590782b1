package units

// Standard unit definitions. Standard units are meter, second, kelvin and
// kilogram.
var (
	DimensionlessDefinition = Linear("DimensionlessUnit", Dimensionless, 1)
	PercentDefinition       = Linear("Percent", Dimensionless, 0.01)

	MeterDefinition    = Linear("Meter", Length, 1)
	MileDefinition     = Linear("Mile", Length, 1609.344)
	AngstromDefinition = Linear("Angstrom", Length, 1e-10)
	LiterDefinition    = Linear("Liter", Length.Pow(3), 1e-3)

	SecondDefinition = Linear("Second", Time, 1)
	MinuteDefinition = Linear("Minute", Time, 60)
	HourDefinition   = Linear("Hour", Time, 3600)
	DayDefinition    = Linear("Day", Time, 86400)
	YearDefinition   = Linear("Year", Time, 31557600)

	KelvinDefinition     = Linear("Kelvin", Temperature, 1)
	CelsiusDefinition    = Affine("Celsius", Temperature, 1, 273.15)
	FahrenheitDefinition = Affine("Fahrenheit", Temperature, 5.0/9.0, 459.67*5.0/9.0)

	GramDefinition  = Linear("Gram", Mass, 1e-3)
	PoundDefinition = Linear("Pound", Mass, 0.45359237)
	TonneDefinition = Linear("Tonne", Mass, 1000)
)

// DimensionlessUnit returns the unit of dimensionless quantities.
func DimensionlessUnit() Unit { return New(DimensionlessDefinition, 0) }

// Percent returns the percent unit.
func Percent() Unit { return New(PercentDefinition, 0) }

// Meter returns the meter.
func Meter() Unit { return New(MeterDefinition, 0) }

// Mile returns the statute mile.
func Mile() Unit { return New(MileDefinition, 0) }

// Angstrom returns the angstrom.
func Angstrom() Unit { return New(AngstromDefinition, 0) }

// Liter returns the liter, a unit of volume.
func Liter() Unit { return New(LiterDefinition, 0) }

// Second returns the second.
func Second() Unit { return New(SecondDefinition, 0) }

// Minute returns the minute.
func Minute() Unit { return New(MinuteDefinition, 0) }

// Hour returns the hour.
func Hour() Unit { return New(HourDefinition, 0) }

// Day returns the day.
func Day() Unit { return New(DayDefinition, 0) }

// Year returns the Julian year.
func Year() Unit { return New(YearDefinition, 0) }

// Kelvin returns the kelvin.
func Kelvin() Unit { return New(KelvinDefinition, 0) }

// Celsius returns the degree Celsius.
func Celsius() Unit { return New(CelsiusDefinition, 0) }

// Fahrenheit returns the degree Fahrenheit.
func Fahrenheit() Unit { return New(FahrenheitDefinition, 0) }

// Gram returns the gram.
func Gram() Unit { return New(GramDefinition, 0) }

// Pound returns the avoirdupois pound.
func Pound() Unit { return New(PoundDefinition, 0) }

// Tonne returns the metric tonne.
func Tonne() Unit { return New(TonneDefinition, 0) }

var standardUnits = map[BaseDimension]Unit{
	BaseLength:      Meter(),
	BaseTime:        Second(),
	BaseTemperature: Kelvin(),
	BaseMass:        New(GramDefinition, 3),
}

// StandardUnit returns the unit in which values of dim are converted by
// ConvertValueToStandard: meter, second, kelvin, kilogram and their
// products. Bases without a standard unit are skipped.
func StandardUnit(dim Dimension) Unit {
	out := DimensionlessUnit()
	for _, base := range dim.Bases() {
		std, ok := standardUnits[base]
		if !ok {
			continue
		}
		// Distinct definitions never share an exponent conflict.
		out = Must(out.Mul(std.Pow(dim.Exponent(base))))
	}
	return out
}
