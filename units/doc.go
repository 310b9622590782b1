// Package units provides the dimension and unit algebra used to type
// extracted physical quantities.
//
// A [Dimension] is an immutable multiset of base-dimension powers such as
// Length * Time^-1. A [Unit] is either a leaf unit backed by a [Definition]
// (Meter, Kelvin, Hour) or a composite of leaf units raised to rational
// powers, and in both cases carries a power-of-ten exponent:
//
//	kmPerS := units.Must(units.Meter().WithExponent(3).Div(units.Second()))
//	v := kmPerS.ConvertValueToStandard(2) // 2000 m/s
//
// Free text unit expressions are resolved into composite units with
// [ExtractUnits], which matches symbols against the tables held by a
// [Registry] for the expected dimension:
//
//	u, err := units.ExtractUnits("mm2/s", units.Length.Pow(2).Div(units.Time), true)
//
// Conversion scaling by the exponent is applied by [Unit] for every
// definition, so a [Definition] only describes the unscaled conversion
// to the standard unit of its dimension.
package units
