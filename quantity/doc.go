// Package quantity defines quantity record schemas, pairing a numeric value
// or range with a unit and an optional error, and the arithmetic and unit
// conversion on such records.
//
// Quantity schemas are ordinary record schemas with a declared dimension:
//
//	r := record.New(quantity.TemperatureModel)
//	if err := quantity.Populate(r, "100-120", "°C", true); err != nil {
//		return err
//	}
//	if err := quantity.ConvertToStandard(r); err != nil {
//		return err
//	}
//	r.Range("value") // [373.15 393.15]
package quantity
