package quantity

import (
	"errors"
	"fmt"

	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

// Populate fills the quantity fields of r from a raw value and raw units
// string. Units are parsed against the schema dimension; with strict set a
// unit of another dimension is rejected with a *units.DimensionError,
// otherwise the same mismatch leaves the units field empty and is returned
// as a non-fatal error after every other field has been set.
func Populate(r *record.Record, rawValue, rawUnits string, strict bool) error {
	return PopulateWith(units.DefaultRegistry, r, rawValue, rawUnits, strict)
}

// PopulateWith is Populate using a custom unit registry.
func PopulateWith(reg *units.Registry, r *record.Record, rawValue, rawUnits string, strict bool) error {
	dim, err := Dimension(r)
	if err != nil {
		return err
	}

	if err := r.Set(FieldRawValue, rawValue); err != nil {
		return err
	}
	if err := r.Set(FieldRawUnits, rawUnits); err != nil {
		return err
	}

	values, err := ExtractValue(rawValue)
	if err != nil {
		return err
	}
	if err := r.Set(FieldValue, values); err != nil {
		return err
	}
	if e, ok := ExtractError(rawValue); ok {
		if err := r.Set(FieldError, e); err != nil {
			return err
		}
	}

	if rawUnits == "" {
		return nil
	}
	u, err := reg.ExtractUnits(rawUnits, dim, strict)
	if err != nil {
		return fmt.Errorf("units %q: %w", rawUnits, err)
	}
	if err := r.Set(FieldUnits, u); err != nil {
		var de *units.DimensionError
		if errors.As(err, &de) {
			return fmt.Errorf("units %q: %w", rawUnits, de)
		}
		return err
	}
	return nil
}
