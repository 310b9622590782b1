package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/c360studio/semchem/units"
)

// Serialize returns {SchemaName: {field: value}}. Empty fields are omitted
// unless declared Null. With primitive set, units are rendered in their
// canonical string form so the result only holds JSON compatible values.
func (r *Record) Serialize(primitive bool) map[string]any {
	return map[string]any{r.schema.name: r.serializeFields(primitive)}
}

func (r *Record) serializeFields(primitive bool) map[string]any {
	out := make(map[string]any)
	for _, f := range r.schema.fields {
		v := r.values[f.Name]
		if isEmpty(v) {
			if f.Null {
				out[f.Name] = nil
			}
			continue
		}
		out[f.Name] = serializeValue(v, primitive)
	}
	return out
}

func serializeValue(v any, primitive bool) any {
	switch x := v.(type) {
	case *Record:
		return x.Serialize(primitive)
	case units.Unit:
		if primitive {
			return x.String()
		}
		return x
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = serializeValue(e, primitive)
		}
		return out
	}
	return v
}

// MarshalJSON encodes the primitive serialized form.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Serialize(true))
}

// FromPrimitive rebuilds a record from its serialized form. Both the
// wrapped {SchemaName: {...}} form and the bare field map are accepted.
//
// Units are read from their canonical form, falling back to free text unit
// parsing. A unit of the wrong dimension leaves its field empty; the record
// is still returned together with the dimension error.
func FromPrimitive(schema *Schema, data map[string]any) (*Record, error) {
	fields := data
	if inner, ok := data[schema.name].(map[string]any); ok && len(data) == 1 {
		fields = inner
	}

	r := New(schema)
	var mismatches []error
	for name, raw := range fields {
		f, ok := schema.Field(name)
		if !ok {
			return nil, &FieldError{Schema: schema.name, Path: name, Err: ErrUnknownField}
		}
		v, err := fromPrimitiveValue(schema, f, raw)
		if err != nil {
			if !units.IsDimensionMismatch(err) {
				return nil, &FieldError{Schema: schema.name, Path: name, Err: err}
			}
			mismatches = append(mismatches, err)
		}
		if err := r.Set(name, v); err != nil {
			if !units.IsDimensionMismatch(err) {
				return nil, err
			}
			mismatches = append(mismatches, err)
		}
	}
	return r, errors.Join(mismatches...)
}

func fromPrimitiveValue(schema *Schema, f *Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindUnit:
		s, ok := raw.(string)
		if !ok {
			return raw, nil
		}
		return parseUnitString(schema, s)
	case KindModel:
		m, ok := toStringMap(raw)
		if !ok {
			return raw, nil
		}
		return FromPrimitive(f.Model, m)
	case KindList, KindSet:
		elems, ok := raw.([]any)
		if !ok {
			return raw, nil
		}
		out := make([]any, 0, len(elems))
		var mismatches []error
		for i, e := range elems {
			v, err := fromPrimitiveValue(schema, f.Elem, e)
			if err != nil {
				if !units.IsDimensionMismatch(err) {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				mismatches = append(mismatches, err)
			}
			out = append(out, v)
		}
		return out, errors.Join(mismatches...)
	}
	return raw, nil
}

func parseUnitString(schema *Schema, s string) (units.Unit, error) {
	if u, err := units.ParseCanonical(s); err == nil {
		return u, nil
	}
	dim, ok := schema.Dimensions()
	if !ok {
		dim = units.Dimensionless
	}
	return units.ExtractUnits(s, dim, false)
}

// toStringMap accepts the map shapes produced by JSON and YAML decoders.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
