package record

import (
	"fmt"
	"sort"

	"github.com/c360studio/semchem/units"
)

// Record holds the values of one schema instance.
//
// Values are stored by field name in their canonical Go form: string,
// float64, bool, []float64 (range), units.Unit, *Record (model) and []any
// (list and set).
type Record struct {
	schema *Schema
	values map[string]any

	// Method records how the record was extracted.
	Method string
	// WasUpdated is set when an updatable expression extended during the
	// current document matched this record.
	WasUpdated bool
}

// New returns an empty record of schema with field defaults applied.
func New(schema *Schema) *Record {
	r := &Record{schema: schema, values: make(map[string]any)}
	for _, f := range schema.fields {
		if f.Default == nil {
			continue
		}
		if v, err := coerce(schema, f, f.Default); err == nil && !isEmpty(v) {
			r.values[f.Name] = v
		}
	}
	return r
}

// Schema returns the record schema.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Set assigns a value to a field after validating it against the field
// kind. Assigning nil clears the field.
//
// A unit whose dimension disagrees with the schema dimension leaves the
// field empty and returns an error wrapping *units.DimensionError.
func (r *Record) Set(name string, value any) error {
	f, ok := r.schema.Field(name)
	if !ok {
		return &FieldError{Schema: r.schema.name, Path: name, Err: ErrUnknownField}
	}
	v, err := coerce(r.schema, f, value)
	if err != nil {
		delete(r.values, name)
		return &FieldError{Schema: r.schema.name, Path: name, Err: err}
	}
	if isEmpty(v) {
		delete(r.values, name)
		return nil
	}
	r.values[name] = v
	return nil
}

// MustSet is like Set but panics on error. It is intended for fixtures.
func (r *Record) MustSet(name string, value any) *Record {
	if err := r.Set(name, value); err != nil {
		panic(err)
	}
	return r
}

// Get returns the raw stored value of a field, nil when empty.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Has reports whether a field holds a value.
func (r *Record) Has(name string) bool {
	return !isEmpty(r.values[name])
}

// String returns a string field value.
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Float returns a float field value.
func (r *Record) Float(name string) (float64, bool) {
	v, ok := r.values[name].(float64)
	return v, ok
}

// Bool returns a bool field value.
func (r *Record) Bool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

// Range returns a copy of a range field value.
func (r *Record) Range(name string) []float64 {
	v, _ := r.values[name].([]float64)
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Unit returns a unit field value, the zero Unit when empty.
func (r *Record) Unit(name string) units.Unit {
	u, _ := r.values[name].(units.Unit)
	return u
}

// Model returns the nested record of a model field. The record is owned by
// r; changes to it are changes to r.
func (r *Record) Model(name string) *Record {
	m, _ := r.values[name].(*Record)
	return m
}

// List returns a copy of a list or set field value.
func (r *Record) List(name string) []any {
	v, _ := r.values[name].([]any)
	if v == nil {
		return nil
	}
	out := make([]any, len(v))
	copy(out, v)
	return out
}

// Strings returns the string elements of a list or set field.
func (r *Record) Strings(name string) []string {
	var out []string
	for _, e := range r.List(name) {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Records returns the nested records of a model, list or set field.
func (r *Record) Records(name string) []*Record {
	return nestedRecords(r.values[name])
}

// IsEmpty reports whether no field holds a value.
func (r *Record) IsEmpty() bool {
	for _, v := range r.values {
		if !isEmpty(v) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		schema:     r.schema,
		values:     make(map[string]any, len(r.values)),
		Method:     r.Method,
		WasUpdated: r.WasUpdated,
	}
	for k, v := range r.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether both records share a schema and hold equal values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.schema != other.schema {
		return false
	}
	for _, f := range r.schema.fields {
		a, b := r.values[f.Name], other.values[f.Name]
		if isEmpty(a) && isEmpty(b) {
			continue
		}
		if !equalValues(a, b) {
			return false
		}
	}
	return true
}

func coerce(schema *Schema, f *Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindFloat:
		if v, ok := toFloat(value); ok {
			return v, nil
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindRange:
		return coerceRange(value)
	case KindUnit:
		u, ok := value.(units.Unit)
		if !ok {
			break
		}
		if u.IsZero() {
			return nil, nil
		}
		if dim, ok := schema.Dimensions(); ok && !u.Dimension().Equal(dim) {
			return nil, &units.DimensionError{Expected: dim, Got: u.Dimension()}
		}
		return u, nil
	case KindModel:
		m, ok := value.(*Record)
		if !ok {
			break
		}
		if m == nil {
			return nil, nil
		}
		if m.schema != f.Model {
			return nil, fmt.Errorf("%w: %s record for %s field", ErrInvalidValue, m.schema.name, f.Model.name)
		}
		return m.Clone(), nil
	case KindList, KindSet:
		return coerceCollection(schema, f, value)
	}
	return nil, fmt.Errorf("%w: %T for %s field", ErrInvalidValue, value, f.Kind)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func coerceRange(value any) (any, error) {
	var vals []float64
	switch v := value.(type) {
	case []float64:
		vals = append(vals, v...)
	case []any:
		for _, e := range v {
			fv, ok := toFloat(e)
			if !ok {
				return nil, fmt.Errorf("%w: %T in range", ErrInvalidValue, e)
			}
			vals = append(vals, fv)
		}
	default:
		fv, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: %T for range field", ErrInvalidValue, value)
		}
		vals = []float64{fv}
	}
	if len(vals) > 2 {
		return nil, fmt.Errorf("%w: range of %d values", ErrInvalidValue, len(vals))
	}
	sort.Float64s(vals)
	return vals, nil
}

func coerceCollection(schema *Schema, f *Field, value any) (any, error) {
	var elems []any
	switch v := value.(type) {
	case []any:
		elems = v
	case []string:
		for _, s := range v {
			elems = append(elems, s)
		}
	case []float64:
		for _, x := range v {
			elems = append(elems, x)
		}
	case []*Record:
		for _, m := range v {
			elems = append(elems, m)
		}
	default:
		return nil, fmt.Errorf("%w: %T for %s field", ErrInvalidValue, value, f.Kind)
	}

	out := make([]any, 0, len(elems))
	for _, e := range elems {
		v, err := coerce(schema, f.Elem, e)
		if err != nil {
			return nil, err
		}
		if isEmpty(v) {
			continue
		}
		if f.Kind == KindSet && containsValue(out, v) {
			continue
		}
		out = append(out, v)
	}
	if f.Kind == KindSet {
		sortValues(out)
	}
	return out, nil
}

func containsValue(vals []any, v any) bool {
	for _, e := range vals {
		if equalValues(e, v) {
			return true
		}
	}
	return false
}

// sortValues orders set elements: numbers numerically, everything else by
// its primitive string form.
func sortValues(vals []any) {
	sort.SliceStable(vals, func(i, j int) bool {
		a, aok := vals[i].(float64)
		b, bok := vals[j].(float64)
		if aok && bok {
			return a < b
		}
		return primitiveKey(vals[i]) < primitiveKey(vals[j])
	})
}

func primitiveKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *Record:
		b, err := x.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	case units.Unit:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []float64:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case units.Unit:
		return x.IsZero()
	case *Record:
		return x == nil || x.IsEmpty()
	}
	return false
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case units.Unit:
		y, ok := b.(units.Unit)
		return ok && x.Equal(y)
	case []float64:
		y, ok := b.([]float64)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.Clone()
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// nestedRecords returns the records held by a model or collection value.
func nestedRecords(v any) []*Record {
	switch x := v.(type) {
	case *Record:
		if x == nil {
			return nil
		}
		return []*Record{x}
	case []any:
		var out []*Record
		for _, e := range x {
			if m, ok := e.(*Record); ok && m != nil {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
