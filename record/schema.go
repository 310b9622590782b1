package record

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/semchem/units"
)

// Schema is an immutable, ordered field table shared by all records of one
// type. Records are of the same type exactly when they share a *Schema.
type Schema struct {
	name          string
	fields        []*Field
	index         map[string]int
	dimensions    units.Dimension
	hasDimensions bool
}

// NewSchema builds a schema. A later field with the same name replaces an
// earlier one in place, which lets derived schemas override base fields.
// It panics on malformed field declarations.
func NewSchema(name string, fields ...*Field) *Schema {
	s := &Schema{name: name, index: make(map[string]int)}
	for _, f := range fields {
		if err := validateField(f); err != nil {
			panic(fmt.Sprintf("record: schema %s: %v", name, err))
		}
		if i, ok := s.index[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// NewDimensionedSchema builds a schema whose unit fields must carry dim.
func NewDimensionedSchema(name string, dim units.Dimension, fields ...*Field) *Schema {
	s := NewSchema(name, fields...)
	s.dimensions = dim
	s.hasDimensions = true
	return s
}

func validateField(f *Field) error {
	if f == nil || f.Name == "" {
		return fmt.Errorf("field without a name")
	}
	switch f.Kind {
	case KindModel:
		if f.Model == nil {
			return fmt.Errorf("model field %s has no schema", f.Name)
		}
	case KindList, KindSet:
		if f.Elem == nil {
			return fmt.Errorf("%s field %s has no element", f.Kind, f.Name)
		}
		if f.Elem.Kind.isCollection() {
			return fmt.Errorf("%s field %s has nested collections", f.Kind, f.Name)
		}
	case KindString, KindFloat, KindBool, KindRange, KindUnit:
	default:
		return fmt.Errorf("field %s has unknown kind %d", f.Name, f.Kind)
	}
	return nil
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Dimensions returns the declared dimension of a quantity schema.
func (s *Schema) Dimensions() (units.Dimension, bool) {
	return s.dimensions, s.hasDimensions
}

// New returns an empty record of this schema with defaults applied.
func (s *Schema) New() *Record {
	return New(s)
}

type fieldDescription struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	Elem              string `json:"elem,omitempty"`
	Model             string `json:"model,omitempty"`
	Required          bool   `json:"required,omitempty"`
	Contextual        bool   `json:"contextual,omitempty"`
	ContextualRange   string `json:"contextual_range,omitempty"`
	Updatable         bool   `json:"updatable,omitempty"`
	Binding           bool   `json:"binding,omitempty"`
	IgnoreWhenMerging bool   `json:"ignore_when_merging,omitempty"`
}

// MarshalJSON describes the schema and its field flags.
func (s *Schema) MarshalJSON() ([]byte, error) {
	fields := make([]fieldDescription, len(s.fields))
	for i, f := range s.fields {
		d := fieldDescription{
			Name:              f.Name,
			Kind:              f.Kind.String(),
			Required:          f.Required,
			Contextual:        f.Contextual,
			Updatable:         f.Updatable,
			Binding:           f.Binding,
			IgnoreWhenMerging: f.IgnoreWhenMerging,
		}
		if f.Contextual {
			d.ContextualRange = f.ContextualRange.String()
		}
		if f.Elem != nil {
			d.Elem = f.Elem.Kind.String()
		}
		if f.Model != nil {
			d.Model = f.Model.name
		}
		fields[i] = d
	}

	out := struct {
		Name       string             `json:"name"`
		Dimensions string             `json:"dimensions,omitempty"`
		Fields     []fieldDescription `json:"fields"`
	}{Name: s.name, Fields: fields}
	if s.hasDimensions {
		out.Dimensions = s.dimensions.String()
	}
	return json.Marshal(out)
}
