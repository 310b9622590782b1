package record

// Field describes one declared field of a schema.
type Field struct {
	Name string
	Kind Kind

	// Elem describes the elements of a list or set field.
	Elem *Field
	// Model is the schema of a model field or of model elements.
	Model *Schema

	Default any

	Required          bool
	Contextual        bool
	ContextualRange   ContextualRange
	Updatable         bool
	Binding           bool
	IgnoreWhenMerging bool
	// Null serializes the field even when it is empty.
	Null bool

	// Pattern is the base parse expression of an updatable field.
	Pattern string
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// Required marks a field as needed for a complete record.
func Required() FieldOption {
	return func(f *Field) { f.Required = true }
}

// Contextual lets the field be filled from anywhere in the document.
func Contextual() FieldOption {
	return ContextualWithin(DocumentRange())
}

// ContextualWithin lets the field be filled from context no further away
// than r.
func ContextualWithin(r ContextualRange) FieldOption {
	return func(f *Field) {
		f.Contextual = true
		f.ContextualRange = r
	}
}

// Binding requires the field value to agree across nested records.
func Binding() FieldOption {
	return func(f *Field) { f.Binding = true }
}

// Updatable marks the field parse expression as extensible per document.
func Updatable(pattern string) FieldOption {
	return func(f *Field) {
		f.Updatable = true
		f.Pattern = pattern
	}
}

// IgnoreWhenMerging stops conflicts in this field from blocking a merge.
func IgnoreWhenMerging() FieldOption {
	return func(f *Field) { f.IgnoreWhenMerging = true }
}

// Null serializes the field as null when empty.
func Null() FieldOption {
	return func(f *Field) { f.Null = true }
}

// Default sets the value given to new records.
func Default(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

func newField(name string, kind Kind, opts []FieldOption) *Field {
	f := &Field{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// StringField declares a string field.
func StringField(name string, opts ...FieldOption) *Field {
	return newField(name, KindString, opts)
}

// FloatField declares a float field.
func FloatField(name string, opts ...FieldOption) *Field {
	return newField(name, KindFloat, opts)
}

// BoolField declares a bool field.
func BoolField(name string, opts ...FieldOption) *Field {
	return newField(name, KindBool, opts)
}

// RangeField declares a scalar-or-range numeric field.
func RangeField(name string, opts ...FieldOption) *Field {
	return newField(name, KindRange, opts)
}

// UnitField declares a unit field. On a schema with dimensions, assigned
// units must have that dimension.
func UnitField(name string, opts ...FieldOption) *Field {
	return newField(name, KindUnit, opts)
}

// ModelField declares a nested record field.
func ModelField(name string, model *Schema, opts ...FieldOption) *Field {
	f := newField(name, KindModel, opts)
	f.Model = model
	return f
}

// ListField declares an ordered list of elem values.
func ListField(name string, elem *Field, opts ...FieldOption) *Field {
	f := newField(name, KindList, opts)
	f.Elem = elem
	if elem != nil {
		f.Model = elem.Model
	}
	return f
}

// SetField declares a deduplicated, sorted collection of elem values.
func SetField(name string, elem *Field, opts ...FieldOption) *Field {
	f := newField(name, KindSet, opts)
	f.Elem = elem
	if elem != nil {
		f.Model = elem.Model
	}
	return f
}

// holdsModels reports whether the field value is or contains records.
func (f *Field) holdsModels() bool {
	return f.Kind == KindModel || (f.Kind.isCollection() && f.Elem != nil && f.Elem.Kind == KindModel)
}

// eligible reports whether information found at distance may fill f.
func (f *Field) eligible(distance ContextualRange) bool {
	return f.Contextual && distance.LessOrEqual(f.ContextualRange)
}
