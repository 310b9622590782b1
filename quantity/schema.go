package quantity

import (
	"sync"

	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

// Field names shared by every quantity schema.
const (
	FieldRawValue  = "raw_value"
	FieldRawUnits  = "raw_units"
	FieldValue     = "value"
	FieldUnits     = "units"
	FieldError     = "error"
	FieldSpecifier = "specifier"
)

// Fields returns the base quantity fields. Extra fields passed to NewSchema
// with the same name replace them.
func Fields() []*record.Field {
	return []*record.Field{
		record.StringField(FieldRawValue, record.Required()),
		record.StringField(FieldRawUnits, record.Required()),
		record.RangeField(FieldValue),
		record.UnitField(FieldUnits),
		record.FloatField(FieldError),
		record.StringField(FieldSpecifier, record.Updatable(""), record.IgnoreWhenMerging()),
	}
}

// NewSchema builds a quantity schema of dimension dim.
func NewSchema(name string, dim units.Dimension, extra ...*record.Field) *record.Schema {
	return record.NewDimensionedSchema(name, dim, append(Fields(), extra...)...)
}

// Standard quantity schemas.
var (
	TemperatureModel   = NewSchema("TemperatureModel", units.Temperature)
	LengthModel        = NewSchema("LengthModel", units.Length)
	TimeModel          = NewSchema("TimeModel", units.Time)
	MassModel          = NewSchema("MassModel", units.Mass)
	DimensionlessModel = NewSchema("DimensionlessModel", units.Dimensionless)
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*record.Schema{
		units.Temperature.Key():   TemperatureModel,
		units.Length.Key():        LengthModel,
		units.Time.Key():          TimeModel,
		units.Mass.Key():          MassModel,
		units.Dimensionless.Key(): DimensionlessModel,
	}
)

// SchemaFor returns the quantity schema for dim: a standard schema when one
// exists, otherwise a schema built on first use and cached.
func SchemaFor(dim units.Dimension) *record.Schema {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[dim.Key()]; ok {
		return s
	}
	s := NewSchema("QuantityModel("+dim.String()+")", dim)
	schemaCache[dim.Key()] = s
	return s
}

// Dimension returns the declared dimension of a quantity record.
func Dimension(r *record.Record) (units.Dimension, error) {
	dim, ok := r.Schema().Dimensions()
	if !ok {
		return units.Dimension{}, ErrNotQuantity
	}
	return dim, nil
}

// IsQuantity reports whether r has a quantity schema.
func IsQuantity(r *record.Record) bool {
	_, ok := r.Schema().Dimensions()
	return ok
}
