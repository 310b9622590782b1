package ingest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/semchem/quantity"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

// MismatchPolicy decides what happens to a candidate whose units have the
// wrong dimension or cannot be combined.
type MismatchPolicy string

const (
	// MismatchNull leaves the units field empty and keeps the candidate.
	MismatchNull MismatchPolicy = "null"
	// MismatchWarn is MismatchNull with a logged warning.
	MismatchWarn MismatchPolicy = "warn"
	// MismatchReject drops the candidate.
	MismatchReject MismatchPolicy = "reject"
)

// Valid reports whether p is a known policy.
func (p MismatchPolicy) Valid() bool {
	switch p {
	case MismatchNull, MismatchWarn, MismatchReject:
		return true
	}
	return false
}

// ErrUnknownSchema is returned for candidates naming an unregistered schema.
var ErrUnknownSchema = errors.New("unknown schema")

// Item is a record built from a candidate, with its position.
type Item struct {
	Record   *record.Record
	Position record.Position
}

// Builder turns candidates into records.
type Builder struct {
	schemas  *record.Registry
	units    *units.Registry
	strict   bool
	mismatch MismatchPolicy
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithUnitRegistry sets the unit symbol registry.
func WithUnitRegistry(r *units.Registry) BuilderOption {
	return func(b *Builder) { b.units = r }
}

// WithStrictUnits rejects unit strings of the wrong dimension during
// parsing instead of after it.
func WithStrictUnits(strict bool) BuilderOption {
	return func(b *Builder) { b.strict = strict }
}

// WithMismatchPolicy sets the dimension mismatch policy.
func WithMismatchPolicy(p MismatchPolicy) BuilderOption {
	return func(b *Builder) { b.mismatch = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder resolving schemas in schemas.
func NewBuilder(schemas *record.Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		schemas:  schemas,
		units:    units.DefaultRegistry,
		mismatch: MismatchNull,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build returns a record for every usable candidate of doc, in document
// order. Candidates rejected by the mismatch policy are skipped.
func (b *Builder) Build(doc *Document) ([]Item, error) {
	items := make([]Item, 0, len(doc.Candidates))
	for i, c := range doc.Candidates {
		r, err := b.BuildCandidate(c)
		if err == nil {
			items = append(items, Item{Record: r, Position: c.Position})
			continue
		}
		if errors.Is(err, quantity.ErrNoValue) {
			b.logger.Warn("Skipped candidate without a value",
				"document", doc.ID,
				"candidate", i,
				"schema", c.Schema,
				"error", err)
			continue
		}
		if !unusableUnits(err) {
			return nil, fmt.Errorf("document %s candidate %d: %w", doc.ID, i, err)
		}

		switch b.mismatch {
		case MismatchReject:
			b.logger.Info("Rejected candidate with unusable units",
				"document", doc.ID,
				"candidate", i,
				"schema", c.Schema,
				"error", err)
			continue
		case MismatchWarn:
			b.logger.Warn("Dropped unusable units",
				"document", doc.ID,
				"candidate", i,
				"schema", c.Schema,
				"error", err)
		}
		if r != nil {
			items = append(items, Item{Record: r, Position: c.Position})
		}
	}
	return items, nil
}

// BuildCandidate builds one record. Quantity candidates with a raw value
// are populated from their raw value and raw units. Units of the wrong
// dimension, or units the algebra cannot combine, are returned as an error
// together with the record holding every other field.
func (b *Builder) BuildCandidate(c Candidate) (*record.Record, error) {
	schema, ok := b.schemas.Lookup(c.Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, c.Schema)
	}

	rest := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		rest[k] = v
	}
	rawValue, hasRaw := c.Fields[quantity.FieldRawValue].(string)
	_, dimensioned := schema.Dimensions()
	populate := dimensioned && hasRaw
	var rawUnits string
	if populate {
		rawUnits, _ = c.Fields[quantity.FieldRawUnits].(string)
		delete(rest, quantity.FieldRawValue)
		delete(rest, quantity.FieldRawUnits)
	}

	r, mismatch := record.FromPrimitive(schema, rest)
	if r == nil {
		return nil, mismatch
	}
	r.Method = c.Method

	if populate {
		err := quantity.PopulateWith(b.units, r, rawValue, rawUnits, b.strict)
		if err != nil && !unusableUnits(err) {
			return nil, err
		}
		mismatch = errors.Join(mismatch, err)
	}
	return r, mismatch
}

// unusableUnits reports whether err only affects the units field.
func unusableUnits(err error) bool {
	return units.IsDimensionMismatch(err) || errors.Is(err, units.ErrUnsupportedAlgebra)
}
