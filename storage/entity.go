// Package storage persists resolved records in a NATS JetStream key/value
// bucket.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semchem/record"
)

// EntityType is the kind of stored entity.
type EntityType string

// EntityTypeRecord marks resolved records.
const EntityTypeRecord EntityType = "record"

// EntityID is a typed entity identifier such as "record:<uuid>".
type EntityID struct {
	Type EntityType
	ID   string
}

// String returns the string representation of the entity ID.
func (e EntityID) String() string {
	return fmt.Sprintf("%s:%s", e.Type, e.ID)
}

// ParseEntityID parses an entity ID string into its components.
func ParseEntityID(s string) (EntityID, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return EntityID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	if EntityType(kind) != EntityTypeRecord {
		return EntityID{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidID, kind)
	}
	return EntityID{Type: EntityTypeRecord, ID: id}, nil
}

// NewEntityID generates a new unique record ID.
func NewEntityID() EntityID {
	return EntityID{Type: EntityTypeRecord, ID: uuid.NewString()}
}

// StoredRecord is the JSON value kept for one record.
type StoredRecord struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Schema     string         `json:"schema"`
	Record     map[string]any `json:"record"`
	StoredAt   time.Time      `json:"stored_at"`
}

// NewStoredRecord wraps rec for storage under a fresh ID.
func NewStoredRecord(docID string, rec *record.Record) *StoredRecord {
	return &StoredRecord{
		ID:         NewEntityID().String(),
		DocumentID: docID,
		Schema:     rec.Schema().Name(),
		Record:     rec.Serialize(true),
		StoredAt:   time.Now().UTC(),
	}
}

// Decode rebuilds the record using the schemas in reg, or the global
// schema registry when reg is nil.
func (s *StoredRecord) Decode(reg *record.Registry) (*record.Record, error) {
	if reg == nil {
		reg = record.Global()
	}
	rec, err := reg.FromPrimitive(s.Record)
	if err != nil {
		return rec, fmt.Errorf("decode %s: %w", s.ID, err)
	}
	return rec, nil
}
