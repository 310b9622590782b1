package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Registry maps schema names to schemas.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds schemas. Registering a different schema under a name that
// is already taken is an error; registering the same schema twice is not.
func (r *Registry) Register(schemas ...*Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range schemas {
		if existing, ok := r.schemas[s.name]; ok && existing != s {
			return fmt.Errorf("schema %q already registered", s.name)
		}
		r.schemas[s.name] = s
	}
	return nil
}

// Lookup returns the schema with the given name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the registered schemas sorted by name.
func (r *Registry) List() []*Schema {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Schema, len(names))
	for i, name := range names {
		out[i] = r.schemas[name]
	}
	return out
}

// FromPrimitive rebuilds a record from a wrapped {SchemaName: {...}} map,
// resolving the schema by name.
func (r *Registry) FromPrimitive(data map[string]any) (*Record, error) {
	if len(data) != 1 {
		return nil, fmt.Errorf("%w: expected one schema key, got %d", ErrInvalidValue, len(data))
	}
	for name, fields := range data {
		schema, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: schema %q", ErrUnknownField, name)
		}
		m, ok := toStringMap(fields)
		if !ok {
			return nil, fmt.Errorf("%w: %s fields are %T", ErrInvalidValue, name, fields)
		}
		return FromPrimitive(schema, m)
	}
	return nil, nil
}

// MarshalJSON describes every registered schema.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.List())
}
