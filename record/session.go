package record

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Session holds the per-document extensions of updatable field
// expressions. A definition found in one document ("the melting point,
// Tm, ...") extends the expression of an updatable field for the rest of
// that document only.
type Session struct {
	mu         sync.Mutex
	extensions map[sessionKey][]string
	compiled   map[sessionKey]*regexp.Regexp
}

type sessionKey struct {
	schema *Schema
	field  string
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		extensions: make(map[sessionKey][]string),
		compiled:   make(map[sessionKey]*regexp.Regexp),
	}
}

func (s *Session) updatable(schema *Schema, field string) (*Field, error) {
	f, ok := schema.Field(field)
	if !ok {
		return nil, &FieldError{Schema: schema.name, Path: field, Err: ErrUnknownField}
	}
	if !f.Updatable {
		return nil, &FieldError{Schema: schema.name, Path: field, Err: ErrNotUpdatable}
	}
	return f, nil
}

// Update adds a literal definition to the expression of an updatable field.
func (s *Session) Update(schema *Schema, field, definition string) error {
	if _, err := s.updatable(schema, field); err != nil {
		return err
	}
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{schema: schema, field: field}
	for _, d := range s.extensions[key] {
		if d == definition {
			return nil
		}
	}
	s.extensions[key] = append(s.extensions[key], definition)
	delete(s.compiled, key)
	return nil
}

// Definitions returns the definitions added for a field.
func (s *Session) Definitions(schema *Schema, field string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	defs := s.extensions[sessionKey{schema: schema, field: field}]
	out := make([]string, len(defs))
	copy(out, defs)
	return out
}

// Expression returns the current anchored expression of an updatable field:
// its base pattern extended with every definition added in this session.
func (s *Session) Expression(schema *Schema, field string) (*regexp.Regexp, error) {
	f, err := s.updatable(schema, field)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey{schema: schema, field: field}
	if re, ok := s.compiled[key]; ok {
		return re, nil
	}

	var alts []string
	if f.Pattern != "" {
		alts = append(alts, f.Pattern)
	}
	for _, d := range s.extensions[key] {
		alts = append(alts, regexp.QuoteMeta(d))
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("%s.%s: no expression", schema.name, field)
	}
	re, err := regexp.Compile(`^(?:` + strings.Join(alts, "|") + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile %s.%s expression: %w", schema.name, field, err)
	}
	s.compiled[key] = re
	return re, nil
}

// Match reports whether text matches the field expression, and whether the
// match depends on a definition added in this session.
func (s *Session) Match(schema *Schema, field, text string) (matched, viaUpdate bool, err error) {
	re, err := s.Expression(schema, field)
	if err != nil {
		return false, false, err
	}
	if !re.MatchString(text) {
		return false, false, nil
	}

	f, _ := schema.Field(field)
	if f.Pattern != "" {
		base, err := regexp.Compile(`^(?:` + f.Pattern + `)$`)
		if err == nil && base.MatchString(text) {
			return true, false, nil
		}
	}
	return true, true, nil
}

// Reset reverts every expression to its base pattern.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extensions = make(map[sessionKey][]string)
	s.compiled = make(map[sessionKey]*regexp.Regexp)
}
