package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var canonicalTerm = regexp.MustCompile(`^(?:\(10\^([-+0-9.eE]+)\) \* )?(?:\(10\^([-+0-9.eE]+)\) \* )?([A-Za-z][A-Za-z0-9_]*)(?:\^\(([-+0-9.eE]+)\))?`)

// ParseCanonical parses the canonical form produced by Unit.String using the
// default registry.
func ParseCanonical(s string) (Unit, error) {
	return DefaultRegistry.ParseCanonical(s)
}

// ParseCanonical parses the canonical form produced by Unit.String, such as
// "(10^-3) * Meter^(2) Second^(-1)". A single power-of-ten in front of the
// first term of a composite unit belongs to that term.
func (r *Registry) ParseCanonical(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unit{}, nil
	}

	var (
		terms    []Power
		outer    float64
		composed bool
	)
	for rest := s; rest != ""; rest = strings.TrimLeft(rest, " ") {
		m := canonicalTerm.FindStringSubmatch(rest)
		if m == nil {
			return Unit{}, fmt.Errorf("parse unit %q: unexpected %q", s, rest)
		}
		def, ok := r.Definition(m[3])
		if !ok {
			return Unit{}, fmt.Errorf("parse unit %q: unknown unit %q", s, m[3])
		}

		var inner float64
		var err error
		switch {
		case m[1] != "" && m[2] != "":
			if outer, err = parseCanonicalNumber(m[1]); err != nil {
				return Unit{}, fmt.Errorf("parse unit %q: %w", s, err)
			}
			inner, err = parseCanonicalNumber(m[2])
		case m[1] != "":
			inner, err = parseCanonicalNumber(m[1])
		}
		if err != nil {
			return Unit{}, fmt.Errorf("parse unit %q: %w", s, err)
		}

		if m[4] == "" {
			if len(terms) > 0 || len(m[0]) != len(rest) {
				return Unit{}, fmt.Errorf("parse unit %q: leaf unit %q inside composite", s, m[3])
			}
			return New(def, inner), nil
		}
		power, err := parseCanonicalNumber(m[4])
		if err != nil {
			return Unit{}, fmt.Errorf("parse unit %q: %w", s, err)
		}
		terms = append(terms, Power{Unit: New(def, inner), Power: power})
		composed = true
		rest = rest[len(m[0]):]
	}
	if !composed {
		return Unit{}, fmt.Errorf("parse unit %q: no units", s)
	}
	return compose(terms, outer), nil
}

func parseCanonicalNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return v, nil
}
