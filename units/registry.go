package units

import (
	"fmt"
	"regexp"
	"sync"
)

// Symbol maps a recognizer pattern to the unit definition it denotes.
type Symbol struct {
	Pattern    *regexp.Regexp
	Definition *Definition
}

// baseNone keys the symbol table used for dimensionless expressions.
const baseNone BaseDimension = ""

// Registry holds the unit symbol tables per base dimension and the
// power-of-ten prefixes recognized in front of a symbol.
type Registry struct {
	mu       sync.RWMutex
	symbols  map[BaseDimension][]Symbol
	prefixes map[string]float64
	names    map[string]*Definition
}

// DefaultRegistry is the global registry with the standard unit symbols.
var DefaultRegistry = NewDefaultRegistry()

// NewRegistry creates an empty registry with the standard prefixes.
func NewRegistry() *Registry {
	return &Registry{
		symbols: make(map[BaseDimension][]Symbol),
		names: map[string]*Definition{
			DimensionlessDefinition.Name: DimensionlessDefinition,
		},
		prefixes: map[string]float64{
			"T": 12,
			"G": 9,
			"M": 6,
			"k": 3,
			"c": -2,
			"m": -3,
			"μ": -6,
			"n": -9,
			"p": -12,
		},
	}
}

// NewDefaultRegistry creates a registry with the standard unit symbols.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(BaseLength, `m(?:eters?|etres?)?`, MeterDefinition)
	r.MustRegister(BaseLength, `miles?`, MileDefinition)
	r.MustRegister(BaseLength, `Å|[Aa]ngstroms?`, AngstromDefinition)
	r.MustRegister(BaseLength, `[Ll](?:it(?:er|re)s?)?`, LiterDefinition)

	r.MustRegister(BaseTime, `s(?:ec(?:onds?|s)?)?`, SecondDefinition)
	r.MustRegister(BaseTime, `min(?:utes?|s)?`, MinuteDefinition)
	r.MustRegister(BaseTime, `h(?:ours?|rs?)?`, HourDefinition)
	r.MustRegister(BaseTime, `d(?:ays?)?`, DayDefinition)
	r.MustRegister(BaseTime, `y(?:ears?|rs?)?`, YearDefinition)

	r.MustRegister(BaseTemperature, `°?K(?:elvin)?`, KelvinDefinition)
	r.MustRegister(BaseTemperature, `[°º]C|[Cc]elsius|C`, CelsiusDefinition)
	r.MustRegister(BaseTemperature, `[°º]F|[Ff]ahrenheit|F`, FahrenheitDefinition)

	r.MustRegister(BaseMass, `g(?:rams?)?`, GramDefinition)
	r.MustRegister(BaseMass, `lbs?|pounds?`, PoundDefinition)
	r.MustRegister(BaseMass, `t(?:onnes?)?`, TonneDefinition)

	r.MustRegister(baseNone, `%|percent`, PercentDefinition)

	return r
}

// Register adds a symbol pattern for base. Patterns are matched anchored at
// the current position with leftmost-longest semantics.
func (r *Registry) Register(base BaseDimension, pattern string, def *Definition) error {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return fmt.Errorf("compile unit pattern %q: %w", pattern, err)
	}
	re.Longest()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols[base] = append(r.symbols[base], Symbol{Pattern: re, Definition: def})
	r.names[def.Name] = def
	return nil
}

// Definition returns the registered definition with the given name.
func (r *Registry) Definition(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.names[name]
	return def, ok
}

// MustRegister is like Register but panics on an invalid pattern.
func (r *Registry) MustRegister(base BaseDimension, pattern string, def *Definition) {
	if err := r.Register(base, pattern, def); err != nil {
		panic(err)
	}
}

// RegisterDimensionless adds a symbol for dimensionless expressions.
func (r *Registry) RegisterDimensionless(pattern string, def *Definition) error {
	return r.Register(baseNone, pattern, def)
}

// SetPrefix adds or replaces a power-of-ten prefix.
func (r *Registry) SetPrefix(prefix string, exponent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefixes[prefix] = exponent
}

// Prefix returns the exponent for a prefix.
func (r *Registry) Prefix(prefix string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.prefixes[prefix]
	return exp, ok
}

// Symbols returns the symbol table for a dimension: the union of the tables
// of its base dimensions followed by the dimensionless table.
func (r *Registry) Symbols(dim Dimension) []Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Symbol
	for _, base := range dim.Bases() {
		out = append(out, r.symbols[base]...)
	}
	return append(out, r.symbols[baseNone]...)
}
