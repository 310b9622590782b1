package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ExtractUnits resolves a free text unit expression into a Unit using the
// default registry. See Registry.ExtractUnits.
func ExtractUnits(s string, expected Dimension, strict bool) (Unit, error) {
	return DefaultRegistry.ExtractUnits(s, expected, strict)
}

// ExtractUnits resolves a unit expression such as "Kh2/(km/s)-1/2" into a
// single composite Unit.
//
// Symbols are looked up in the table for expected. A number directly after
// a symbol or a closing bracket is the power of that symbol or group, a
// leading "/" negates the powers of the following run or group, and
// characters left in front of a symbol are read as a power-of-ten prefix.
// A prefix letter that is also a symbol ("m" in "mg") is read as a symbol
// first and as a prefix when only that reading yields expected. An
// expression with no recognized symbols yields DimensionlessUnit. When
// strict is set, a result whose dimension differs from expected is rejected
// with a *DimensionError.
func (r *Registry) ExtractUnits(s string, expected Dimension, strict bool) (Unit, error) {
	tokens := tokenizeUnits(NormalizeUnitString(s))
	symbols := r.Symbols(expected)

	result, err := r.assemble(tokens, symbols, false)
	if err == nil && result.Dimension().Equal(expected) {
		return result, nil
	}
	if alt, altErr := r.assemble(tokens, symbols, true); altErr == nil && alt.Dimension().Equal(expected) {
		return alt, nil
	}

	if err != nil {
		return Unit{}, fmt.Errorf("extract units from %q: %w", s, err)
	}
	if strict {
		return Unit{}, &DimensionError{Expected: expected, Got: result.Dimension()}
	}
	return result, nil
}

func (r *Registry) assemble(tokens []unitToken, symbols []Symbol, preferPrefix bool) (Unit, error) {
	p := &unitParser{
		registry:     r,
		symbols:      symbols,
		tokens:       tokens,
		preferPrefix: preferPrefix,
	}
	result := DimensionlessUnit()
	for _, f := range p.parseGroup(0) {
		var err error
		result, err = result.Mul(f.unit.Pow(f.power))
		if err != nil {
			return Unit{}, err
		}
	}
	return result, nil
}

var unitReplacer = strings.NewReplacer(
	"−", "-", "–", "-", "—", "-", "‐", "-",
	"·", " ", "•", " ", "×", " ", "*", " ", "⋅", " ",
	"^", "",
)

// NormalizeUnitString folds compatibility characters (superscript digits,
// the micro sign, typographic minus) into the forms the parser expects.
func NormalizeUnitString(s string) string {
	return strings.TrimSpace(unitReplacer.Replace(norm.NFKC.String(s)))
}

type unitTokenKind int

const (
	tokenRun unitTokenKind = iota
	tokenNumber
	tokenSlash
	tokenOpen
	tokenClose
	tokenSpace
)

type unitToken struct {
	kind unitTokenKind
	text string
}

var powerPattern = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?`)

func tokenizeUnits(s string) []unitToken {
	var tokens []unitToken
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '/':
			tokens = append(tokens, unitToken{kind: tokenSlash, text: "/"})
			i++
		case c == '(' || c == '[' || c == '{':
			tokens = append(tokens, unitToken{kind: tokenOpen, text: "("})
			i++
		case c == ')' || c == ']' || c == '}':
			tokens = append(tokens, unitToken{kind: tokenClose, text: ")"})
			i++
		case c == ' ' || c == '\t' || c == '.':
			tokens = append(tokens, unitToken{kind: tokenSpace})
			i++
		case isNumberStart(s, i):
			m := powerPattern.FindString(s[i:])
			tokens = append(tokens, unitToken{kind: tokenNumber, text: m})
			i += len(m)
		case c == '-' || c == '+':
			i++
		default:
			start := i
			for i < len(s) && isRunByte(s, i) {
				_, size := utf8.DecodeRuneInString(s[i:])
				i += size
			}
			tokens = append(tokens, unitToken{kind: tokenRun, text: s[start:i]})
		}
	}
	return tokens
}

func isNumberStart(s string, i int) bool {
	c := s[i]
	if c >= '0' && c <= '9' {
		return true
	}
	return (c == '-' || c == '+') && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'
}

func isRunByte(s string, i int) bool {
	switch c := s[i]; {
	case c >= '0' && c <= '9':
		return false
	case strings.IndexByte("/()[]{} \t.-+", c) >= 0:
		return false
	}
	return true
}

type unitFactor struct {
	unit  Unit
	power float64
}

type unitParser struct {
	registry     *Registry
	symbols      []Symbol
	tokens       []unitToken
	pos          int
	preferPrefix bool
}

func (p *unitParser) peek() (unitToken, bool) {
	if p.pos >= len(p.tokens) {
		return unitToken{}, false
	}
	return p.tokens[p.pos], true
}

// parseGroup reads factors until a closing bracket or the end of input.
// Closing brackets without a matching opening one are skipped.
func (p *unitParser) parseGroup(depth int) []unitFactor {
	var factors []unitFactor
	negate := false
	for {
		tok, ok := p.peek()
		if !ok {
			return factors
		}
		if tok.kind == tokenClose {
			if depth > 0 {
				return factors
			}
			p.pos++
			continue
		}
		p.pos++

		switch tok.kind {
		case tokenSlash:
			negate = true
			continue
		case tokenOpen:
			inner := p.parseGroup(depth + 1)
			if next, ok := p.peek(); ok && next.kind == tokenClose {
				p.pos++
			}
			power := p.parsePower() * sign(negate)
			for _, f := range inner {
				factors = append(factors, unitFactor{unit: f.unit, power: f.power * power})
			}
		case tokenRun:
			matched := p.matchRun(tok.text)
			power := p.parsePower()
			for i, u := range matched {
				pw := 1.0
				if i == len(matched)-1 {
					pw = power
				}
				factors = append(factors, unitFactor{unit: u, power: pw * sign(negate)})
			}
		case tokenNumber, tokenSpace:
			// A number not attached to a symbol carries no unit.
			continue
		}
		negate = false
	}
}

func sign(negate bool) float64 {
	if negate {
		return -1
	}
	return 1
}

// parsePower consumes an optional power token; fractions like "-1/2" are
// summed from their parts.
func (p *unitParser) parsePower() float64 {
	tok, ok := p.peek()
	if !ok || tok.kind != tokenNumber {
		return 1
	}
	p.pos++
	return parsePowerText(tok.text)
}

func parsePowerText(text string) float64 {
	num, den, isFraction := strings.Cut(text, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 1
	}
	if !isFraction {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return n
	}
	return n / d
}

type symbolMatch struct {
	start, end int
	def        *Definition
}

// matchRun splits a run of symbol characters into prefixed leaf units.
func (p *unitParser) matchRun(run string) []Unit {
	var matches []symbolMatch
	for i := 0; i < len(run); {
		if m, ok := p.longestAt(run, i); ok {
			matches = append(matches, m)
			i = m.end
			continue
		}
		_, size := utf8.DecodeRuneInString(run[i:])
		i += size
	}

	var out []Unit
	prefixStart := 0
	for i, m := range matches {
		text := run[m.start:m.end]
		if i+1 < len(matches) {
			next := matches[i+1]
			repeated := next.def == m.def && run[next.start:next.end] == text
			if next.start == m.end && (repeated || p.preferPrefix) {
				if _, ok := p.registry.Prefix(text); ok && m.start == prefixStart {
					// "mm": the first symbol is the prefix of the second.
					continue
				}
			}
		}
		exp := p.prefixExponent(run[prefixStart:m.start])
		out = append(out, New(m.def, exp))
		prefixStart = m.end
	}
	return out
}

func (p *unitParser) longestAt(run string, i int) (symbolMatch, bool) {
	best := symbolMatch{start: i, end: i}
	for _, sym := range p.symbols {
		loc := sym.Pattern.FindStringIndex(run[i:])
		if loc == nil || loc[1] == 0 {
			continue
		}
		if i+loc[1] > best.end {
			best = symbolMatch{start: i, end: i + loc[1], def: sym.Definition}
		}
	}
	return best, best.def != nil
}

// prefixExponent reads leftover characters as a power-of-ten prefix. When the
// whole leftover is not a prefix its last character is tried.
func (p *unitParser) prefixExponent(prefix string) float64 {
	if prefix == "" {
		return 0
	}
	if exp, ok := p.registry.Prefix(prefix); ok {
		return exp
	}
	last, _ := utf8.DecodeLastRuneInString(prefix)
	if exp, ok := p.registry.Prefix(string(last)); ok {
		return exp
	}
	return 0
}
