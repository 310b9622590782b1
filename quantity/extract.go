package quantity

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const number = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`

var (
	timesTen       = regexp.MustCompile(`\s*[x×]\s*10\^?\s*([-+]?\d+)`)
	thousands      = regexp.MustCompile(`(\d),(\d{3})\b`)
	decimalComma   = regexp.MustCompile(`(\d),(\d)`)
	scalarPattern  = regexp.MustCompile(`^(` + number + `)$`)
	rangePattern   = regexp.MustCompile(`^(` + number + `)(?:-|to|~)(` + number + `)$`)
	numberPattern  = regexp.MustCompile(number)
	errorSeparator = regexp.MustCompile(`±|\+/-|\+-`)
)

var valueReplacer = strings.NewReplacer(
	"−", "-", "–", "-", "—", "-", "‐", "-", "‒", "-",
	" ", "", "\t", "", "\u00a0", "", "\u2009", "",
)

func normalizeValue(raw string) string {
	s := norm.NFKC.String(raw)
	s = timesTen.ReplaceAllString(s, "e$1")
	for thousands.MatchString(s) {
		s = thousands.ReplaceAllString(s, "$1$2")
	}
	s = decimalComma.ReplaceAllString(s, "$1.$2")
	return valueReplacer.Replace(s)
}

// ExtractValue reads a scalar or a range from a raw value string such as
// "100", "1.5e3", "1,200", "100-120", "100 to 120" or "5.2 ± 0.1". Ranges
// are returned sorted ascending.
func ExtractValue(raw string) ([]float64, error) {
	s := normalizeValue(raw)
	if loc := errorSeparator.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if s == "" {
		return nil, fmt.Errorf("%w in %q", ErrNoValue, raw)
	}

	var texts []string
	if m := scalarPattern.FindStringSubmatch(s); m != nil {
		texts = m[1:]
	} else if m := rangePattern.FindStringSubmatch(s); m != nil {
		texts = m[1:]
	} else {
		texts = numberPattern.FindAllString(s, -1)
		if len(texts) > 2 {
			return nil, fmt.Errorf("%w in %q: %d numbers", ErrNoValue, raw, len(texts))
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoValue, raw)
	}

	values := make([]float64, 0, len(texts))
	for _, t := range texts {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("%w in %q: %v", ErrNoValue, raw, err)
		}
		values = append(values, v)
	}
	sort.Float64s(values)
	return values, nil
}

// ExtractError reads the uncertainty following "±" or "+/-" in a raw value.
func ExtractError(raw string) (float64, bool) {
	s := normalizeValue(raw)
	loc := errorSeparator.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	m := numberPattern.FindString(s[loc[1]:])
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if v < 0 {
		v = -v
	}
	return v, true
}
