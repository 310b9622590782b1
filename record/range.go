package record

import (
	"strconv"
	"strings"
)

const (
	levelSentence = iota
	levelParagraph
	levelSection
	levelDocument
	numLevels
)

var levelNames = [numLevels]string{"SentenceRange", "ParagraphRange", "SectionRange", "DocumentRange"}

// ContextualRange measures how far apart two pieces of information are in a
// document. Ranges are linear combinations of the four base ranges and are
// ordered by their document coefficient first, then section, paragraph and
// sentence.
type ContextualRange struct {
	coeffs [numLevels]float64
}

func baseRange(level int) ContextualRange {
	var r ContextualRange
	r.coeffs[level] = 1
	return r
}

// SentenceRange is the distance between facts in the same sentence.
func SentenceRange() ContextualRange { return baseRange(levelSentence) }

// ParagraphRange is the distance between sentences of one paragraph.
func ParagraphRange() ContextualRange { return baseRange(levelParagraph) }

// SectionRange is the distance between paragraphs of one section.
func SectionRange() ContextualRange { return baseRange(levelSection) }

// DocumentRange is the distance between sections of one document.
func DocumentRange() ContextualRange { return baseRange(levelDocument) }

// Add returns r + other.
func (r ContextualRange) Add(other ContextualRange) ContextualRange {
	for i := range r.coeffs {
		r.coeffs[i] += other.coeffs[i]
	}
	return r
}

// Scale returns r * k.
func (r ContextualRange) Scale(k float64) ContextualRange {
	for i := range r.coeffs {
		r.coeffs[i] *= k
	}
	return r
}

// Div returns r / k.
func (r ContextualRange) Div(k float64) ContextualRange {
	return r.Scale(1 / k)
}

// Compare returns -1, 0 or +1.
func (r ContextualRange) Compare(other ContextualRange) int {
	for i := numLevels - 1; i >= 0; i-- {
		switch {
		case r.coeffs[i] < other.coeffs[i]:
			return -1
		case r.coeffs[i] > other.coeffs[i]:
			return 1
		}
	}
	return 0
}

// Less reports r < other.
func (r ContextualRange) Less(other ContextualRange) bool { return r.Compare(other) < 0 }

// LessOrEqual reports r <= other.
func (r ContextualRange) LessOrEqual(other ContextualRange) bool { return r.Compare(other) <= 0 }

// Equal reports r == other.
func (r ContextualRange) Equal(other ContextualRange) bool { return r.Compare(other) == 0 }

func (r ContextualRange) String() string {
	var parts []string
	for i := numLevels - 1; i >= 0; i-- {
		c := r.coeffs[i]
		switch c {
		case 0:
			continue
		case 1:
			parts = append(parts, levelNames[i])
		default:
			parts = append(parts, strconv.FormatFloat(c, 'g', -1, 64)+"*"+levelNames[i])
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}

// Position locates a candidate record in a document.
type Position struct {
	Document  string `json:"document,omitempty" yaml:"document,omitempty"`
	Section   int    `json:"section" yaml:"section"`
	Paragraph int    `json:"paragraph" yaml:"paragraph"`
	Sentence  int    `json:"sentence" yaml:"sentence"`
}

// Distance returns the contextual range between two positions. It reports
// false for positions in different documents.
func Distance(a, b Position) (ContextualRange, bool) {
	switch {
	case a.Document != b.Document:
		return ContextualRange{}, false
	case a.Section != b.Section:
		return DocumentRange(), true
	case a.Paragraph != b.Paragraph:
		return SectionRange(), true
	case a.Sentence != b.Sentence:
		return ParagraphRange(), true
	}
	return SentenceRange(), true
}
