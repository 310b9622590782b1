package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semchem/record"
)

// Document is the exported form of one resolved document.
type Document struct {
	ID      string           `json:"document" yaml:"document"`
	Records []map[string]any `json:"records" yaml:"records"`
}

// Line is one JSON Lines entry.
type Line struct {
	Document string         `json:"document"`
	Record   map[string]any `json:"record"`
}

// Exporter writes records in one format. N-Triples subjects are numbered
// across every Write call of an exporter.
type Exporter struct {
	format Format
	count  int
}

// New creates an exporter for format.
func New(format Format) (*Exporter, error) {
	if _, ok := FormatRegistry[format]; !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &Exporter{format: format}, nil
}

// Format returns the exporter format.
func (e *Exporter) Format() Format {
	return e.format
}

// Write serializes the records of one document to w.
func (e *Exporter) Write(w io.Writer, docID string, list record.List) error {
	switch e.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Document{ID: docID, Records: list.Serialize()})
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, r := range list {
			if err := enc.Encode(Line{Document: docID, Record: r.Serialize(true)}); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Document{ID: docID, Records: list.Serialize()}); err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		return enc.Close()
	case FormatNTriples:
		_, err := io.WriteString(w, e.ntriples(docID, list))
		return err
	}
	return fmt.Errorf("unsupported format: %s", e.format)
}

// Triples returns the triples describing the records of one document.
func (e *Exporter) Triples(docID string, list record.List) []Triple {
	var out []Triple
	for _, r := range list {
		e.count++
		subject := RecordIRI(e.count)
		out = append(out,
			Triple{Subject: subject, Predicate: PredicateType, Object: IRI(SchemaIRI(r.Schema().Name()))},
			Triple{Subject: subject, Predicate: PredicateDocument, Object: docID},
		)
		body, _ := r.Serialize(true)[r.Schema().Name()].(map[string]any)
		out = leafTriples(subject, "", body, out)
	}
	return out
}

func (e *Exporter) ntriples(docID string, list record.List) string {
	w := NewNTriplesWriter()
	for _, t := range e.Triples(docID, list) {
		w.WriteTriple(t)
	}
	return w.String()
}
