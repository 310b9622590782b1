package export

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// IRI namespaces used in N-Triples output.
const (
	Namespace       = "urn:semchem:"
	RecordNamespace = Namespace + "record:"
	FieldNamespace  = Namespace + "field:"
	SchemaNamespace = Namespace + "schema:"

	// PredicateDocument links a record to the document it was found in.
	PredicateDocument = Namespace + "document"

	// PredicateType is rdf:type.
	PredicateType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	xsd = "http://www.w3.org/2001/XMLSchema#"
)

// IRI is an object that is written as a resource rather than a literal.
type IRI string

// RecordIRI returns the IRI of the n-th exported record.
func RecordIRI(n int) string {
	return RecordNamespace + strconv.Itoa(n)
}

// FieldIRI returns the predicate IRI for a dotted field path.
func FieldIRI(path string) string {
	return FieldNamespace + path
}

// SchemaIRI returns the class IRI of a schema. Composite quantity schema
// names are percent-encoded.
func SchemaIRI(name string) string {
	return SchemaNamespace + url.PathEscape(name)
}

// Triple is one statement about a record.
type Triple struct {
	Subject   string
	Predicate string
	Object    any
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t Triple) {
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", t.Subject, t.Predicate, formatObject(t.Object))
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// formatObject formats an object value for N-Triples output.
func formatObject(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return fmt.Sprintf("<%s>", string(v))
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int:
		return fmt.Sprintf("\"%d\"^^<%sinteger>", v, xsd)
	case float64:
		return fmt.Sprintf("\"%s\"^^<%sdouble>", strconv.FormatFloat(v, 'g', -1, 64), xsd)
	case bool:
		return fmt.Sprintf("\"%t\"^^<%sboolean>", v, xsd)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// leafTriples flattens a serialized record body into triples. Nested
// records extend the dotted path, list elements add their index and set
// elements share their field's predicate.
func leafTriples(subject, prefix string, fields map[string]any, out []Triple) []Triple {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		out = appendLeaves(subject, joinPath(prefix, name), fields[name], out)
	}
	return out
}

func appendLeaves(subject, path string, v any, out []Triple) []Triple {
	switch x := v.(type) {
	case nil:
		return out
	case map[string]any:
		// Nested records serialize as {SchemaName: {...}}.
		for _, inner := range x {
			if body, ok := inner.(map[string]any); ok {
				out = leafTriples(subject, path, body, out)
			}
		}
		return out
	case []float64:
		for _, f := range x {
			out = append(out, Triple{Subject: subject, Predicate: FieldIRI(path), Object: f})
		}
		return out
	case []any:
		for i, e := range x {
			if _, nested := e.(map[string]any); nested {
				out = appendLeaves(subject, joinPath(path, strconv.Itoa(i)), e, out)
				continue
			}
			out = appendLeaves(subject, path, e, out)
		}
		return out
	}
	return append(out, Triple{Subject: subject, Predicate: FieldIRI(path), Object: v})
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
