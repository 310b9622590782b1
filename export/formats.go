// Package export writes resolved records as JSON, JSON Lines, YAML or
// N-Triples.
package export

import (
	"fmt"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatJSON produces one indented JSON object per document.
	FormatJSON Format = "json"

	// FormatJSONL produces one JSON object per record and line.
	FormatJSONL Format = "jsonl"

	// FormatYAML produces one YAML document per document.
	FormatYAML Format = "yaml"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON - records grouped by document",
	},
	FormatJSONL: {
		Name:        FormatJSONL,
		MIMEType:    "application/x-ndjson",
		Extension:   ".jsonl",
		Description: "JSON Lines - one record per line",
	},
	FormatYAML: {
		Name:        FormatYAML,
		MIMEType:    "application/yaml",
		Extension:   ".yaml",
		Description: "YAML - records grouped by document",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - one triple per record leaf value",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format %q (supported: %s)", s, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the supported format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
