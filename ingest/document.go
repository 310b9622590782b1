package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semchem/record"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Document is one candidate document.
type Document struct {
	ID          string       `json:"id" yaml:"id"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	Definitions []Definition `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Candidates  []Candidate  `json:"candidates" yaml:"candidates"`
}

// Definition extends an updatable field expression for this document.
type Definition struct {
	Schema string `json:"schema" yaml:"schema"`
	Field  string `json:"field" yaml:"field"`
	Text   string `json:"text" yaml:"text"`
}

// Candidate is a partial record found at a position.
type Candidate struct {
	Schema   string          `json:"schema" yaml:"schema"`
	Method   string          `json:"method,omitempty" yaml:"method,omitempty"`
	Position record.Position `json:"position" yaml:"position"`
	Fields   map[string]any  `json:"fields" yaml:"fields"`
}

// Parse decodes a YAML or JSON candidate document. Documents without an ID
// get a random one, and candidate positions are tied to the document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse candidate document: %w", err)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	for i := range doc.Candidates {
		doc.Candidates[i].Position.Document = doc.ID
	}
	return &doc, nil
}

// Load reads a candidate document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidate document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Source == "" {
		doc.Source = path
	}
	return doc, nil
}

// Supported reports whether path has a candidate document extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
