package export

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semchem/chem"
	"github.com/c360studio/semchem/quantity"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

func sampleRecords(t *testing.T) record.List {
	t.Helper()
	mp := chem.MeltingPoint.New()
	require.NoError(t, quantity.Populate(mp, "120-125", "°C", true))
	mp.MustSet("specifier", "mp")
	mp.MustSet("compound", chem.Compound.New().MustSet("names", []string{"benzene", "benzol"}))

	spectrum := chem.NmrSpectrum.New().
		MustSet("nucleus", "1H").
		MustSet("peaks", []*record.Record{
			chem.NmrPeak.New().MustSet("shift", 7.26),
			chem.NmrPeak.New().MustSet("shift", []float64{2.1, 2.3}),
		})
	return record.List{mp, spectrum}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSONL", FormatJSONL, false},
		{" yaml ", FormatYAML, false},
		{"ntriples", FormatNTriples, false},
		{"turtle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "jsonl", "ntriples", "yaml"}, FormatNames())
	info, ok := GetFormatInfo(FormatNTriples)
	require.True(t, ok)
	assert.Equal(t, ".nt", info.Extension)
	assert.Equal(t, "application/n-triples", info.MIMEType)

	_, err := New("turtle")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	e, err := New(FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, "doc-1", sampleRecords(t)))

	var doc struct {
		Document string           `json:"document"`
		Records  []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc.Document)
	require.Len(t, doc.Records, 2)
	mp := doc.Records[0]["MeltingPoint"].(map[string]any)
	assert.Equal(t, "Celsius", mp["units"])
	assert.Equal(t, []any{120.0, 125.0}, mp["value"])
}

func TestWriteJSONL(t *testing.T) {
	e, err := New(FormatJSONL)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, "doc-1", sampleRecords(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var line Line
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &line))
	assert.Equal(t, "doc-1", line.Document)
	assert.Contains(t, line.Record, "NmrSpectrum")
}

func TestWriteYAML(t *testing.T) {
	e, err := New(FormatYAML)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, "doc-1", sampleRecords(t)))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc["document"])
	assert.Len(t, doc["records"], 2)
}

func TestWriteNTriples(t *testing.T) {
	e, err := New(FormatNTriples)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, "doc-1", sampleRecords(t)))
	out := buf.String()

	assert.Contains(t, out, `<urn:semchem:record:1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <urn:semchem:schema:MeltingPoint> .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:document> "doc-1" .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:field:specifier> "mp" .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:field:units> "Celsius" .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:field:value> "120"^^<http://www.w3.org/2001/XMLSchema#double> .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:field:compound.names> "benzene" .`)
	assert.Contains(t, out, `<urn:semchem:record:1> <urn:semchem:field:compound.names> "benzol" .`)
	assert.Contains(t, out, `<urn:semchem:record:2> <urn:semchem:field:peaks.0.shift> "7.26"^^<http://www.w3.org/2001/XMLSchema#double> .`)
	assert.Contains(t, out, `<urn:semchem:record:2> <urn:semchem:field:peaks.1.shift> "2.3"^^<http://www.w3.org/2001/XMLSchema#double> .`)

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}

	// Subjects keep counting across documents.
	buf.Reset()
	require.NoError(t, e.Write(&buf, "doc-2", sampleRecords(t)[:1]))
	assert.Contains(t, buf.String(), "<urn:semchem:record:3>")
}

func TestEscapeString(t *testing.T) {
	assert.Equal(t, `a\"b\\c\nd`, escapeString("a\"b\\c\nd"))
	assert.Equal(t, `"x\ty"`, formatObject("x\ty"))
	assert.Equal(t, `<urn:a>`, formatObject(IRI("urn:a")))
	assert.Equal(t, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`, formatObject(true))
}

func TestSchemaIRIEscapesCompositeNames(t *testing.T) {
	assert.Equal(t, "urn:semchem:schema:MeltingPoint", SchemaIRI("MeltingPoint"))

	speed := quantity.SchemaFor(units.Length.Div(units.Time))
	r := speed.New()
	require.NoError(t, quantity.Populate(r, "3", "m/s", true))

	exp, err := New(FormatNTriples)
	require.NoError(t, err)
	triples := exp.Triples("doc", record.List{r})
	require.NotEmpty(t, triples)

	typeIRI, ok := triples[0].Object.(IRI)
	require.True(t, ok)
	assert.NotContains(t, string(typeIRI), " ")
	assert.NotContains(t, string(typeIRI), "^")

	name, err := url.PathUnescape(strings.TrimPrefix(string(typeIRI), SchemaNamespace))
	require.NoError(t, err)
	assert.Equal(t, speed.Name(), name)
}
