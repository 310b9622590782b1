package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semchem/config"
	"github.com/c360studio/semchem/ingest"
)

const paper = `
id: paper-1
candidates:
  - schema: MeltingPoint
    position: {section: 1, paragraph: 1, sentence: 0}
    fields: {raw_value: "120-125", raw_units: "°C", specifier: "mp"}
  - schema: Compound
    position: {section: 1, paragraph: 1, sentence: 1}
    fields: {names: [benzene]}
`

// execute runs the root command with a config file in a temp directory so
// no user or project config is read.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWith(t, config.DefaultConfig(), args...)
}

func executeWith(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "semchem.yaml")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writePaper(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(paper), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "semchem version 0.1.0 (build: dev)\n", out)
}

func TestResolveJSON(t *testing.T) {
	path := writePaper(t, t.TempDir(), "paper.yaml")

	out, err := execute(t, "resolve", path)
	require.NoError(t, err)

	var doc struct {
		Document string           `json:"document"`
		Records  []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "paper-1", doc.Document)
	require.Len(t, doc.Records, 2)
	mp := doc.Records[0]["MeltingPoint"].(map[string]any)
	assert.Equal(t, "Celsius", mp["units"])
	assert.Contains(t, mp, "compound")
}

func TestResolveNTriplesGlob(t *testing.T) {
	dir := t.TempDir()
	writePaper(t, dir, "a/one.yaml")
	writePaper(t, dir, "b/two.yaml")

	out, err := execute(t, "resolve", filepath.Join(dir, "**", "*.yaml"), "--format", "ntriples")
	require.NoError(t, err)
	assert.Contains(t, out, "<urn:semchem:record:1>")
	assert.Contains(t, out, "<urn:semchem:record:4>")
	assert.Contains(t, out, `<urn:semchem:field:compound.names> "benzene" .`)
}

func TestResolveErrors(t *testing.T) {
	_, err := execute(t, "resolve", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writePaper(t, t.TempDir(), "paper.yaml")
	_, err = execute(t, "resolve", path, "--format", "turtle")
	assert.Error(t, err)

	_, err = execute(t, "resolve", path, "--store")
	assert.ErrorContains(t, err, "storage.url")
}

func TestResolveContinuesPastFailedDocuments(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("candidates:\n  - schema: Viscosity\n"), 0644))
	good := writePaper(t, dir, "good.yaml")

	out, err := execute(t, "resolve", bad, good, "--format", "jsonl")
	assert.ErrorContains(t, err, "1 of 2 documents failed")
	assert.Contains(t, out, `"document":"paper-1"`)
}

func TestUnitsCommand(t *testing.T) {
	out, err := execute(t, "units", "km/h")
	require.NoError(t, err)
	assert.Contains(t, out, "Dimension: Length * Time^(-1)")
	assert.Contains(t, out, "Standard:  Meter^(1) Second^(-1)")

	out, err = execute(t, "units", "°C", "--dimension", "temperature")
	require.NoError(t, err)
	assert.Contains(t, out, "Unit:      Celsius")

	_, err = execute(t, "units", "km", "--dimension", "temperature")
	assert.Error(t, err)

	_, err = execute(t, "units", "km", "--dimension", "charge")
	assert.Error(t, err)
}

func TestUnitsCommandDensity(t *testing.T) {
	out, err := execute(t, "units", "mg/mL", "--dimension", "mass/length^3")
	require.NoError(t, err)
	assert.Contains(t, out, "(10^-3) * Gram^(1)")
	assert.Contains(t, out, "(10^-3) * Liter^(-1)")
}

func TestUnitsCommandDimensionless(t *testing.T) {
	out, err := execute(t, "units", "%")
	require.NoError(t, err)
	assert.Contains(t, out, "Unit:      Percent")

	cfg := config.DefaultConfig()
	cfg.Units.Dimensionless = []config.SymbolConfig{{Name: "PartsPerMillion", Pattern: "ppm", Factor: 1e-6}}
	out, err = executeWith(t, cfg, "units", "ppm", "--dimension", "dimensionless")
	require.NoError(t, err)
	assert.Contains(t, out, "Unit:      PartsPerMillion")
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "120-125", "°C", "K")
	require.NoError(t, err)
	assert.Equal(t, "393.15-398.15 Kelvin\n", out)

	out, err = execute(t, "convert", "1.5 ± 0.5", "km", "m", "--dimension", "length")
	require.NoError(t, err)
	assert.Equal(t, "1500 ± 500 Meter\n", out)

	_, err = execute(t, "convert", "10", "km", "K")
	assert.Error(t, err)
}

func TestSchemasCommand(t *testing.T) {
	out, err := execute(t, "schemas")
	require.NoError(t, err)
	assert.Contains(t, out, "Compound\n")
	assert.Contains(t, out, "MeltingPoint")
	assert.Contains(t, out, "Temperature")

	out, err = execute(t, "schemas", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dimension_mismatch: warn")
	assert.Contains(t, out, "bucket: SEMCHEM_RECORDS")
}

func TestWatchRunner(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Format = "jsonl"
	p, closeFn, err := newProcessor(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	defer closeFn()

	dir := t.TempDir()
	outDir := t.TempDir()
	writePaper(t, dir, "nested/paper.yaml")

	r := &watchRunner{processor: p, dir: dir, outDir: outDir}
	assert.Equal(t, filepath.Join(outDir, "nested", "paper.jsonl"), r.outputPath(filepath.Join("nested", "paper.yaml")))

	ev := ingest.WatchEvent{
		Path:      filepath.Join("nested", "paper.yaml"),
		AbsPath:   filepath.Join(dir, "nested", "paper.yaml"),
		Operation: ingest.WatchOpCreate,
	}
	require.NoError(t, r.handle(context.Background(), ev))

	data, err := os.ReadFile(filepath.Join(outDir, "nested", "paper.jsonl"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 2)

	ev.Operation = ingest.WatchOpDelete
	require.NoError(t, r.handle(context.Background(), ev))
	_, err = os.Stat(filepath.Join(outDir, "nested", "paper.jsonl"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatchRunnerFailedDocumentLeavesNoOutput(t *testing.T) {
	cfg := config.DefaultConfig()
	p, closeFn, err := newProcessor(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	defer closeFn()

	dir := t.TempDir()
	outDir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("candidates:\n  - schema: Viscosity\n"), 0644))

	r := &watchRunner{processor: p, dir: dir, outDir: outDir}
	ev := ingest.WatchEvent{Path: "bad.yaml", AbsPath: path, Operation: ingest.WatchOpCreate}
	assert.Error(t, r.handle(context.Background(), ev))

	_, err = os.Stat(r.outputPath("bad.yaml"))
	assert.True(t, os.IsNotExist(err))
}
