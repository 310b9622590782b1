package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "papers", "2024")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
export:
  format: yaml
storage:
  url: nats://user:4222
merge:
  keep_incomplete: true
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
export:
  format: jsonl
merge:
  keep_incomplete: false
`)

	cfg, err := NewLoader(nil, WithHomeDir(home), WithWorkDir(work)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Export.Format != "jsonl" {
		t.Errorf("expected project format jsonl, got %s", cfg.Export.Format)
	}
	if cfg.Storage.URL != "nats://user:4222" {
		t.Errorf("expected user storage URL, got %s", cfg.Storage.URL)
	}
	if cfg.Resolve.KeepIncomplete {
		t.Error("expected project config to switch keep_incomplete off")
	}
	if cfg.Storage.Bucket != "SEMCHEM_RECORDS" {
		t.Errorf("expected default bucket, got %s", cfg.Storage.Bucket)
	}
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader(nil, WithHomeDir(t.TempDir()), WithWorkDir(t.TempDir())).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("expected default format, got %s", cfg.Export.Format)
	}
}

func TestLoaderInvalidProjectConfig(t *testing.T) {
	work := t.TempDir()
	writeFile(t, filepath.Join(work, ProjectConfigFile), "merge:\n  dimension_mismatch: explode\n")

	if _, err := NewLoader(nil, WithHomeDir(t.TempDir()), WithWorkDir(work)).Load(); err == nil {
		t.Error("expected validation error")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	loader := NewLoader(nil, WithHomeDir(home))

	path, err := loader.EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if path != filepath.Join(home, UserConfigDir, UserConfigFile) {
		t.Errorf("unexpected path %s", path)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Errorf("created config does not load: %v", err)
	}

	again, err := loader.EnsureUserConfig()
	if err != nil || again != path {
		t.Errorf("second call = %q, %v", again, err)
	}
}
