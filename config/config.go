// Package config provides configuration loading and management for semchem.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semchem/export"
	"github.com/c360studio/semchem/ingest"
	"github.com/c360studio/semchem/storage"
	"github.com/c360studio/semchem/units"
)

// Config represents the complete semchem configuration.
type Config struct {
	Units   UnitsConfig        `yaml:"units"`
	Resolve MergeConfig        `yaml:"merge"`
	Storage StorageConfig      `yaml:"storage"`
	Export  ExportConfig       `yaml:"export"`
	Watch   ingest.WatchConfig `yaml:"watch"`
}

// UnitsConfig configures unit parsing.
type UnitsConfig struct {
	// Strict rejects parsed units whose dimension differs from the schema's.
	Strict bool `yaml:"strict"`
	// Prefixes adds or replaces power-of-ten prefixes, e.g. {da: 1}.
	Prefixes map[string]float64 `yaml:"prefixes,omitempty"`
	// Dimensionless adds symbols for dimensionless quantities such as ppm.
	Dimensionless []SymbolConfig `yaml:"dimensionless,omitempty"`
}

// SymbolConfig declares a dimensionless unit and the pattern recognizing it.
type SymbolConfig struct {
	Name    string  `yaml:"name"`
	Pattern string  `yaml:"pattern"`
	Factor  float64 `yaml:"factor"`
}

// Apply registers the configured prefixes and symbols in reg.
func (c UnitsConfig) Apply(reg *units.Registry) error {
	for prefix, exp := range c.Prefixes {
		reg.SetPrefix(prefix, exp)
	}
	for _, sym := range c.Dimensionless {
		def := units.Linear(sym.Name, units.Dimensionless, sym.Factor)
		if err := reg.RegisterDimensionless(sym.Pattern, def); err != nil {
			return fmt.Errorf("units.dimensionless %s: %w", sym.Name, err)
		}
	}
	return nil
}

// MergeConfig configures record resolution.
type MergeConfig struct {
	// Strict keeps exact duplicate records when removing subsets.
	Strict bool `yaml:"strict"`
	// KeepIncomplete keeps records whose required fields are missing.
	KeepIncomplete bool `yaml:"keep_incomplete"`
	// DimensionMismatch is one of null, warn or reject.
	DimensionMismatch ingest.MismatchPolicy `yaml:"dimension_mismatch"`
}

// StorageConfig configures the NATS record store.
type StorageConfig struct {
	// URL is the NATS server URL (empty = no storage)
	URL     string `yaml:"url"`
	Bucket  string `yaml:"bucket"`
	History int    `yaml:"history"`
	// MaxAttempts bounds retries of transient KV failures.
	MaxAttempts int `yaml:"max_attempts"`
}

// ExportConfig configures record output.
type ExportConfig struct {
	// Format is one of json, jsonl, yaml or ntriples.
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Units: UnitsConfig{Strict: true},
		Resolve: MergeConfig{
			DimensionMismatch: ingest.MismatchWarn,
		},
		Storage: StorageConfig{
			Bucket:      storage.DefaultBucket,
			History:     storage.DefaultHistory,
			MaxAttempts: storage.DefaultRetryConfig().MaxAttempts,
		},
		Export: ExportConfig{Format: string(export.FormatJSON)},
		Watch:  ingest.DefaultWatchConfig(),
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	for prefix := range c.Units.Prefixes {
		if prefix == "" {
			return fmt.Errorf("units.prefixes: empty prefix")
		}
	}
	for i, sym := range c.Units.Dimensionless {
		if sym.Name == "" || sym.Pattern == "" {
			return fmt.Errorf("units.dimensionless[%d]: name and pattern are required", i)
		}
		if sym.Factor <= 0 {
			return fmt.Errorf("units.dimensionless[%d]: factor must be positive", i)
		}
	}
	if err := c.Units.Apply(units.NewRegistry()); err != nil {
		return err
	}
	if !c.Resolve.DimensionMismatch.Valid() {
		return fmt.Errorf("merge.dimension_mismatch must be null, warn or reject, got %q", c.Resolve.DimensionMismatch)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Storage.History < 1 || c.Storage.History > 64 {
		return fmt.Errorf("storage.history must be between 1 and 64")
	}
	if c.Storage.MaxAttempts < 1 {
		return fmt.Errorf("storage.max_attempts must be at least 1")
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Watch.DebounceDelay != "" {
		d, err := time.ParseDuration(c.Watch.DebounceDelay)
		if err != nil {
			return fmt.Errorf("watch.debounce_delay: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("watch.debounce_delay must not be negative")
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.overlay(path); err != nil {
		return nil, err
	}
	return config, nil
}

// overlay decodes the file at path over c. Keys missing from the file keep
// their current values.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one. Non-zero values of other take
// precedence; flags can only be switched on.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Units
	if other.Units.Strict {
		c.Units.Strict = true
	}
	for prefix, exp := range other.Units.Prefixes {
		if c.Units.Prefixes == nil {
			c.Units.Prefixes = make(map[string]float64)
		}
		c.Units.Prefixes[prefix] = exp
	}
	if len(other.Units.Dimensionless) > 0 {
		c.Units.Dimensionless = other.Units.Dimensionless
	}

	// Merge
	if other.Resolve.Strict {
		c.Resolve.Strict = true
	}
	if other.Resolve.KeepIncomplete {
		c.Resolve.KeepIncomplete = true
	}
	if other.Resolve.DimensionMismatch != "" {
		c.Resolve.DimensionMismatch = other.Resolve.DimensionMismatch
	}

	// Storage
	if other.Storage.URL != "" {
		c.Storage.URL = other.Storage.URL
	}
	if other.Storage.Bucket != "" {
		c.Storage.Bucket = other.Storage.Bucket
	}
	if other.Storage.History != 0 {
		c.Storage.History = other.Storage.History
	}
	if other.Storage.MaxAttempts != 0 {
		c.Storage.MaxAttempts = other.Storage.MaxAttempts
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}

	// Watch
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
	if len(other.Watch.FileExtensions) > 0 {
		c.Watch.FileExtensions = other.Watch.FileExtensions
	}
	if len(other.Watch.ExcludeDirs) > 0 {
		c.Watch.ExcludeDirs = other.Watch.ExcludeDirs
	}
}
