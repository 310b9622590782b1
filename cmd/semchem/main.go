// Package main provides the semchem binary entry point.
// Semchem resolves candidate chemistry records extracted from documents
// into complete, unit-normalized records.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semchem/chem"
	"github.com/c360studio/semchem/config"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/units"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semchem"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Chemistry record resolver",
		Long: `Semchem resolves candidate records extracted from scientific documents.

It provides:
- Unit parsing and conversion with dimensional analysis
- Contextual and consolidating record merges per document
- Export as JSON, JSON Lines, YAML or N-Triples, and NATS KV storage`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		resolveCmd(a),
		watchCmd(a),
		unitsCmd(a),
		convertCmd(a),
		recordsCmd(a),
		schemasCmd(a),
		configCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if err := cfg.Units.Apply(units.DefaultRegistry); err != nil {
		return fmt.Errorf("configure units: %w", err)
	}
	return nil
}

// schemaRegistry returns the global schema registry holding the chemistry
// schemas.
func schemaRegistry() (*record.Registry, error) {
	reg := record.Global()
	if err := chem.Register(reg); err != nil {
		return nil, fmt.Errorf("register schemas: %w", err)
	}
	return reg, nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath == "" {
		return config.NewLoader(a.logger).Load()
	}
	cfg, err := config.LoadFromFile(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
