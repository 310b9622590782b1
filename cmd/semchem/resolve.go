package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/semchem/config"
	"github.com/c360studio/semchem/export"
	"github.com/c360studio/semchem/ingest"
	"github.com/c360studio/semchem/pipeline"
	"github.com/c360studio/semchem/storage"
)

// resolveFlags are the command line overrides of the configuration.
type resolveFlags struct {
	format         string
	store          bool
	natsURL        string
	strict         bool
	keepIncomplete bool
	mismatch       string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format (json, jsonl, yaml, ntriples)")
	cmd.Flags().BoolVar(&f.store, "store", false, "Store resolved records in NATS KV")
	cmd.Flags().StringVar(&f.natsURL, "nats-url", "", "NATS server URL for --store")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Keep exact duplicate records")
	cmd.Flags().BoolVar(&f.keepIncomplete, "keep-incomplete", false, "Keep records missing required fields")
	cmd.Flags().StringVar(&f.mismatch, "dimension-mismatch", "", "Unit dimension mismatch policy (null, warn, reject)")
}

// apply overlays the flags on cfg.
func (f *resolveFlags) apply(cfg *config.Config) error {
	cfg.Merge(&config.Config{
		Resolve: config.MergeConfig{
			Strict:            f.strict,
			KeepIncomplete:    f.keepIncomplete,
			DimensionMismatch: ingest.MismatchPolicy(f.mismatch),
		},
		Storage: config.StorageConfig{URL: f.natsURL},
		Export:  config.ExportConfig{Format: f.format},
	})
	return cfg.Validate()
}

func resolveCmd(a *app) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve [files, directories or globs...]",
		Short: "Resolve candidate documents into records",
		Example: `  semchem resolve paper.yaml
  semchem resolve 'papers/**/*.json' --format ntriples
  semchem resolve papers --store --nats-url nats://localhost:4222`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(a.cfg); err != nil {
				return err
			}
			files, err := ingest.ResolveFiles(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			p, closeFn, err := newProcessor(ctx, a.cfg, flags.store, a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			failed := 0
			for _, path := range files {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := p.process(ctx, path, cmd.OutOrStdout()); err != nil {
					a.logger.Error("Failed to resolve document", "path", path, "error", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(files))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// processor resolves documents and writes their records.
type processor struct {
	resolver *pipeline.Resolver
	exporter *export.Exporter
	store    *storage.Store
	logger   *slog.Logger
}

func newProcessor(ctx context.Context, cfg *config.Config, store bool, logger *slog.Logger) (*processor, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, nil, err
	}
	exporter, err := export.New(format)
	if err != nil {
		return nil, nil, err
	}

	schemas, err := schemaRegistry()
	if err != nil {
		return nil, nil, err
	}
	builder := ingest.NewBuilder(schemas,
		ingest.WithStrictUnits(cfg.Units.Strict),
		ingest.WithMismatchPolicy(cfg.Resolve.DimensionMismatch),
		ingest.WithLogger(logger))
	p := &processor{
		resolver: pipeline.NewResolver(schemas,
			pipeline.WithBuilder(builder),
			pipeline.WithStrictSubsets(cfg.Resolve.Strict),
			pipeline.WithKeepIncomplete(cfg.Resolve.KeepIncomplete),
			pipeline.WithLogger(logger)),
		exporter: exporter,
		logger:   logger,
	}

	closeFn := func() {}
	if store {
		s, closeStore, err := connectStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		p.store = s
		closeFn = closeStore
	}
	return p, closeFn, nil
}

// connectStore opens the record store named by the storage configuration.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.Store, func(), error) {
	if cfg.Storage.URL == "" {
		return nil, nil, fmt.Errorf("storage.url or --nats-url is required")
	}
	return storage.Connect(ctx, cfg.Storage.URL,
		storage.WithBucket(cfg.Storage.Bucket, cfg.Storage.History),
		storage.WithRetryConfig(retryConfig(cfg.Storage)),
		storage.WithLogger(logger))
}

func retryConfig(sc config.StorageConfig) storage.RetryConfig {
	rc := storage.DefaultRetryConfig()
	if sc.MaxAttempts > 0 {
		rc.MaxAttempts = sc.MaxAttempts
	}
	return rc
}

func (p *processor) process(ctx context.Context, path string, w io.Writer) (*pipeline.Result, error) {
	doc, err := ingest.Load(path)
	if err != nil {
		return nil, err
	}
	result, err := p.resolver.Resolve(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := p.exporter.Write(w, result.DocumentID, result.Records); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	if p.store != nil {
		ids, err := p.store.PutAll(ctx, result.DocumentID, result.Records)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", path, err)
		}
		p.logger.Info("Stored records", "path", path, "document", result.DocumentID, "count", len(ids))
	}

	p.logger.Info("Resolved document",
		"path", path,
		"document", result.DocumentID,
		"candidates", result.Candidates,
		"records", len(result.Records))
	return result, nil
}
