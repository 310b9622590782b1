package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/semchem/config"
	"github.com/c360studio/semchem/export"
	"github.com/c360studio/semchem/record"
	"github.com/c360studio/semchem/storage"
)

func recordsCmd(a *app) *cobra.Command {
	var (
		document string
		format   string
		natsURL  string
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print records stored in NATS KV",
		Example: `  semchem records --nats-url nats://localhost:4222
  semchem records --document paper-1 --format ntriples`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Merge(&config.Config{
				Storage: config.StorageConfig{URL: natsURL},
				Export:  config.ExportConfig{Format: format},
			})
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			f, err := export.ParseFormat(a.cfg.Export.Format)
			if err != nil {
				return err
			}
			exporter, err := export.New(f)
			if err != nil {
				return err
			}
			schemas, err := schemaRegistry()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, closeFn, err := connectStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := writeStored(ctx, store, schemas, document, exporter, cmd.OutOrStdout(), a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("Listed stored records", "document", document, "count", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&document, "document", "", "Only records of this document")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, jsonl, yaml, ntriples)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")
	return cmd
}

// writeStored decodes the stored records, optionally of one document, and
// exports them grouped by document in storage order. Records that no longer
// decode are skipped.
func writeStored(ctx context.Context, store *storage.Store, schemas *record.Registry, docID string, exp *export.Exporter, w io.Writer, logger *slog.Logger) (int, error) {
	var (
		stored []*storage.StoredRecord
		err    error
	)
	if docID != "" {
		stored, err = store.ListByDocument(ctx, docID)
	} else {
		stored, err = store.List(ctx)
	}
	if err != nil {
		return 0, err
	}

	var order []string
	byDocument := make(map[string]record.List)
	count := 0
	for _, s := range stored {
		rec, err := s.Decode(schemas)
		if err != nil {
			logger.Warn("Skipped undecodable record", "id", s.ID, "error", err)
			continue
		}
		if _, ok := byDocument[s.DocumentID]; !ok {
			order = append(order, s.DocumentID)
		}
		byDocument[s.DocumentID] = append(byDocument[s.DocumentID], rec)
		count++
	}

	for _, id := range order {
		if err := exp.Write(w, id, byDocument[id]); err != nil {
			return count, fmt.Errorf("write %s: %w", id, err)
		}
	}
	return count, nil
}
