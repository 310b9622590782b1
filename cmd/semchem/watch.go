package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semchem/export"
	"github.com/c360studio/semchem/ingest"
)

func watchCmd(a *app) *cobra.Command {
	var (
		flags  resolveFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Resolve candidate documents as they change",
		Long: `Watch resolves every candidate document below dir, then keeps
resolving documents as they are created or modified. With --out the
records of each document are written to a file of the same relative path
below the output directory; otherwise they are written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(a.cfg); err != nil {
				return err
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, closeFn, err := newProcessor(ctx, a.cfg, flags.store, a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			dir := args[0]
			w, err := ingest.NewWatcher(a.cfg.Watch, dir, a.logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			r := &watchRunner{processor: p, dir: dir, outDir: outDir, stdout: cmd.OutOrStdout()}
			if err := r.initial(ctx, w); err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					a.logger.Info("Watch stopped", "dropped_events", w.DroppedEvents())
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					if err := r.handle(ctx, ev); err != nil {
						a.logger.Warn("Failed to resolve document", "path", ev.Path, "error", err)
					}
				}
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default stdout)")
	return cmd
}

// watchRunner resolves watched documents and writes their output.
type watchRunner struct {
	processor *processor
	dir       string
	outDir    string
	stdout    io.Writer
}

// initial resolves the documents already present and records their
// content hashes so that unchanged files are not resolved again.
func (r *watchRunner) initial(ctx context.Context, w *ingest.Watcher) error {
	files, err := ingest.ResolveFiles([]string{r.dir})
	if err != nil {
		return err
	}
	for _, path := range files {
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		w.SetHash(rel, ingest.ContentHash(content))
		abs, _ := filepath.Abs(path)
		if err := r.handle(ctx, ingest.WatchEvent{Path: rel, AbsPath: abs, Operation: ingest.WatchOpCreate}); err != nil {
			r.processor.logger.Warn("Failed to resolve document", "path", rel, "error", err)
		}
	}
	return nil
}

func (r *watchRunner) handle(ctx context.Context, ev ingest.WatchEvent) error {
	if ev.Operation == ingest.WatchOpDelete {
		if r.outDir == "" {
			return nil
		}
		err := os.Remove(r.outputPath(ev.Path))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	if r.outDir == "" {
		_, err := r.processor.process(ctx, ev.AbsPath, r.stdout)
		return err
	}

	// Output is written only once the document resolved.
	var buf bytes.Buffer
	if _, err := r.processor.process(ctx, ev.AbsPath, &buf); err != nil {
		return err
	}
	path := r.outputPath(ev.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// outputPath maps a document path relative to the watched directory to
// its output file.
func (r *watchRunner) outputPath(rel string) string {
	ext := ".out"
	if info, ok := export.GetFormatInfo(r.processor.exporter.Format()); ok {
		ext = info.Extension
	}
	return filepath.Join(r.outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}
