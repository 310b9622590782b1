package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/c360studio/semchem/ingest"
	"github.com/c360studio/semchem/record"
)

// Result is the outcome of resolving one document.
type Result struct {
	DocumentID string
	Records    record.List
	// Candidates is the number of records built from the document.
	Candidates int
}

// Resolver resolves candidate documents.
type Resolver struct {
	schemas        *record.Registry
	builder        *ingest.Builder
	strict         bool
	keepIncomplete bool
	metrics        *Metrics
	logger         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBuilder sets the candidate builder.
func WithBuilder(b *ingest.Builder) Option {
	return func(r *Resolver) { r.builder = b }
}

// WithStrictSubsets keeps exact duplicate records.
func WithStrictSubsets(strict bool) Option {
	return func(r *Resolver) { r.strict = strict }
}

// WithKeepIncomplete keeps records whose required fields are missing.
func WithKeepIncomplete(keep bool) Option {
	return func(r *Resolver) { r.keepIncomplete = keep }
}

// WithMetrics sets the metrics to update.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver for documents whose candidates name
// schemas in schemas.
func NewResolver(schemas *record.Registry, opts ...Option) *Resolver {
	r := &Resolver{schemas: schemas}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.builder == nil {
		r.builder = ingest.NewBuilder(schemas, ingest.WithLogger(r.logger))
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	return r
}

// Resolve builds the records of doc and merges them into complete records.
// Cancelling ctx stops resolution between records.
func (r *Resolver) Resolve(ctx context.Context, doc *ingest.Document) (*Result, error) {
	start := time.Now()
	defer func() { r.metrics.Duration.Observe(time.Since(start).Seconds()) }()

	items, err := r.builder.Build(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{DocumentID: doc.ID, Candidates: len(items)}

	session := record.NewSession()
	r.applyDefinitions(session, doc)
	for _, it := range items {
		markUpdated(session, it.Record)
	}

	if err := r.contextualPass(ctx, items); err != nil {
		return nil, err
	}
	alive, err := r.consolidate(ctx, items)
	if err != nil {
		return nil, err
	}

	var records record.List
	for _, it := range alive {
		it.Record.Clean()
		if !r.keepIncomplete && !it.Record.RequiredFulfilled() {
			r.drop(doc.ID, it.Record, DropIncomplete)
			continue
		}
		records = append(records, it.Record)
	}

	kept := records.RemoveSubsets(r.strict)
	if n := len(records) - len(kept); n > 0 {
		r.metrics.Dropped.WithLabelValues(DropSubset).Add(float64(n))
		r.logger.Debug("Removed subset records", "document", doc.ID, "count", n)
	}
	result.Records = kept

	r.logger.Debug("Resolved document",
		"document", doc.ID,
		"candidates", result.Candidates,
		"records", len(kept),
		"duration", time.Since(start))
	return result, nil
}

func (r *Resolver) applyDefinitions(session *record.Session, doc *ingest.Document) {
	for _, def := range doc.Definitions {
		schema, ok := r.schemas.Lookup(def.Schema)
		if !ok {
			r.logger.Warn("Definition for unknown schema", "document", doc.ID, "schema", def.Schema)
			continue
		}
		if err := session.Update(schema, def.Field, def.Text); err != nil {
			r.logger.Warn("Ignored definition", "document", doc.ID, "error", err)
		}
	}
}

// markUpdated flags records whose updatable fields match only through a
// definition of this document.
func markUpdated(session *record.Session, rec *record.Record) {
	for _, f := range rec.Schema().Fields() {
		if !f.Updatable {
			continue
		}
		var texts []string
		if s := rec.String(f.Name); s != "" {
			texts = append(texts, s)
		}
		texts = append(texts, rec.Strings(f.Name)...)
		for _, text := range texts {
			matched, viaUpdate, err := session.Match(rec.Schema(), f.Name, text)
			if err == nil && matched && viaUpdate {
				rec.WasUpdated = true
				return
			}
		}
	}
}

type neighbour struct {
	item     ingest.Item
	distance record.ContextualRange
	index    int
}

func (r *Resolver) contextualPass(ctx context.Context, items []ingest.Item) error {
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("contextual pass: %w", err)
		}
		if it.Record.ContextualFulfilled() {
			continue
		}

		neighbours := make([]neighbour, 0, len(items)-1)
		for j, other := range items {
			if i == j {
				continue
			}
			d, ok := record.Distance(it.Position, other.Position)
			if !ok {
				continue
			}
			neighbours = append(neighbours, neighbour{item: other, distance: d, index: j})
		}
		sort.SliceStable(neighbours, func(a, b int) bool {
			return neighbours[a].distance.Less(neighbours[b].distance)
		})

		for _, n := range neighbours {
			if it.Record.ContextualFulfilled() {
				break
			}
			if it.Record.MergeContextual(n.item.Record, n.distance) {
				r.metrics.Merges.WithLabelValues(MergeContextual).Inc()
				r.logger.Debug("Contextual merge",
					"schema", it.Record.Schema().Name(),
					"from", n.item.Record.Schema().Name(),
					"candidate", i,
					"source", n.index,
					"distance", n.distance.String())
			}
		}
	}
	return nil
}

// consolidate merges compatible records of the same schema. A record whose
// information was fully absorbed by an earlier one is removed; records that
// must be kept apart are left untouched.
func (r *Resolver) consolidate(ctx context.Context, items []ingest.Item) ([]ingest.Item, error) {
	removed := make([]bool, len(items))
	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("consolidation pass: %w", err)
		}
		if removed[i] {
			continue
		}
		target := items[i].Record
		for j := i + 1; j < len(items); j++ {
			src := items[j].Record
			if removed[j] || src.Schema() != target.Schema() || !target.Compatible(src) {
				continue
			}
			if target.ShouldKeepBothRecords(src) {
				r.metrics.Vetoes.Inc()
				r.logger.Debug("Merge vetoed",
					"schema", target.Schema().Name(),
					"candidate", i,
					"other", j)
				continue
			}
			d, ok := record.Distance(items[i].Position, items[j].Position)
			if !ok {
				d = record.DocumentRange()
			}
			if target.MergeAll(src, d) {
				r.metrics.Merges.WithLabelValues(MergeConsolidation).Inc()
			}
			if src.IsSubset(target) {
				removed[j] = true
				r.metrics.Dropped.WithLabelValues(DropAbsorbed).Inc()
				r.logger.Debug("Absorbed record",
					"schema", target.Schema().Name(),
					"candidate", i,
					"other", j)
			}
		}
	}

	alive := make([]ingest.Item, 0, len(items))
	for i, it := range items {
		if !removed[i] {
			alive = append(alive, it)
		}
	}
	return alive, nil
}

func (r *Resolver) drop(docID string, rec *record.Record, reason string) {
	r.metrics.Dropped.WithLabelValues(reason).Inc()
	r.logger.Debug("Dropped record",
		"document", docID,
		"schema", rec.Schema().Name(),
		"reason", reason)
}
