package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Merge kinds and drop reasons used as metric labels.
const (
	MergeContextual    = "contextual"
	MergeConsolidation = "consolidation"

	DropAbsorbed   = "absorbed"
	DropIncomplete = "incomplete"
	DropSubset     = "subset"
)

// Metrics holds the resolver metrics.
type Metrics struct {
	Merges   *prometheus.CounterVec
	Vetoes   prometheus.Counter
	Dropped  *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics creates the resolver metrics and registers them with reg. A
// nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Merges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semchem",
			Name:      "merges_total",
			Help:      "Record merges that changed a record, by kind.",
		}, []string{"kind"}),
		Vetoes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "semchem",
			Name:      "merge_vetoes_total",
			Help:      "Merges reported as not performed because both records must be kept.",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semchem",
			Name:      "records_dropped_total",
			Help:      "Records removed during resolution, by reason.",
		}, []string{"reason"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semchem",
			Name:      "resolve_seconds",
			Help:      "Time spent resolving one document.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}
