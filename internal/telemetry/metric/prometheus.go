package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "countmesh"

// Routing paths for RecordItems.
const (
	PathDirect = "direct"
	PathStaged = "staged"
)

// Table operation outcomes for RecordTableOps.
const (
	OutcomeInserted = "inserted"
	OutcomeUpdated  = "updated"
	OutcomeFailed   = "failed"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Batch metrics
	Batches       prometheus.Counter
	ItemsTotal    *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	MergeDuration prometheus.Histogram

	// Table metrics
	TableOps    *prometheus.CounterVec
	ProbeLength prometheus.Histogram
}

// NewRegistry creates a registry with every countmesh metric and the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Number of completed batch passes.",
		}),
		ItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "items_total",
			Help:      "Input items processed, by routing path.",
		}, []string{"path"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Wall time of a batch pass including the merge.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "merge_duration_seconds",
			Help:      "Wall time of the merge phase.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		TableOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "ops_total",
			Help:      "Table insert-or-update operations, by outcome.",
		}, []string{"outcome"}),
		ProbeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "probe_length",
			Help:      "Slots examined by inserts that claimed a new slot.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Batches,
		r.ItemsTotal,
		r.BatchDuration,
		r.MergeDuration,
		r.TableOps,
		r.ProbeLength,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Unregister removes a collector from the registry.
func (r *Registry) Unregister(c prometheus.Collector) bool {
	return r.registry.Unregister(c)
}

// RecordItems counts n input items that took the given routing path.
func (r *Registry) RecordItems(path string, n uint64) {
	if n > 0 {
		r.ItemsTotal.WithLabelValues(path).Add(float64(n))
	}
}

// RecordTableOps counts n table operations with the given outcome.
func (r *Registry) RecordTableOps(outcome string, n uint64) {
	if n > 0 {
		r.TableOps.WithLabelValues(outcome).Add(float64(n))
	}
}

// ObserveProbes records the probe length of one insert.
func (r *Registry) ObserveProbes(n int) {
	r.ProbeLength.Observe(float64(n))
}

// ObserveBatch records a completed batch pass.
func (r *Registry) ObserveBatch(d time.Duration) {
	r.Batches.Inc()
	r.BatchDuration.Observe(d.Seconds())
}

// ObserveMerge records the duration of a merge phase.
func (r *Registry) ObserveMerge(d time.Duration) {
	r.MergeDuration.Observe(d.Seconds())
}
