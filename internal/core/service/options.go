package service

import (
	"time"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
)

// DefaultProgressInterval is the minimum spacing of progress log lines.
const DefaultProgressInterval = 2 * time.Second

// progressEvery is the number of items a worker scans between progress and
// cancellation checks.
const progressEvery = 4096

// Recorder receives batch measurements. *metric.Registry implements it.
type Recorder interface {
	RecordItems(path string, n uint64)
	RecordTableOps(outcome string, n uint64)
	ObserveProbes(n int)
	ObserveBatch(d time.Duration)
	ObserveMerge(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordItems(string, uint64)    {}
func (nopRecorder) RecordTableOps(string, uint64) {}
func (nopRecorder) ObserveProbes(int)             {}
func (nopRecorder) ObserveBatch(time.Duration)    {}
func (nopRecorder) ObserveMerge(time.Duration)    {}

type batchOptions struct {
	logger           logger.Logger
	recorder         Recorder
	workers          int
	strategy         domain.Strategy
	routing          domain.Routing
	preAggregate     bool
	aggCapacity      int
	progressInterval time.Duration
}

func defaultBatchOptions(shards int) batchOptions {
	return batchOptions{
		logger:           logger.Default(),
		recorder:         nopRecorder{},
		workers:          shards,
		strategy:         domain.StrategyContiguous,
		routing:          domain.RoutingStaged,
		preAggregate:     true,
		aggCapacity:      shardset.DefaultAggregatorCapacity,
		progressInterval: DefaultProgressInterval,
	}
}

// BatchOption configures a BatchService.
type BatchOption func(*batchOptions)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) BatchOption {
	return func(o *batchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) BatchOption {
	return func(o *batchOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithWorkers sets the worker count. It defaults to the shard count.
func WithWorkers(n int) BatchOption {
	return func(o *batchOptions) { o.workers = n }
}

// WithStrategy sets how input is split between workers.
func WithStrategy(s domain.Strategy) BatchOption {
	return func(o *batchOptions) { o.strategy = s }
}

// WithRouting sets how updates reach their shard.
func WithRouting(r domain.Routing) BatchOption {
	return func(o *batchOptions) { o.routing = r }
}

// WithPreAggregate enables summing staged deltas per key before handover.
func WithPreAggregate(on bool) BatchOption {
	return func(o *batchOptions) { o.preAggregate = on }
}

// WithAggregatorCapacity sets the per-destination staging buffer size.
func WithAggregatorCapacity(n int) BatchOption {
	return func(o *batchOptions) { o.aggCapacity = n }
}

// WithProgressInterval sets the minimum spacing of progress log lines.
// Zero or a negative interval turns progress logging off.
func WithProgressInterval(d time.Duration) BatchOption {
	return func(o *batchOptions) { o.progressInterval = d }
}
