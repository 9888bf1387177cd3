package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
	"golang.org/x/time/rate"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
	"github.com/yndnr/countmesh/internal/telemetry/metric"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// BatchService runs counting passes over a ShardSet.
//
// ProcessBatch calls are serialized: a pass owns every exchange of the set
// until its merge completes. Other readers of the set may run concurrently.
type BatchService[K cmap.Hashable] struct {
	set  *shardset.ShardSet[K]
	opts batchOptions
	mu   sync.Mutex
}

// NewBatchService creates a BatchService over set.
func NewBatchService[K cmap.Hashable](set *shardset.ShardSet[K], opts ...BatchOption) (*BatchService[K], error) {
	if set == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("shard set is required")
	}

	o := defaultBatchOptions(set.Shards())
	for _, opt := range opts {
		opt(&o)
	}

	if o.workers < 1 {
		return nil, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("workers must be positive, got %d", o.workers))
	}
	if o.aggCapacity < 1 {
		return nil, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("aggregator capacity must be positive, got %d", o.aggCapacity))
	}
	switch o.strategy {
	case domain.StrategyContiguous, domain.StrategyRoundRobin:
	default:
		return nil, domain.ErrInvalidConfig.WithDetails("unknown strategy " + string(o.strategy))
	}
	switch o.routing {
	case domain.RoutingDirect, domain.RoutingStaged:
	default:
		return nil, domain.ErrInvalidConfig.WithDetails("unknown routing " + string(o.routing))
	}

	return &BatchService[K]{set: set, opts: o}, nil
}

// ShardSet returns the set the service writes to.
func (s *BatchService[K]) ShardSet() *shardset.ShardSet[K] { return s.set }

// Workers returns the size of the worker pool.
func (s *BatchService[K]) Workers() int { return s.opts.workers }

// ============================================================================
// ProcessBatch
// ============================================================================

// ProcessBatch applies every item's delta to its key.
//
// When it returns, each key's count in the shard set has grown by the sum
// of its deltas, except for keys listed as failed. Cancelling ctx stops the
// workers early; items already scanned are still merged, and the returned
// stats describe them alongside ctx's error.
func (s *BatchService[K]) ProcessBatch(ctx context.Context, items []domain.Item[K]) (*domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runID, err := domain.GenerateRunID()
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRunID(logger.WithLogger(ctx, s.opts.logger), runID)
	log := logger.L(ctx)

	start := time.Now()
	n := len(items)
	nw := s.opts.workers
	log.Info("batch started",
		"items", n,
		"workers", nw,
		"shards", s.set.Shards(),
		"strategy", string(s.opts.strategy),
		"routing", string(s.opts.routing),
		"pre_aggregate", s.opts.preAggregate,
	)

	var processed atomic.Int64
	progress := func(k int) { processed.Add(int64(k)) }
	if s.opts.progressInterval > 0 {
		ticker := &rate.Sometimes{Interval: s.opts.progressInterval}
		progress = func(k int) {
			done := processed.Add(int64(k))
			ticker.Do(func() {
				log.Info("batch progress", "processed", done, "items", n)
			})
		}
	}

	workers := make([]*worker[K], nw)
	var g errgroup.Group
	for id := range workers {
		w := newWorker(id, s.set, &s.opts, logger.L(logger.WithWorker(ctx, id)))
		workers[id] = w
		sp := assign(n, nw, id, s.opts.strategy)
		g.Go(func() error {
			return w.run(ctx, items, sp, progress)
		})
	}
	runErr := g.Wait()

	stats := &domain.Stats{
		RunID:   runID,
		Workers: make([]domain.WorkerReport, 0, nw),
	}
	var ops opCounts
	for _, w := range workers {
		stats.Items += w.report.Items
		stats.Direct += w.report.Direct
		stats.Staged += w.report.Staged
		ops.add(w.ops)
		for _, k := range w.failedKeys {
			stats.AddFailedKey(k)
		}
		stats.Workers = append(stats.Workers, w.report)
		log.Debug("worker finished",
			"worker", w.id,
			"home", w.report.Home,
			"items", w.report.Items,
			"direct", w.report.Direct,
			"staged", w.report.Staged,
			"flushes", w.report.Flushes,
			"duration", w.report.Duration,
		)
	}

	if stats.Staged > 0 {
		mergeStart := time.Now()
		merged := s.merge(log)
		stats.Merge = time.Since(mergeStart)
		for i := range merged {
			m := &merged[i]
			stats.Merged += m.applied
			ops.add(m.ops)
			for _, k := range m.failedKeys {
				stats.AddFailedKey(k)
			}
		}
		s.opts.recorder.ObserveMerge(stats.Merge)
	}

	stats.Inserted = ops.inserted
	stats.Updated = ops.updated
	stats.Failed = ops.failed
	stats.Duration = time.Since(start)

	rec := s.opts.recorder
	rec.RecordItems(metric.PathDirect, stats.Direct)
	rec.RecordItems(metric.PathStaged, stats.Staged)
	rec.RecordTableOps(metric.OutcomeInserted, stats.Inserted)
	rec.RecordTableOps(metric.OutcomeUpdated, stats.Updated)
	rec.RecordTableOps(metric.OutcomeFailed, stats.Failed)
	rec.ObserveBatch(stats.Duration)

	if runErr != nil {
		log.Warn("batch cancelled", "items", stats.Items, "error", runErr)
		return stats, runErr
	}

	log.Info("batch finished",
		"items", stats.Items,
		"direct", stats.Direct,
		"staged", stats.Staged,
		"merged", stats.Merged,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return stats, nil
}

// mergeResult is the outcome of merging one shard.
type mergeResult struct {
	applied    uint64
	ops        opCounts
	failedKeys []string

	_ cpu.CacheLinePad
}

// merge drains every exchange into its table, one goroutine per shard.
func (s *BatchService[K]) merge(log logger.Logger) []mergeResult {
	results := make([]mergeResult, s.set.Shards())

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			r := &results[i]
			r.applied = uint64(s.set.MergeShard(i, func(it domain.Item[K], res cmap.Result, err error) {
				switch {
				case err != nil:
					r.ops.failed++
					if len(r.failedKeys) < domain.MaxFailedKeys {
						r.failedKeys = append(r.failedKeys, fmt.Sprint(it.Key))
						log.Warn("merge failed", "shard", i, "key", it.Key, "error", err)
					}
				case res.Inserted:
					r.ops.inserted++
					s.opts.recorder.ObserveProbes(res.Probes)
				default:
					r.ops.updated++
				}
			}))
			return nil
		})
	}
	_ = g.Wait()

	return results
}
