package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// span is the slice of input a worker scans: start, start+stride, ... < end.
type span struct {
	start, end, stride int
}

// assign returns worker w's share of n items.
//
// Contiguous spans differ in length by at most one; the first n%workers
// workers take the extra item.
func assign(n, workers, w int, s domain.Strategy) span {
	if s == domain.StrategyRoundRobin {
		return span{start: w, end: n, stride: workers}
	}
	base, rem := n/workers, n%workers
	start := w*base + min(w, rem)
	end := start + base
	if w < rem {
		end++
	}
	return span{start: start, end: end, stride: 1}
}

// len returns the number of items in the span.
func (s span) len() int {
	if s.end <= s.start {
		return 0
	}
	return (s.end - s.start + s.stride - 1) / s.stride
}

// opCounts tallies table operations.
type opCounts struct {
	inserted uint64
	updated  uint64
	failed   uint64
}

func (c *opCounts) add(o opCounts) {
	c.inserted += o.inserted
	c.updated += o.updated
	c.failed += o.failed
}

// worker is one member of the pool. All fields except state and the shared
// progress counter belong to the worker goroutine.
type worker[K cmap.Hashable] struct {
	id   int
	home int
	set  *shardset.ShardSet[K]
	opts *batchOptions
	log  logger.Logger

	aggs []*shardset.Aggregator[K]

	report     domain.WorkerReport
	ops        opCounts
	failedKeys []string

	_     cpu.CacheLinePad
	state atomic.Int32
	_     cpu.CacheLinePad
}

func newWorker[K cmap.Hashable](id int, set *shardset.ShardSet[K], opts *batchOptions, log logger.Logger) *worker[K] {
	home := domain.NoHomeShard
	if opts.routing == domain.RoutingStaged && id < set.Shards() {
		home = id
	}
	w := &worker[K]{
		id:   id,
		home: home,
		set:  set,
		opts: opts,
		log:  log,
		aggs: make([]*shardset.Aggregator[K], set.Shards()),
	}
	w.report.ID = id
	w.report.Home = home
	return w
}

// State returns the worker's current lifecycle state.
func (w *worker[K]) State() domain.WorkerState {
	return domain.WorkerState(w.state.Load())
}

func (w *worker[K]) setState(s domain.WorkerState) {
	if w.State() != s {
		w.state.Store(int32(s))
	}
}

// run scans the worker's span. It stops early when ctx is cancelled, but
// always flushes its aggregators so every scanned item reaches the merge.
func (w *worker[K]) run(ctx context.Context, items []domain.Item[K], sp span, progress func(int)) error {
	start := time.Now()
	defer func() {
		w.flushAll()
		w.report.Duration = time.Since(start)
		w.report.Failed = w.ops.failed
		w.setState(domain.WorkerDone)
		w.report.State = domain.WorkerDone
	}()

	w.setState(domain.WorkerScanning)

	var zero K
	scanned := 0
	for i := sp.start; i < sp.end; i += sp.stride {
		it := items[i]
		w.report.Items++

		switch {
		case it.Key == zero:
			w.fail(it.Key, domain.ErrInvalidKey.WithDetails("empty key").WithCause(cmap.ErrEmptyKey))
		default:
			shard := w.set.ShardOf(it.Key)
			if w.opts.routing == domain.RoutingDirect || shard == w.home {
				w.setState(domain.WorkerUpdatingHome)
				w.apply(shard, it)
			} else {
				w.setState(domain.WorkerStagingForeign)
				w.stage(shard, it)
			}
		}

		scanned++
		if scanned == progressEvery {
			progress(scanned)
			scanned = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	progress(scanned)
	return nil
}

func (w *worker[K]) apply(shard int, it domain.Item[K]) {
	w.report.Direct++
	res, err := w.set.InsertOrUpdateAt(shard, it.Key, it.Delta, cmap.Increment)
	w.record(it.Key, res, err)
}

func (w *worker[K]) stage(shard int, it domain.Item[K]) {
	w.report.Staged++
	a := w.aggs[shard]
	if a == nil {
		a = shardset.NewAggregator[K](w.opts.aggCapacity, w.opts.preAggregate)
		w.aggs[shard] = a
	}
	if a.Add(it.Key, it.Delta) {
		w.flush(shard)
	}
}

func (w *worker[K]) flush(shard int) {
	if w.aggs[shard].FlushTo(w.set.Exchange(shard)) > 0 {
		w.report.Flushes++
	}
}

func (w *worker[K]) flushAll() {
	for shard, a := range w.aggs {
		if a != nil {
			w.flush(shard)
		}
	}
}

func (w *worker[K]) record(key K, res cmap.Result, err error) {
	switch {
	case err != nil:
		w.fail(key, err)
	case res.Inserted:
		w.ops.inserted++
		w.opts.recorder.ObserveProbes(res.Probes)
	default:
		w.ops.updated++
	}
}

func (w *worker[K]) fail(key K, err error) {
	w.ops.failed++
	if len(w.failedKeys) < domain.MaxFailedKeys {
		w.failedKeys = append(w.failedKeys, fmt.Sprint(key))
		w.log.Warn("update failed", "key", key, "error", err)
	}
}
