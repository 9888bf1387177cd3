package shardset

import (
	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// DefaultAggregatorCapacity is the number of entries an Aggregator buffers
// before it must be flushed.
const DefaultAggregatorCapacity = 1024

// Aggregator buffers updates for one destination shard on behalf of a
// single worker. It is not safe for concurrent use.
//
// In pre-aggregating mode deltas are summed per key and capacity bounds the
// number of distinct keys. Otherwise every update is kept as its own entry.
type Aggregator[K cmap.Hashable] struct {
	capacity int
	sums     map[K]int64
	raw      []domain.Item[K]
}

// NewAggregator creates an aggregator. A capacity below 1 selects
// DefaultAggregatorCapacity.
func NewAggregator[K cmap.Hashable](capacity int, preAggregate bool) *Aggregator[K] {
	if capacity < 1 {
		capacity = DefaultAggregatorCapacity
	}
	a := &Aggregator[K]{capacity: capacity}
	if preAggregate {
		a.sums = make(map[K]int64, capacity)
	} else {
		a.raw = make([]domain.Item[K], 0, capacity)
	}
	return a
}

// Add stages delta for key and reports whether the aggregator is now full.
func (a *Aggregator[K]) Add(key K, delta int64) bool {
	if a.sums != nil {
		a.sums[key] += delta
		return len(a.sums) >= a.capacity
	}
	a.raw = append(a.raw, domain.Item[K]{Key: key, Delta: delta})
	return len(a.raw) >= a.capacity
}

// Len returns the number of buffered entries.
func (a *Aggregator[K]) Len() int {
	if a.sums != nil {
		return len(a.sums)
	}
	return len(a.raw)
}

// Capacity returns the flush threshold.
func (a *Aggregator[K]) Capacity() int { return a.capacity }

// PreAggregated reports whether deltas are summed per key.
func (a *Aggregator[K]) PreAggregated() bool { return a.sums != nil }

// FlushTo moves every buffered entry into x and returns how many moved.
func (a *Aggregator[K]) FlushTo(x *Exchange[K]) int {
	n := a.Len()
	if n == 0 {
		return 0
	}

	if a.sums != nil {
		batch := make([]domain.Item[K], 0, n)
		for k, d := range a.sums {
			batch = append(batch, domain.Item[K]{Key: k, Delta: d})
		}
		clear(a.sums)
		x.Push(batch)
		return n
	}

	x.Push(a.raw)
	a.raw = a.raw[:0]
	return n
}
