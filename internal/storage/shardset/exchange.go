package shardset

import (
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// Exchange collects staged updates destined for one shard.
//
// Push and Drain are safe for concurrent use. The lock is separate from the
// table's slot CAS, so staging never blocks direct updates.
type Exchange[K cmap.Hashable] struct {
	mu      sync.Mutex
	pending []domain.Item[K]
	pushes  uint64

	_ cpu.CacheLinePad
}

// Push appends a batch of staged updates.
func (x *Exchange[K]) Push(items []domain.Item[K]) {
	if len(items) == 0 {
		return
	}
	x.mu.Lock()
	x.pending = append(x.pending, items...)
	x.pushes++
	x.mu.Unlock()
}

// Pending returns the number of staged entries not yet drained.
func (x *Exchange[K]) Pending() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.pending)
}

// Pushes returns the number of non-empty batches pushed since the last reset.
func (x *Exchange[K]) Pushes() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.pushes
}

// Drain removes every staged entry and returns them with the deltas of
// repeated keys summed. Keys keep the order of their first appearance.
func (x *Exchange[K]) Drain() []domain.Item[K] {
	x.mu.Lock()
	pending := x.pending
	x.pending = nil
	x.mu.Unlock()

	return sumByKey(pending)
}

func (x *Exchange[K]) reset() {
	x.mu.Lock()
	x.pending = nil
	x.pushes = 0
	x.mu.Unlock()
}

// sumByKey folds items in place.
func sumByKey[K cmap.Hashable](items []domain.Item[K]) []domain.Item[K] {
	if len(items) < 2 {
		return items
	}

	index := make(map[K]int, len(items))
	out := items[:0]
	for _, it := range items {
		if i, ok := index[it.Key]; ok {
			out[i].Delta += it.Delta
			continue
		}
		index[it.Key] = len(out)
		out = append(out, it)
	}
	return out
}
