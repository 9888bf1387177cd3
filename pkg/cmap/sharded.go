package cmap

import "fmt"

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Partitioner maps keys to shard indexes.
//
// It depends only on the key bytes and the shard count, so every goroutine
// agrees on ownership for the lifetime of the partitioner.
type Partitioner[K Hashable] struct {
	n uint32
}

// NewPartitioner creates a partitioner over shards shards.
func NewPartitioner[K Hashable](shards int) (Partitioner[K], error) {
	if shards < 1 {
		return Partitioner[K]{}, fmt.Errorf("%w: shard count %d must be positive", ErrInvalidConfig, shards)
	}
	return Partitioner[K]{n: uint32(shards)}, nil
}

// ShardOf returns the index of the shard owning key.
func (p Partitioner[K]) ShardOf(key K) int {
	return int(key.Sum32() % p.n)
}

// Shards returns the shard count.
func (p Partitioner[K]) Shards() int { return int(p.n) }

// Sharded is a fixed set of Tables with keys routed by a Partitioner.
type Sharded[K Hashable] struct {
	shards []*Table[K]
	part   Partitioner[K]
}

// NewSharded creates shardCount tables of 2^logSize slots each.
func NewSharded[K Hashable](shardCount, logSize, maxProbe int) (*Sharded[K], error) {
	part, err := NewPartitioner[K](shardCount)
	if err != nil {
		return nil, err
	}

	m := &Sharded[K]{
		shards: make([]*Table[K], shardCount),
		part:   part,
	}
	for i := range m.shards {
		t, err := New[K](logSize, maxProbe)
		if err != nil {
			return nil, err
		}
		m.shards[i] = t
	}
	return m, nil
}

// Partitioner returns the key router.
func (m *Sharded[K]) Partitioner() Partitioner[K] { return m.part }

// ShardOf returns the index of the shard owning key.
func (m *Sharded[K]) ShardOf(key K) int { return m.part.ShardOf(key) }

// Shards returns the number of shards.
func (m *Sharded[K]) Shards() int { return len(m.shards) }

// Shard returns the table of shard i.
func (m *Sharded[K]) Shard(i int) *Table[K] { return m.shards[i] }

// Find looks key up in its owning shard.
func (m *Sharded[K]) Find(key K) (Element[K], bool) {
	return m.shards[m.part.ShardOf(key)].Find(key)
}

// InsertOrUpdate applies delta to key in its owning shard.
func (m *Sharded[K]) InsertOrUpdate(key K, delta int64, p Policy) (Result, error) {
	return m.shards[m.part.ShardOf(key)].InsertOrUpdate(key, delta, p)
}

// Len returns the number of stored keys across all shards.
func (m *Sharded[K]) Len() int {
	n := 0
	for _, t := range m.shards {
		n += t.Len()
	}
	return n
}

// Range iterates shard by shard. The callback returns false to stop.
func (m *Sharded[K]) Range(fn func(shard int, e Element[K]) bool) {
	for i, t := range m.shards {
		stop := false
		t.Range(func(e Element[K]) bool {
			if !fn(i, e) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// Items returns every stored element.
func (m *Sharded[K]) Items() []Element[K] {
	items := make([]Element[K], 0, m.Len())
	m.Range(func(_ int, e Element[K]) bool {
		items = append(items, e)
		return true
	})
	return items
}

// Reset empties all shards. It must not run concurrently with other methods.
func (m *Sharded[K]) Reset() {
	for _, t := range m.shards {
		t.Reset()
	}
}
