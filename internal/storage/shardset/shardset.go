package shardset

import (
	"errors"
	"fmt"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// Config sizes a ShardSet.
type Config struct {
	// ShardCount is the number of shards. Any positive value is accepted.
	ShardCount int
	// LogSize gives each shard table 2^LogSize slots.
	LogSize int
	// MaxProbe bounds the probe distance inside a table.
	MaxProbe int
}

// DefaultConfig returns the default sizing.
func DefaultConfig() Config {
	return Config{
		ShardCount: cmap.DefaultShardCount,
		LogSize:    cmap.DefaultLogSize,
		MaxProbe:   cmap.DefaultMaxProbe,
	}
}

// ShardStat describes the fill level of one shard.
type ShardStat struct {
	Shard    int `json:"shard" yaml:"shard"`
	Used     int `json:"used" yaml:"used"`
	Capacity int `json:"capacity" yaml:"capacity"`
	Pending  int `json:"pending" yaml:"pending"`
}

// Slot is an occupied table slot as reported by Dump.
type Slot[K cmap.Hashable] struct {
	Index int
	Key   K
	Count int64
}

// ShardSet is a fixed set of shard tables, each paired with an Exchange.
//
// Errors returned by ShardSet are domain errors carrying the offending key;
// errors.Is matches both the domain sentinel and the underlying cmap error.
type ShardSet[K cmap.Hashable] struct {
	cfg       Config
	tables    *cmap.Sharded[K]
	exchanges []Exchange[K]
}

// New allocates every table and exchange up front.
func New[K cmap.Hashable](cfg Config) (*ShardSet[K], error) {
	tables, err := cmap.NewSharded[K](cfg.ShardCount, cfg.LogSize, cfg.MaxProbe)
	if err != nil {
		return nil, domain.ErrInvalidConfig.
			WithDetails(fmt.Sprintf("shards=%d log_size=%d max_probe=%d", cfg.ShardCount, cfg.LogSize, cfg.MaxProbe)).
			WithCause(err)
	}

	cfg.MaxProbe = tables.Shard(0).MaxProbe()
	return &ShardSet[K]{
		cfg:       cfg,
		tables:    tables,
		exchanges: make([]Exchange[K], cfg.ShardCount),
	}, nil
}

// Config returns the effective configuration. MaxProbe reflects clamping.
func (s *ShardSet[K]) Config() Config { return s.cfg }

// Shards returns the number of shards.
func (s *ShardSet[K]) Shards() int { return s.tables.Shards() }

// ShardOf returns the index of the shard owning key.
func (s *ShardSet[K]) ShardOf(key K) int { return s.tables.ShardOf(key) }

// Table returns the table of shard i.
func (s *ShardSet[K]) Table(i int) *cmap.Table[K] { return s.tables.Shard(i) }

// Exchange returns the staging area of shard i.
func (s *ShardSet[K]) Exchange(i int) *Exchange[K] { return &s.exchanges[i] }

// Find looks key up in its owning shard.
func (s *ShardSet[K]) Find(key K) (cmap.Element[K], bool) {
	return s.tables.Find(key)
}

// InsertOrUpdate applies delta to key in its owning shard.
func (s *ShardSet[K]) InsertOrUpdate(key K, delta int64, p cmap.Policy) (cmap.Result, error) {
	res, err := s.tables.InsertOrUpdate(key, delta, p)
	if err != nil {
		return res, wrapError(key, err)
	}
	return res, nil
}

// InsertOrUpdateAt applies delta to key in shard i. The caller must have
// routed key to i.
func (s *ShardSet[K]) InsertOrUpdateAt(i int, key K, delta int64, p cmap.Policy) (cmap.Result, error) {
	res, err := s.tables.Shard(i).InsertOrUpdate(key, delta, p)
	if err != nil {
		return res, wrapError(key, err)
	}
	return res, nil
}

// MergeShard drains shard i's exchange into its table with Increment.
// fn, when non-nil, receives the outcome of every table operation.
// It returns the number of table operations performed.
func (s *ShardSet[K]) MergeShard(i int, fn func(it domain.Item[K], res cmap.Result, err error)) int {
	items := s.exchanges[i].Drain()
	for _, it := range items {
		res, err := s.InsertOrUpdateAt(i, it.Key, it.Delta, cmap.Increment)
		if fn != nil {
			fn(it, res, err)
		}
	}
	return len(items)
}

// Len returns the number of stored keys.
func (s *ShardSet[K]) Len() int { return s.tables.Len() }

// Items returns every stored element across all shards.
func (s *ShardSet[K]) Items() []cmap.Element[K] { return s.tables.Items() }

// Occupancy reports the fill level of every shard.
func (s *ShardSet[K]) Occupancy() []ShardStat {
	stats := make([]ShardStat, s.Shards())
	for i := range stats {
		t := s.tables.Shard(i)
		stats[i] = ShardStat{
			Shard:    i,
			Used:     t.Len(),
			Capacity: t.Capacity(),
			Pending:  s.exchanges[i].Pending(),
		}
	}
	return stats
}

// Dump returns the occupied slots of shard i in slot order.
func (s *ShardSet[K]) Dump(i int) []Slot[K] {
	t := s.tables.Shard(i)
	slots := make([]Slot[K], 0, t.Len())
	t.RangeSlots(func(index int, e cmap.Element[K]) bool {
		slots = append(slots, Slot[K]{Index: index, Key: e.Key, Count: e.Count})
		return true
	})
	return slots
}

// Reset empties every table and exchange. It must not run concurrently with
// other methods.
func (s *ShardSet[K]) Reset() {
	s.tables.Reset()
	for i := range s.exchanges {
		s.exchanges[i].reset()
	}
}

// wrapError converts a cmap error into the matching domain error.
func wrapError[K cmap.Hashable](key K, err error) error {
	details := fmt.Sprintf("key=%v", key)
	switch {
	case errors.Is(err, cmap.ErrTableFull):
		return domain.ErrTableFull.WithDetails(details).WithCause(err)
	case errors.Is(err, cmap.ErrKeyMismatch):
		return domain.ErrKeyMismatch.WithDetails(details).WithCause(err)
	case errors.Is(err, cmap.ErrEmptyKey), errors.Is(err, cmap.ErrKeyTooLong):
		return domain.ErrInvalidKey.WithDetails(details).WithCause(err)
	case errors.Is(err, cmap.ErrInvalidPolicy), errors.Is(err, cmap.ErrOutOfRange):
		return domain.ErrInvalidArgument.WithDetails(details).WithCause(err)
	default:
		return domain.ErrInternal.WithDetails(details).WithCause(err)
	}
}
