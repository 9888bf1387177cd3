package cmap

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

const (
	// DefaultLogSize gives 4096 slots.
	DefaultLogSize = 12

	// DefaultMaxProbe is the default bound on probe distance.
	DefaultMaxProbe = 100

	// MaxLogSize bounds a single table to 2^30 slots.
	MaxLogSize = 30
)

// Table errors.
var (
	ErrTableFull     = errors.New("cmap: probe distance exhausted")
	ErrKeyMismatch   = errors.New("cmap: slot holds a different key")
	ErrInvalidConfig = errors.New("cmap: invalid table configuration")
	ErrOutOfRange    = errors.New("cmap: slot index out of range")
)

// Slot states. A slot moves empty -> claiming -> occupied exactly once.
const (
	slotEmpty uint32 = iota
	slotClaiming
	slotOccupied
)

type slot[K Hashable] struct {
	state atomic.Uint32
	key   K
	count atomic.Int64
}

// Result describes a successful InsertOrUpdate.
type Result struct {
	// Inserted is true when the key claimed a new slot.
	Inserted bool
	// Probes is the number of slots examined.
	Probes int
}

// Table is a fixed-capacity open-addressing table of counts.
//
// Slots are claimed with compare-and-swap and never released, so a key keeps
// its slot for the lifetime of the table. Probing is linear and bounded by
// MaxProbe; a key that cannot be placed within that distance is rejected with
// ErrTableFull instead of searching the whole table.
//
// All methods except Reset are safe for concurrent use.
type Table[K Hashable] struct {
	slots    []slot[K]
	mask     uint64
	maxProbe int

	_    cpu.CacheLinePad
	used atomic.Int64
	_    cpu.CacheLinePad
}

// New creates a table with 2^logSize slots.
// maxProbe is clamped to the table size.
func New[K Hashable](logSize, maxProbe int) (*Table[K], error) {
	if logSize < 1 || logSize > MaxLogSize {
		return nil, fmt.Errorf("%w: log size %d not in [1, %d]", ErrInvalidConfig, logSize, MaxLogSize)
	}
	if maxProbe < 1 {
		return nil, fmt.Errorf("%w: max probe %d must be positive", ErrInvalidConfig, maxProbe)
	}

	size := 1 << logSize
	if maxProbe > size {
		maxProbe = size
	}

	return &Table[K]{
		slots:    make([]slot[K], size),
		mask:     uint64(size - 1),
		maxProbe: maxProbe,
	}, nil
}

// Capacity returns the number of slots.
func (t *Table[K]) Capacity() int { return len(t.slots) }

// MaxProbe returns the probe distance bound.
func (t *Table[K]) MaxProbe() int { return t.maxProbe }

// Len returns the number of occupied slots.
func (t *Table[K]) Len() int { return int(t.used.Load()) }

// Find returns the element stored for key.
func (t *Table[K]) Find(key K) (Element[K], bool) {
	idx, ok := t.Locate(key)
	if !ok {
		return Element[K]{}, false
	}
	return Element[K]{Key: key, Count: t.slots[idx].count.Load()}, true
}

// Locate returns the slot index holding key.
//
// The probe stops at the first empty slot: inserts never skip an empty slot,
// so the key cannot live further along the chain.
func (t *Table[K]) Locate(key K) (int, bool) {
	var zero K
	if key == zero {
		return -1, false
	}

	h := key.Hash()
	for i := 0; i < t.maxProbe; i++ {
		idx := (h + uint64(i)) & t.mask
		s := &t.slots[idx]
		switch settle(s) {
		case slotEmpty:
			return -1, false
		case slotOccupied:
			if s.key == key {
				return int(idx), true
			}
		}
	}
	return -1, false
}

// InsertOrUpdate applies delta to key under policy p, claiming a slot if the
// key is not present yet. A freshly claimed slot starts at p applied to zero.
func (t *Table[K]) InsertOrUpdate(key K, delta int64, p Policy) (Result, error) {
	if !p.valid() {
		return Result{}, ErrInvalidPolicy
	}
	var zero K
	if key == zero {
		return Result{}, ErrEmptyKey
	}

	h := key.Hash()
	for i := 0; i < t.maxProbe; {
		s := &t.slots[(h+uint64(i))&t.mask]

		switch settle(s) {
		case slotOccupied:
			if s.key == key {
				return Result{Probes: i + 1}, update(s, key, delta, p)
			}
			i++
		case slotEmpty:
			if s.state.CompareAndSwap(slotEmpty, slotClaiming) {
				s.key = key
				s.count.Store(p.initial(delta))
				s.state.Store(slotOccupied)
				t.used.Add(1)
				return Result{Inserted: true, Probes: i + 1}, nil
			}
			// Lost the claim. Look at the same slot again: the winner may
			// hold our key.
		}
	}

	return Result{Probes: t.maxProbe}, ErrTableFull
}

// ApplyAt applies delta under policy p to the slot at index, which must
// already hold key. It is the fast path for callers that cached a position
// from Locate.
func (t *Table[K]) ApplyAt(index int, key K, delta int64, p Policy) error {
	if !p.valid() {
		return ErrInvalidPolicy
	}
	if index < 0 || index >= len(t.slots) {
		return ErrOutOfRange
	}
	return update(&t.slots[index], key, delta, p)
}

// Reset empties every slot. It must not run concurrently with other methods.
func (t *Table[K]) Reset() {
	var zero K
	for i := range t.slots {
		s := &t.slots[i]
		s.key = zero
		s.count.Store(0)
		s.state.Store(slotEmpty)
	}
	t.used.Store(0)
}

// settle waits out an in-flight claim and returns the slot's stable state.
func settle[K Hashable](s *slot[K]) uint32 {
	var bo backoff
	for {
		st := s.state.Load()
		if st != slotClaiming {
			return st
		}
		bo.wait()
	}
}

// update is the single CAS retry loop shared by every policy.
//
// The key is checked on every attempt. A slot holding another key is an
// ownership conflict and fails immediately; a lost count race is retried.
func update[K Hashable](s *slot[K], key K, delta int64, p Policy) error {
	var bo backoff
	for {
		if settle(s) != slotOccupied || s.key != key {
			return ErrKeyMismatch
		}
		old := s.count.Load()
		if s.count.CompareAndSwap(old, p.apply(old, delta)) {
			return nil
		}
		bo.wait()
	}
}
