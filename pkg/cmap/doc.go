// Package cmap provides a lock-free, fixed-capacity counting table.
//
// A Table is a flat open-addressing array of 2^logSize slots. Keys claim an
// empty slot with compare-and-swap and keep it for the lifetime of the table;
// counts are updated with a CAS retry loop shared by all update policies.
//
//   - Element: a key and its count; the zero key is the empty sentinel
//   - Key / IntKey: fixed-size keys with no heap references
//   - Policy: Overwrite, Increment or Decrement applied to a claimed slot
//   - Partitioner / Sharded: a fixed set of tables with murmur3 key routing
//
// Usage:
//
//	t, err := cmap.New[cmap.Key](12, cmap.DefaultMaxProbe)
//	_, err = t.InsertOrUpdate(cmap.MustKey("word"), 1, cmap.Increment)
//	e, ok := t.Find(cmap.MustKey("word"))
//
// Thread Safety:
//
// Find, InsertOrUpdate, ApplyAt and the iterators are safe for concurrent use.
// Reset is not. There is no delete and no resize; probing is bounded by
// MaxProbe and a key that does not fit reports ErrTableFull.
//
// The package holds no unsafe pointer arithmetic; its tests and those of the
// packages above it are run with go test -race.
package cmap
