package cmap

import (
	"encoding/binary"
	"errors"
)

// MaxKeyLen is the capacity of a Key in bytes.
// Together with the length byte a Key occupies exactly 64 bytes.
const MaxKeyLen = 63

// Key errors.
var (
	ErrEmptyKey   = errors.New("cmap: key is empty")
	ErrKeyTooLong = errors.New("cmap: key exceeds MaxKeyLen")
)

// Hashable is the constraint satisfied by table keys.
//
// The zero value of a Hashable type is the empty sentinel and is never
// stored. Hash places a key inside a table; Sum32 routes a key to a shard.
// The two must be independent, otherwise the keys of one shard would only
// ever reach a fraction of that shard's slots.
type Hashable interface {
	comparable
	Hash() uint64
	Sum32() uint32
}

// Element is a key and its count.
type Element[K Hashable] struct {
	Key   K
	Count int64
}

// IsEmpty reports whether e holds the empty sentinel key.
func (e Element[K]) IsEmpty() bool {
	var zero K
	return e.Key == zero
}

// Key is a fixed-capacity string key. It holds no heap references so a
// table of Keys is a single flat allocation.
type Key struct {
	n uint8
	b [MaxKeyLen]byte
}

// MakeKey copies s into a Key.
func MakeKey(s string) (Key, error) {
	var k Key
	if len(s) == 0 {
		return k, ErrEmptyKey
	}
	if len(s) > MaxKeyLen {
		return k, ErrKeyTooLong
	}
	k.n = uint8(copy(k.b[:], s))
	return k, nil
}

// MustKey is like MakeKey but panics on error. Intended for constants and tests.
func MustKey(s string) Key {
	k, err := MakeKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Len returns the key length in bytes.
func (k Key) Len() int { return int(k.n) }

// String returns the key as a string.
func (k Key) String() string { return string(k.b[:k.n]) }

// Hash returns the DJB2 hash of the key bytes.
func (k Key) Hash() uint64 {
	h := uint64(5381)
	for _, c := range k.b[:k.n] {
		h = (h << 5) + h + uint64(c)
	}
	return h
}

// Sum32 returns the MurmurHash3 of the key bytes.
func (k Key) Sum32() uint32 {
	return murmur32(k.b[:k.n])
}

// IntKey is an integer key. Zero is the empty sentinel.
type IntKey uint64

// Hash mixes the key with the murmur3 64-bit finalizer.
func (k IntKey) Hash() uint64 {
	x := uint64(k)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Sum32 returns the MurmurHash3 of the little-endian key bytes.
func (k IntKey) Sum32() uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return murmur32(buf[:])
}
