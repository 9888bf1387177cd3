package cmap

import (
	"encoding/binary"
	"math/bits"
)

const (
	murmurC1 = 0xcc9e2d51
	murmurC2 = 0x1b873593
)

// murmur32 is MurmurHash3 x86_32 with seed 0. Blocks are read with
// encoding/binary so the hash stays valid under checkptr instrumentation.
func murmur32(data []byte) uint32 {
	var h uint32
	n := len(data)

	for len(data) >= 4 {
		k := binary.LittleEndian.Uint32(data)
		k *= murmurC1
		k = bits.RotateLeft32(k, 15)
		k *= murmurC2

		h ^= k
		h = bits.RotateLeft32(h, 13)
		h = h*5 + 0xe6546b64
		data = data[4:]
	}

	var k uint32
	switch len(data) {
	case 3:
		k ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		k ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		k ^= uint32(data[0])
		k *= murmurC1
		k = bits.RotateLeft32(k, 15)
		k *= murmurC2
		h ^= k
	}

	h ^= uint32(n)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}
