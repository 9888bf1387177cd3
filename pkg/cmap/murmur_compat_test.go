//go:build !race

package cmap

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/spaolacci/murmur3"
)

// spaolacci/murmur3 reads blocks through uintptr arithmetic that checkptr
// rejects, so the comparison is limited to non-race builds.
func TestMurmur32_MatchesReference(t *testing.T) {
	for n := 0; n <= MaxKeyLen; n++ {
		s := strings.Repeat("k", n/2) + strings.Repeat("Z", n-n/2)
		if got, want := murmur32([]byte(s)), murmur3.Sum32([]byte(s)); got != want {
			t.Fatalf("len %d: murmur32 = %#08x, want %#08x", n, got, want)
		}
	}

	var buf [8]byte
	for _, k := range []IntKey{1, 7, 1 << 33, ^IntKey(0)} {
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		if got, want := k.Sum32(), murmur3.Sum32(buf[:]); got != want {
			t.Errorf("IntKey(%d).Sum32() = %#08x, want %#08x", k, got, want)
		}
	}
}
