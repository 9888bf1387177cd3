package benchmark

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// ItemCounts defines the batch sizes for benchmarking.
var ItemCounts = []int{10000, 100000, 1000000}

// SmallItemCounts for quick benchmarks.
var SmallItemCounts = []int{1000, 10000}

// newUniqueKey returns a key that no other call returns.
func newUniqueKey() cmap.Key {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, _ := ulid.New(ulid.Timestamp(time.Now()), entropy)
	return cmap.MustKey(strings.ToLower(id.String()))
}

// vocabulary returns n distinct keys.
func vocabulary(n int) []cmap.Key {
	keys := make([]cmap.Key, n)
	for i := range keys {
		keys[i] = newUniqueKey()
	}
	return keys
}

// skewedItems draws count items from vocab with a Zipf distribution, the
// shape of word frequencies in text.
func skewedItems(vocab []cmap.Key, count int) []domain.Item[cmap.Key] {
	r := mrand.New(mrand.NewPCG(1, 2))
	z := mrand.NewZipf(r, 1.1, 1, uint64(len(vocab)-1))
	items := make([]domain.Item[cmap.Key], count)
	for i := range items {
		items[i] = domain.Item[cmap.Key]{Key: vocab[z.Uint64()], Delta: 1}
	}
	return items
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithItemCounts runs a benchmark function with various batch sizes.
func runWithItemCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("items_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
