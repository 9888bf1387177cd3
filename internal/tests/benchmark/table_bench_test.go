package benchmark

import (
	"sync/atomic"
	"testing"

	"github.com/yndnr/countmesh/pkg/cmap"
)

func BenchmarkTable_Increment(b *testing.B) {
	for _, vocabSize := range []int{64, 4096} {
		b.Run(sizeName("vocab", vocabSize), func(b *testing.B) {
			tbl, err := cmap.New[cmap.Key](16, cmap.DefaultMaxProbe)
			if err != nil {
				b.Fatal(err)
			}
			vocab := vocabulary(vocabSize)

			var next atomic.Uint64
			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := next.Add(1) * 7919
				for pb.Next() {
					if _, err := tbl.InsertOrUpdate(vocab[i%uint64(len(vocab))], 1, cmap.Increment); err != nil {
						b.Error(err)
						return
					}
					i++
				}
			})
		})
	}
}

func BenchmarkTable_IntKey(b *testing.B) {
	tbl, err := cmap.New[cmap.IntKey](20, cmap.DefaultMaxProbe)
	if err != nil {
		b.Fatal(err)
	}

	var next atomic.Uint64
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			k := cmap.IntKey(next.Add(1)%(1<<19) + 1)
			if _, err := tbl.InsertOrUpdate(k, 1, cmap.Increment); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkTable_Find(b *testing.B) {
	tbl, err := cmap.New[cmap.Key](14, cmap.DefaultMaxProbe)
	if err != nil {
		b.Fatal(err)
	}
	vocab := vocabulary(8192)
	for _, k := range vocab {
		if _, err := tbl.InsertOrUpdate(k, 1, cmap.Increment); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, ok := tbl.Find(vocab[i%len(vocab)]); !ok {
				b.Error("key not found")
				return
			}
			i++
		}
	})
}
