// Package benchmark measures the count table and the batch pass.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare routings on one input size:
//
//	go test -bench='BenchmarkProcessBatch/items_1000000' -benchtime=5x ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
