// Package service runs counting passes over a shard set.
//
// BatchService.ProcessBatch splits its input between a fixed pool of
// workers. In staged routing each worker owns one home shard: updates for
// that shard are applied with CAS straight away, the rest are buffered per
// destination shard and handed over through the shard's exchange. After all
// workers have joined, one goroutine per shard merges the exchange into its
// table. In direct routing every update goes straight to its owning table.
//
// Either way the per-key totals in the shard set equal the sum of the input
// deltas once ProcessBatch returns.
package service
