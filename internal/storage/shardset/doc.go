// Package shardset owns the shard tables and the staging path that feeds them.
//
// Architecture:
//
//   - Tables: one cmap.Table per shard, keys routed by cmap.Partitioner
//   - Exchange: per-shard staging area guarded by its own mutex
//   - Aggregator: worker-owned buffer of updates for one destination shard
//
// Workers apply updates for their own shard directly and stage the rest.
// A staged update reaches its table only when MergeShard drains the exchange,
// so table counts are complete after every exchange has been merged.
package shardset
