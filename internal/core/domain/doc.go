// Package domain defines the core value types shared by the counting engine.
//
// This package contains no IO and no concurrency primitives:
//
//   - Item: a key and the delta to apply to it
//   - Stats / WorkerReport: the outcome of one processing pass
//   - Strategy / Routing: how input is split and how updates reach a shard
//   - Errors: coded errors reported by the engine
package domain
