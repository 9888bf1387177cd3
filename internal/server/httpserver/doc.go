// Package httpserver serves the countmesh inspection endpoints.
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness
//   - GET /shards: per-shard occupancy as JSON
//
// The count command starts it when metrics.addr is set and keeps it running
// until the process is signalled.
package httpserver
