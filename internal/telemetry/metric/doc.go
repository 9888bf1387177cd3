// Package metric provides Prometheus metrics for countmesh.
//
//   - prometheus.go: registry, batch and table metrics, HTTP handler
//   - collector.go: scrape-time shard occupancy collector
//
// Metrics are exposed at /metrics in Prometheus format when the count
// command is given a metrics address.
package metric
