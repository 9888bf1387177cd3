package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/countmesh/internal/storage/shardset"
)

// OccupancySource reports per-shard fill levels.
type OccupancySource interface {
	Occupancy() []shardset.ShardStat
}

// Collector exports shard occupancy at scrape time.
type Collector struct {
	src OccupancySource

	occupied *prometheus.Desc
	capacity *prometheus.Desc
	pending  *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src OccupancySource) *Collector {
	return &Collector{
		src: src,
		occupied: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "slots_occupied"),
			"Occupied slots in the shard table.",
			[]string{"shard"}, nil,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "slots_capacity"),
			"Total slots in the shard table.",
			[]string{"shard"}, nil,
		),
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shard", "pending_entries"),
			"Staged entries waiting in the shard exchange.",
			[]string{"shard"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.occupied
	ch <- c.capacity
	ch <- c.pending
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.src.Occupancy() {
		shard := strconv.Itoa(st.Shard)
		ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(st.Used), shard)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity), shard)
		ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending), shard)
	}
}
