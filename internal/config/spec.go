package config

import "time"

// Config is the root configuration for countmesh.
type Config struct {
	Table   TableSection   `koanf:"table" yaml:"table" json:"table"`
	Batch   BatchSection   `koanf:"batch" yaml:"batch" json:"batch"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// TableSection sizes the shard tables.
type TableSection struct {
	// Shards is the number of shard tables.
	Shards int `koanf:"shards" yaml:"shards" json:"shards"`

	// LogSize gives each table 2^LogSize slots.
	LogSize int `koanf:"log_size" yaml:"log_size" json:"log_size"`

	// MaxProbe bounds the linear probe distance.
	MaxProbe int `koanf:"max_probe" yaml:"max_probe" json:"max_probe"`
}

// BatchSection configures ProcessBatch.
type BatchSection struct {
	// Workers is the worker pool size. Zero selects the shard count.
	Workers int `koanf:"workers" yaml:"workers" json:"workers"`

	// Strategy is contiguous or round_robin.
	Strategy string `koanf:"strategy" yaml:"strategy" json:"strategy"`

	// Routing is staged or direct.
	Routing string `koanf:"routing" yaml:"routing" json:"routing"`

	// PreAggregate sums staged deltas per key before handover.
	PreAggregate bool `koanf:"pre_aggregate" yaml:"pre_aggregate" json:"pre_aggregate"`

	// AggregatorCapacity is the staging buffer size per destination shard.
	AggregatorCapacity int `koanf:"aggregator_capacity" yaml:"aggregator_capacity" json:"aggregator_capacity"`

	// ProgressInterval spaces progress log lines during long passes. Zero
	// turns them off.
	ProgressInterval time.Duration `koanf:"progress_interval" yaml:"progress_interval" json:"progress_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `koanf:"addr" yaml:"addr" json:"addr"`
}
