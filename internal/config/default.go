package config

import (
	"time"

	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// Default configuration values.
const (
	DefaultShards   = cmap.DefaultShardCount
	DefaultLogSize  = cmap.DefaultLogSize
	DefaultMaxProbe = cmap.DefaultMaxProbe

	DefaultWorkers            = 0
	DefaultStrategy           = "contiguous"
	DefaultRouting            = "staged"
	DefaultPreAggregate       = true
	DefaultAggregatorCapacity = shardset.DefaultAggregatorCapacity
	DefaultProgressInterval   = 2 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Table: TableSection{
			Shards:   DefaultShards,
			LogSize:  DefaultLogSize,
			MaxProbe: DefaultMaxProbe,
		},
		Batch: BatchSection{
			Workers:            DefaultWorkers,
			Strategy:           DefaultStrategy,
			Routing:            DefaultRouting,
			PreAggregate:       DefaultPreAggregate,
			AggregatorCapacity: DefaultAggregatorCapacity,
			ProgressInterval:   DefaultProgressInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
