package config

import (
	"fmt"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/core/service"
	"github.com/yndnr/countmesh/internal/infra/confloader"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
)

// Load builds the configuration from defaults, the optional file at path,
// COUNTMESH_ environment variables and flag overrides, in that order, and
// verifies the result. The returned loader can be passed to Reload.
func Load(path string, overrides map[string]any) (*Config, *confloader.Loader, error) {
	l := confloader.NewLoader(confloader.WithConfigFile(path))
	cfg, err := build(l, overrides, false)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}

// Reload reads the file and environment again and reapplies overrides.
func Reload(l *confloader.Loader, overrides map[string]any) (*Config, error) {
	return build(l, overrides, true)
}

func build(l *confloader.Loader, overrides map[string]any, reload bool) (*Config, error) {
	cfg := Default()

	load := l.Load
	if reload {
		load = l.Reload
	}
	if err := load(cfg); err != nil {
		return nil, domain.ErrInvalidConfig.WithCause(err)
	}

	if len(overrides) > 0 {
		if err := l.LoadMap(overrides); err != nil {
			return nil, domain.ErrInvalidConfig.WithCause(err)
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, domain.ErrInvalidConfig.WithCause(fmt.Errorf("unmarshal overrides: %w", err))
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ShardSet returns the shard set sizing.
func (c *Config) ShardSet() shardset.Config {
	return shardset.Config{
		ShardCount: c.Table.Shards,
		LogSize:    c.Table.LogSize,
		MaxProbe:   c.Table.MaxProbe,
	}
}

// BatchOptions returns the batch service options for this configuration.
func (c *Config) BatchOptions() ([]service.BatchOption, error) {
	strategy, err := domain.ParseStrategy(c.Batch.Strategy)
	if err != nil {
		return nil, err
	}
	routing, err := domain.ParseRouting(c.Batch.Routing)
	if err != nil {
		return nil, err
	}

	workers := c.Batch.Workers
	if workers == 0 {
		workers = c.Table.Shards
	}

	return []service.BatchOption{
		service.WithWorkers(workers),
		service.WithStrategy(strategy),
		service.WithRouting(routing),
		service.WithPreAggregate(c.Batch.PreAggregate),
		service.WithAggregatorCapacity(c.Batch.AggregatorCapacity),
		service.WithProgressInterval(c.Batch.ProgressInterval),
	}, nil
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}
