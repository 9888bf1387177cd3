package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyTable(&cfg.Table); err != nil {
		return err
	}
	if err := verifyBatch(&cfg.Batch); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return verifyMetrics(&cfg.Metrics)
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.WithDetails(fmt.Sprintf(format, args...))
}

func verifyTable(cfg *TableSection) error {
	if cfg.Shards < 1 {
		return invalid("table.shards must be at least 1, got %d", cfg.Shards)
	}
	if cfg.LogSize < 1 || cfg.LogSize > cmap.MaxLogSize {
		return invalid("table.log_size must be in [1, %d], got %d", cmap.MaxLogSize, cfg.LogSize)
	}
	if cfg.MaxProbe < 1 {
		return invalid("table.max_probe must be at least 1, got %d", cfg.MaxProbe)
	}
	return nil
}

func verifyBatch(cfg *BatchSection) error {
	if cfg.Workers < 0 {
		return invalid("batch.workers must not be negative, got %d", cfg.Workers)
	}
	if _, err := domain.ParseStrategy(cfg.Strategy); err != nil {
		return invalid("batch.strategy %q is not contiguous or round_robin", cfg.Strategy)
	}
	if _, err := domain.ParseRouting(cfg.Routing); err != nil {
		return invalid("batch.routing %q is not staged or direct", cfg.Routing)
	}
	if cfg.AggregatorCapacity < 1 {
		return invalid("batch.aggregator_capacity must be at least 1, got %d", cfg.AggregatorCapacity)
	}
	if cfg.ProgressInterval < 0 {
		return invalid("batch.progress_interval must not be negative")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level %q is not debug, info, warn or error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return invalid("log.format %q is not json or text", cfg.Format)
	}
	return nil
}

func verifyMetrics(cfg *MetricsSection) error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return domain.ErrInvalidConfig.WithDetails("metrics.addr " + cfg.Addr).WithCause(err)
	}
	return nil
}
