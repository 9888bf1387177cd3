package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/countmesh/internal/config"
	"github.com/yndnr/countmesh/internal/infra/confloader"
	"github.com/yndnr/countmesh/internal/infra/shutdown"
	"github.com/yndnr/countmesh/internal/server/httpserver"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
	"github.com/yndnr/countmesh/internal/telemetry/metric"
)

type serveOptions struct {
	addr      string
	registry  *metric.Registry
	shards    httpserver.OccupancySource
	loader    *confloader.Loader
	overrides map[string]any
	logger    logger.Logger
}

// serve exposes the registry until the process is interrupted. With a
// config file, edits to it are re-read and log.level is applied live.
func serve(c *cli.Context, opts serveOptions) error {
	h := shutdown.NewHandler(shutdown.DefaultTimeout, shutdown.WithLogger(opts.logger))

	srv := httpserver.New(opts.addr, httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics: opts.registry.Handler(),
		Shards:  opts.shards,
		Logger:  opts.logger,
	}), opts.logger)
	if err := srv.Start(); err != nil {
		return err
	}
	h.OnShutdown("http", srv.Shutdown)

	if path := opts.loader.FilePath(); path != "" {
		w, err := watchConfig(path, opts)
		if err != nil {
			opts.logger.Warn("config watch disabled", "path", path, "error", err)
		} else {
			h.OnShutdown("config watcher", func(context.Context) error { return w.Stop() })
		}
	}

	opts.logger.Info("serving metrics until interrupted", "addr", srv.Addr().String())
	return h.Wait(c.Context)
}

func watchConfig(path string, opts serveOptions) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(opts.logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		applyReload(opts.loader, opts.overrides, opts.logger)
	})
	w.StartAsync()
	return w, nil
}

// applyReload re-reads the configuration and applies the settings that can
// change at runtime. Only log.level can.
func applyReload(l *confloader.Loader, overrides map[string]any, log logger.Logger) {
	cfg, err := config.Reload(l, overrides)
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	old := logger.Level()
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	log.Info("config reloaded", "log_level", cfg.Log.Level, "previous", old)
}
