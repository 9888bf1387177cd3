package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/countmesh/internal/cli/output"
	"github.com/yndnr/countmesh/internal/config"
	"github.com/yndnr/countmesh/internal/infra/buildinfo"
	"github.com/yndnr/countmesh/internal/infra/confloader"
	"github.com/yndnr/countmesh/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "countmesh",
		Usage:   "Count keys concurrently in a sharded open-addressing table",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			CountCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

// flagKeys maps flags onto the configuration keys they override.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"shards", "table.shards"},
	{"log-size", "table.log_size"},
	{"max-probe", "table.max_probe"},
	{"workers", "batch.workers"},
	{"strategy", "batch.strategy"},
	{"routing", "batch.routing"},
	{"pre-aggregate", "batch.pre_aggregate"},
	{"aggregator-capacity", "batch.aggregator_capacity"},
	{"progress-interval", "batch.progress_interval"},
	{"log-level", "log.level"},
	{"log-format", "log.format"},
	{"metrics-addr", "metrics.addr"},
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"COUNTMESH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns and per-worker reports)",
		},
		&cli.IntFlag{Name: "shards", Usage: "Number of shard tables"},
		&cli.IntFlag{Name: "log-size", Usage: "Each shard holds 2^log-size slots"},
		&cli.IntFlag{Name: "max-probe", Usage: "Maximum probe distance before a table is full"},
		&cli.IntFlag{Name: "workers", Usage: "Worker goroutines (0 means one per shard)"},
		&cli.StringFlag{Name: "strategy", Usage: "Work split: contiguous, round_robin"},
		&cli.StringFlag{Name: "routing", Usage: "Update routing: staged, direct"},
		&cli.BoolFlag{Name: "pre-aggregate", Usage: "Sum staged deltas per key before the exchange"},
		&cli.IntFlag{Name: "aggregator-capacity", Usage: "Staged entries per destination shard before a flush"},
		&cli.DurationFlag{Name: "progress-interval", Usage: "Minimum time between progress log lines, 0 to disable"},
		&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format: text, json"},
		&cli.StringFlag{Name: "metrics-addr", Usage: "Serve /metrics on this address after counting, until interrupted"},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config string
	Output output.Format
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Config: c.String("config"),
		Output: format,
		Wide:   c.Bool("wide"),
	}, nil
}

// overrides collects the configuration keys set on the command line.
func overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	for _, fk := range flagKeys {
		if c.IsSet(fk.flag) {
			m[fk.key] = c.Value(fk.flag)
		}
	}
	return m
}

// loadConfig builds the effective configuration for a command.
func loadConfig(c *cli.Context) (*config.Config, *confloader.Loader, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}
	return config.Load(flags.Config, overrides(c))
}

// newLogger creates the command logger writing to the app's error stream
// and installs it as the default.
func newLogger(c *cli.Context, cfg *config.Config) (logger.Logger, error) {
	lc := cfg.Logger()
	lc.Output = errWriter(c)
	l, err := logger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(l)
	return l, nil
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return io.Discard
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return io.Discard
}
