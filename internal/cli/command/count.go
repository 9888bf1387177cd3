package command

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/countmesh/internal/cli/input"
	"github.com/yndnr/countmesh/internal/cli/output"
	"github.com/yndnr/countmesh/internal/core/domain"
	"github.com/yndnr/countmesh/internal/core/service"
	"github.com/yndnr/countmesh/internal/storage/shardset"
	"github.com/yndnr/countmesh/internal/telemetry/metric"
	"github.com/yndnr/countmesh/pkg/cmap"
)

// CountCommand returns the count command.
func CountCommand() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count words or letters from files (or stdin) in one batch pass",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "repeat",
				Aliases: []string{"n"},
				Usage:   "Feed the input this many times",
				Value:   1,
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"k"},
				Usage:   "Show the k most frequent keys (negative shows all)",
				Value:   10,
			},
			&cli.StringFlag{
				Name:  "unit",
				Usage: "What to count: word, letter",
				Value: string(input.UnitWord),
			},
			&cli.StringSliceFlag{
				Name:  "lookup",
				Usage: "Report the count of this key (repeatable)",
			},
			&cli.IntSliceFlag{
				Name:  "dump",
				Usage: "List the occupied slots of this shard (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a read progress bar on stderr",
			},
		},
		Action: runCount,
	}
}

func runCount(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg, loader, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	unit, err := input.ParseUnit(c.String("unit"))
	if err != nil {
		return err
	}
	repeat := c.Int("repeat")
	if repeat < 1 {
		return domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("repeat must be at least 1, got %d", repeat))
	}

	tok := input.NewTokenizer(unit)
	items, err := readInputs(c, tok, c.Args().Slice(), c.Bool("progress"))
	if err != nil {
		return err
	}
	items = input.Repeat(items, repeat)

	set, err := shardset.New[cmap.Key](cfg.ShardSet())
	if err != nil {
		return err
	}
	dumps, err := dumpShards(c.IntSlice("dump"), set.Shards())
	if err != nil {
		return err
	}

	reg := metric.NewRegistry()
	if err := reg.Register(metric.NewCollector(set)); err != nil {
		return err
	}

	opts, err := cfg.BatchOptions()
	if err != nil {
		return err
	}
	opts = append(opts, service.WithLogger(log), service.WithRecorder(reg))
	svc, err := service.NewBatchService(set, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	stats, runErr := svc.ProcessBatch(ctx, items)
	stop()
	if stats == nil {
		return runErr
	}

	rep := buildReport(set, stats, reportOptions{
		top:      c.Int("top"),
		lookups:  c.StringSlice("lookup"),
		dumps:    dumps,
		rejected: tok.Rejected,
		wide:     flags.Wide,
	})
	if err := printReport(outWriter(c), flags, rep); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if cfg.Metrics.Addr == "" {
		return nil
	}
	return serve(c, serveOptions{
		addr:      cfg.Metrics.Addr,
		registry:  reg,
		shards:    set,
		loader:    loader,
		overrides: overrides(c),
		logger:    log,
	})
}

// readInputs tokenizes every path in order. No paths, or "-", reads the
// app's standard input.
func readInputs(c *cli.Context, tok *input.Tokenizer, paths []string, progress bool) ([]domain.Item[cmap.Key], error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var bar *output.ProgressBar
	if progress {
		bar = output.NewProgressBar(errWriter(c), "reading")
		var total int64
		for _, p := range paths {
			if p == "-" {
				total = 0
				break
			}
			if fi, err := os.Stat(p); err == nil {
				total += fi.Size()
			}
		}
		bar.SetTotal(total)
	}

	var items []domain.Item[cmap.Key]
	for _, p := range paths {
		var err error
		items, err = readInput(c, tok, items, p, bar)
		if err != nil {
			return nil, err
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return items, nil
}

func readInput(c *cli.Context, tok *input.Tokenizer, items []domain.Item[cmap.Key], path string, bar *output.ProgressBar) ([]domain.Item[cmap.Key], error) {
	var r io.Reader
	if path == "-" {
		r = c.App.Reader
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if bar != nil {
		r = bar.Reader(r)
	}

	items, err := tok.Collect(items, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

// dumpShards validates the shard indexes passed to --dump.
func dumpShards(shards []int, n int) ([]int, error) {
	for _, i := range shards {
		if i < 0 || i >= n {
			return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("dump shard %d out of range [0, %d)", i, n))
		}
	}
	return shards, nil
}
