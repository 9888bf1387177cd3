package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/countmesh/internal/cli/output"
	"github.com/yndnr/countmesh/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration (defaults, file, env and flags merged)",
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Check a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}

	format := flags.Output
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format, flags.Wide).Format(outWriter(c), cfg)
}

func configValidate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("config")
	}
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}

	if _, _, err := config.Load(path, overrides(c)); err != nil {
		return err
	}
	fmt.Fprintf(outWriter(c), "%s: ok\n", path)
	return nil
}
