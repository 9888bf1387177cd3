package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/countmesh/internal/cli/output"
	"github.com/yndnr/countmesh/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			return output.NewFormatter(flags.Output, flags.Wide).Format(outWriter(c), buildinfo.Get())
		},
	}
}
