// Package main provides the entry point for countmesh.
//
// countmesh reads text, splits it into keys and counts them with a pool of
// workers writing into a set of lock-free shard tables.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/countmesh/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
