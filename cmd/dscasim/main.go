// dscasim replays request traces through simulated caches.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:  "dscasim",
	Usage: "cache eviction policy simulator",
	Flags: debugFlags,
	Before: func(ctx *cli.Context) error {
		return setupDebug(ctx)
	},
	After: func(ctx *cli.Context) error {
		return exitDebug(ctx)
	},
	Commands: []*cli.Command{
		runCommand,
		analyzeCommand,
		optimalCommand,
		policiesCommand,
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
