// Command clonegate checks a change set for near-duplicate code before
// it lands.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "clonegate",
		Usage:   "block near-duplicate code at commit time",
		Version: version,
		Commands: []*cli.Command{
			checkCommand(),
			initCommand(),
			cacheCommand(),
		},
	}
}
