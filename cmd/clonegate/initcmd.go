package main

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/clonegate/clonegate/pkg/config"
)

const defaultConfigPath = ".clonegate.toml"

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write a config file with the documented defaults",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   defaultConfigPath,
				Usage:   "where to write the config",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing config",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	path := c.String("output")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := toml.Marshal(*config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("rendering default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
