package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/clonegate/clonegate/pkg/cache"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "manage the analysis cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file path (default: .clonegate.toml when present)",
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "delete the cache store",
				Action: func(c *cli.Context) error {
					store, err := openCache(c)
					if err != nil {
						return err
					}
					if err := store.Clear(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "cache cleared")
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "show cache entry counts and store size",
				Action: func(c *cli.Context) error {
					store, err := openCache(c)
					if err != nil {
						return err
					}
					store.Load()
					stats := store.GetStats()
					fmt.Fprintf(c.App.Writer, "path:    %s\n", stats.Path)
					fmt.Fprintf(c.App.Writer, "entries: %d\n", stats.Entries)
					fmt.Fprintf(c.App.Writer, "regions: %d\n", stats.Regions)
					fmt.Fprintf(c.App.Writer, "size:    %d bytes\n", stats.SizeBytes)
					return nil
				},
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Path, cfg.Cache.TTLHours, true), nil
}
