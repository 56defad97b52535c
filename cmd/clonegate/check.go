package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/clonegate/clonegate/internal/output"
	"github.com/clonegate/clonegate/internal/progress"
	"github.com/clonegate/clonegate/internal/scope"
	"github.com/clonegate/clonegate/internal/waiver"
	"github.com/clonegate/clonegate/pkg/cache"
	"github.com/clonegate/clonegate/pkg/config"
	"github.com/clonegate/clonegate/pkg/gate"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "analyze the scoped files and fail on blocking duplication",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "context",
				Aliases: []string{"c"},
				Value:   "commit",
				Usage:   "analysis scope: commit, push or ci",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format: text or json",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file path (default: .clonegate.toml when present)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the report to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "dir",
				Value: ".",
				Usage: "repository directory",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "skip the analysis cache for this run",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "suppress the progress bar",
			},
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	sc, err := scope.ParseScope(c.String("context"))
	if err != nil {
		return err
	}

	store := cache.New(cfg.Cache.Path, cfg.Cache.TTLHours,
		cfg.Cache.Enabled && !c.Bool("no-cache"))
	store.Load()

	waivers, err := waiver.Load(cfg.WaiverFile)
	if err != nil {
		return err
	}
	provider, err := scope.NewGitProvider(c.String("dir"), cfg)
	if err != nil {
		return err
	}

	format := output.ParseFormat(c.String("format"))
	formatter, err := output.NewFormatter(format, c.String("output"),
		isatty.IsTerminal(os.Stdout.Fd()))
	if err != nil {
		return err
	}
	defer formatter.Close()

	g := gate.New(cfg, store, waivers)
	g.RootDir = c.String("dir")
	var bar *progress.Scan
	g.OnStart = func(total int) {
		enabled := format == output.FormatText &&
			!c.Bool("no-progress") &&
			isatty.IsTerminal(os.Stderr.Fd())
		bar = progress.NewScan(total, enabled)
	}
	g.OnProgress = func() { bar.Tick() }

	res, err := g.Run(c.Context, provider, sc)
	if err != nil {
		bar.Fail(err)
		return err
	}
	bar.Done()

	// Cache write failures never fail an otherwise clean scan.
	if err := store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving cache: %v\n", err)
	}
	if err := formatter.Write(res); err != nil {
		return err
	}
	if res.Blocked() {
		return cli.Exit("", 1)
	}
	return nil
}

// loadConfig resolves the effective configuration: an explicit path
// must load, the default path is optional.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}
