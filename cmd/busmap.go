package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	busmap "github.com/jonathanzari/ACE-Analysts"
	"github.com/jonathanzari/ACE-Analysts/config"
	"github.com/jonathanzari/ACE-Analysts/constants"
	"github.com/jonathanzari/ACE-Analysts/render"
	"github.com/pkg/browser"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "busmap",
		Usage: "render GTFS static feeds as an interactive bus map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a busmap.yml config file",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "directory containing the GTFS archives",
			},
			&cli.StringFlag{
				Name:  "glob",
				Usage: "file name pattern the archives match",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "path of the HTML file to write",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "do not open the finished map in the browser",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "stops",
				Usage: "map every bus stop across all feeds",
				Action: func(ctx *cli.Context) error {
					return run(ctx, false)
				},
			},
			{
				Name:  "routes",
				Usage: "map stops plus colored route shapes",
				Action: func(ctx *cli.Context) error {
					return run(ctx, true)
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context, withRoutes bool) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if dir := ctx.String("dir"); dir != "" {
		cfg.Input.Dir = dir
	}
	if glob := ctx.String("glob"); glob != "" {
		cfg.Input.Glob = glob
	}
	if out := ctx.String("out"); out != "" {
		cfg.Output.Path = out
	}
	if ctx.Bool("no-open") {
		cfg.Output.Open = false
	}

	pc := color.New(color.FgCyan)
	wc := color.New(color.FgYellow)

	paths, err := busmap.DiscoverArchives(cfg.Input.Dir, cfg.Input.Glob)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d archive(s) in %s:\n", len(paths), cfg.Input.Dir)
	for _, path := range paths {
		fmt.Printf("- %s\n", pc.Sprint(filepath.Base(path)))
	}

	tables := constants.StopsTables()
	if withRoutes {
		tables = constants.RouteTables()
	}
	dataset, err := busmap.LoadFeeds(paths, tables)
	if err != nil {
		return err
	}
	for _, feed := range dataset.Feeds {
		for _, table := range tables {
			result := feed.TableResults[table]
			if result.State == busmap.TableLoaded {
				fmt.Printf("%s %s: %d row(s), %d dropped\n",
					feed.Name, table, result.RowsRead, result.RowsDropped)
			} else {
				fmt.Printf("%s %s: %s\n", feed.Name, table, wc.Sprint(result.State))
			}
		}
	}

	m := render.NewMap(render.Options{
		Title:         cfg.Map.Title,
		TileURL:       cfg.Map.TileURL,
		Attribution:   cfg.Map.Attribution,
		MarkerRadius:  cfg.Map.MarkerRadius,
		StrokeWeight:  cfg.Map.StrokeWeight,
		StrokeOpacity: cfg.Map.StrokeOpacity,
	}, render.NewPalette(cfg.Map.Palette))
	for _, stop := range dataset.Stops {
		m.AddStop(stop)
	}
	if withRoutes {
		lines, warns := busmap.BuildRouteLines(dataset)
		for _, w := range warns {
			fmt.Println(wc.Sprint(w.Error()))
		}
		for _, line := range lines {
			m.AddRouteLine(line)
		}
		fmt.Printf("Total routes: %d\n", m.NumRouteLines())
	}
	fmt.Printf("Total stops: %d\n", m.NumStops())

	if err := m.WriteHTML(cfg.Output.Path); err != nil {
		return err
	}
	out, err := filepath.Abs(cfg.Output.Path)
	if err != nil {
		out = cfg.Output.Path
	}
	fmt.Printf("Wrote %s\n", pc.Sprint(out))
	if cfg.Output.Open {
		if err := browser.OpenFile(out); err != nil {
			fmt.Println(wc.Sprintf("failed to open %s in the browser: %s", out, err))
		}
	}
	return nil
}
