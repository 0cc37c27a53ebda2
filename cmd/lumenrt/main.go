// Command lumenrt is the CLI entry point: parse flags over a TOML
// config, run one render, write the image and statistics. No window,
// no event loop — mirrors the teacher's rt_main.go flag.Parse/init
// shape without its GLFW surface, since this is an offline batch
// renderer rather than an interactive viewer.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lumenrt/tracer/rt/app"
	"github.com/lumenrt/tracer/rt/config"
	"github.com/lumenrt/tracer/rt/imageio"
	"github.com/lumenrt/tracer/rt/rtlog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lumenrt:", err)
		os.Exit(1)
	}
}

// configPathFlag scans args just for -config, since it picks which
// defaults BindFlags overlays the rest of the flags onto.
func configPathFlag(args []string) (string, error) {
	fs := flag.NewFlagSet("lumenrt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("config", "", "")
	if err := fs.Parse(args); err != nil && err != flag.ErrHelp {
		return "", nil // real parse error surfaces from the full FlagSet below
	}
	return *path, nil
}

func run(args []string) error {
	configPath, err := configPathFlag(args)
	if err != nil {
		return err
	}

	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		opts = loaded
	}

	fs := flag.NewFlagSet("lumenrt", flag.ExitOnError)
	fs.String("config", configPath, "path to a TOML render config (optional)")
	outPath := fs.String("out", "out.ppm", "output image path (PPM)")
	debug := fs.Bool("debug", false, "enable debug logging")
	applyFlags := config.BindFlags(fs, &opts)

	if err := fs.Parse(args); err != nil {
		return err
	}
	applyFlags()

	logger := rtlog.NewDefaultLogger("lumenrt", *debug)

	renderer := app.NewRenderer(opts, logger)
	img, _, err := renderer.Run(1)
	if err != nil {
		return err
	}

	return imageio.WritePPM(*outPath, imageio.Image{Width: img.Width, Height: img.Height, Pixels: img.Pixels})
}
