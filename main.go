package main

import (
	"log/slog"
	"os"

	"inkframe/config"
	"inkframe/frame"
	"inkframe/palette"
	"inkframe/watch"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config  string `help:"Configuration file (TOML)" type:"path" default:"${config_path}"`
	Verbose bool   `help:"Log debug messages" short:"v"`

	Convert frame.CLICmd   `cmd:"" help:"Convert pictures into palette bitmaps for the frame"`
	Watch   watch.CLICmd   `cmd:"" help:"Convert pictures as they are added to a folder"`
	Palette palette.CLICmd `cmd:"" help:"Inspect and export palettes"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("inkframe"),
		kong.Description("Dither pictures to a fixed palette and save them as 24-bit BMP for e-ink photo frames."),
		kong.UsageOnError(),
		kong.Vars{"config_path": config.DefaultPath},
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(c.Config)
	if err != nil {
		slog.Error("invalid configuration", "file", c.Config, "error", err)
		os.Exit(1)
	}
	slog.Debug("running", "command", kctx.Command(), "config", cfg)

	if err := kctx.Run(cfg); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
