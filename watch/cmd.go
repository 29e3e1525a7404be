package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"inkframe/config"
	"inkframe/frame"
)

type CLICmd struct {
	Dir     string `arg:"" optional:"" help:"Folder to watch, defaults to the configured [watch] dir"`
	Dest    string `help:"Destination folder for bitmaps. Relative to the watched folder if not absolute"`
	Palette string `help:"Palette name, RIFF .pal or raw RGB .act file"`
	Width   int    `help:"Frame width in pixels"`
	Height  int    `help:"Frame height in pixels"`
	Preview bool   `help:"Also write a PNG of the quantized picture"`
}

func (c *CLICmd) Run(cfg *config.Config) error {
	dir := c.Dir
	if dir == "" {
		dir = cfg.Watch.Dir
	}
	if dir == "" {
		return fmt.Errorf("no folder to watch, pass one or set [watch] dir in the configuration")
	}

	fc := &frame.CLICmd{
		Scan:    dir,
		Dest:    c.Dest,
		Palette: c.Palette,
		Width:   c.Width,
		Height:  c.Height,
		Preview: c.Preview,
	}
	if err := fc.Validate(nil); err != nil {
		return err
	}
	if !fc.ScanIsDir() {
		return fmt.Errorf("not a directory: %q", fc.Scan)
	}

	conv, err := fc.Converter(cfg)
	if err != nil {
		return err
	}
	// pictures edited in place are converted again
	conv.Overwrite = true

	if err := os.MkdirAll(conv.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", conv.Dest, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &Watcher{
		Dir:       filepath.Clean(fc.Scan),
		Converter: conv,
		Delay:     cfg.Watch.DebounceDuration(),
		Workers:   cfg.Workers,
		Logger:    slog.Default(),
	}
	return w.Run(ctx)
}
