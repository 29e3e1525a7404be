package frame

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"inkframe/config"
	"inkframe/palette"
	"inkframe/parallel"

	"github.com/alecthomas/kong"
	"github.com/lucasb-eyer/go-colorful"
)

// CLICmd converts a picture, or every picture of a folder. Flags left at
// their zero value fall back to the configuration file.
type CLICmd struct {
	Scan      string `help:"Source picture or folder to scan" default:"."`
	Dest      string `help:"Destination folder for bitmaps. Relative to the scan folder if not absolute. Defaults to the configured [output] dest"`
	Width     int    `help:"Frame width in pixels" group:"frame"`
	Height    int    `help:"Frame height in pixels" group:"frame"`
	Rotate    string `help:"Turn the frame to portrait: auto, never or always" group:"frame"`
	Crop      *bool  `help:"Crop the picture to the frame, --no-crop keeps the whole picture" negatable:"" group:"frame"`
	Anchor    string `help:"Part of the picture kept when cropping: center, top, bottom, left, right, top-left, top-right, bottom-left or bottom-right" group:"frame"`
	Fill      string `help:"When not cropping, fill the background with this color (#RGB or #RRGGBB) to keep the frame size" group:"frame"`
	Palette   string `help:"Palette name (bw, gray4, gray16, spectra6, acep7, vga16), RIFF .pal or raw RGB .act file" group:"palette"`
	Dither    *bool  `help:"Diffuse the quantization error, --no-dither maps pixels to the nearest color" negatable:"" group:"palette"`
	Preview   bool   `help:"Also write a PNG of the quantized picture" group:"output"`
	Overwrite bool   `help:"Replace existing bitmaps" group:"output"`
	Workers   int    `help:"Number of pictures converted in parallel, 0 for one per CPU" group:"output"`

	scanIsFile bool `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scan, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		info, err = os.Stat(scan)
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scan
	c.scanIsFile = !info.IsDir()

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid frame width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid frame height: %d", c.Height)
	}

	if c.Rotate != "" {
		if _, err := ParseRotation(c.Rotate); err != nil {
			return err
		}
	}

	if c.Anchor != "" {
		if _, err := ParseAnchor(c.Anchor); err != nil {
			return err
		}
	}

	if c.Fill != "" {
		if _, err := parseFill(c.Fill); err != nil {
			return err
		}
	}

	if c.Palette != "" {
		if _, err := palette.LoadPalette(c.Palette); err != nil {
			return err
		}
	}

	return nil
}

// ScanIsDir reports whether the validated scan path is a folder.
func (c *CLICmd) ScanIsDir() bool {
	return !c.scanIsFile
}

// Converter merges the flags over cfg.
func (c *CLICmd) Converter(cfg *config.Config) (*Converter, error) {
	conv := &Converter{
		Width:     cfg.Frame.Width,
		Height:    cfg.Frame.Height,
		Crop:      cfg.Frame.Crop,
		Dither:    cfg.Palette.Dither,
		Preview:   cfg.Output.Preview || c.Preview,
		Overwrite: cfg.Output.Overwrite || c.Overwrite,
	}
	if c.Width > 0 {
		conv.Width = c.Width
	}
	if c.Height > 0 {
		conv.Height = c.Height
	}
	if c.Crop != nil {
		conv.Crop = *c.Crop
	}
	if c.Dither != nil {
		conv.Dither = *c.Dither
	}

	var err error
	rotate := cfg.Frame.Rotate
	if c.Rotate != "" {
		rotate = c.Rotate
	}
	if conv.Rotate, err = ParseRotation(rotate); err != nil {
		return nil, err
	}

	anchor := cfg.Frame.Anchor
	if c.Anchor != "" {
		anchor = c.Anchor
	}
	if anchor != "" {
		if conv.Anchor, err = ParseAnchor(anchor); err != nil {
			return nil, err
		}
	}

	fill := cfg.Frame.Fill
	if c.Fill != "" {
		fill = c.Fill
	}
	if fill != "" {
		if conv.Fill, err = parseFill(fill); err != nil {
			return nil, err
		}
	}

	palName := cfg.Palette.Name
	if c.Palette != "" {
		palName = c.Palette
	}
	if conv.Palette, err = palette.LoadPalette(palName); err != nil {
		return nil, err
	}
	if len(conv.Palette) == 0 {
		slog.Warn("palette is empty, pictures will keep their colors", "palette", palName)
	}

	dest := cfg.Output.Dest
	if c.Dest != "" {
		dest = c.Dest
	}
	if !filepath.IsAbs(dest) {
		scanDir := c.Scan
		if c.scanIsFile {
			scanDir = filepath.Dir(c.Scan)
		}
		dest = filepath.Join(scanDir, dest)
	}
	conv.Dest = dest

	return conv, nil
}

func (c *CLICmd) Run(cfg *config.Config) error {
	conv, err := c.Converter(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(conv.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", conv.Dest, err)
	}

	var files []string
	if c.scanIsFile {
		files = []string{c.Scan}
	} else {
		entries, err := os.ReadDir(c.Scan)
		if err != nil {
			return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsImage(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(c.Scan, entry.Name()))
		}
	}

	workers := c.Workers
	if workers == 0 {
		workers = cfg.Workers
	}
	pool := parallel.Start(workers)

	slog.Info("converting", "files", len(files), "dest", conv.Dest, "width", conv.Width, "height", conv.Height,
		"colors", len(conv.Palette), "dither", conv.Dither)
	for _, file := range files {
		pool.Do(func() error {
			logger := slog.Default().With("file", file)
			if _, err := conv.Convert(logger, file); err != nil {
				logger.Error("could not convert image", "error", err)
				return err
			}
			return nil
		})
	}

	stats := pool.Wait()
	slog.Info("stats", "processed", stats.Processed, "errors", stats.Failed, "total", stats.Total())

	if stats.Failed > 0 {
		return fmt.Errorf("error processing %d files", stats.Failed)
	}
	return nil
}

func parseFill(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid fill color %q, should be #RGB or #RRGGBB: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
