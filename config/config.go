package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is looked up in the working directory when --config is not given.
const DefaultPath = "inkframe.toml"

type FrameConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Rotate string `toml:"rotate"` // auto, never or always
	Crop   bool   `toml:"crop"`
	Anchor string `toml:"anchor"` // part kept when cropping, center by default
	Fill   string `toml:"fill"`
}

type PaletteConfig struct {
	Name   string `toml:"name"`
	Dither bool   `toml:"dither"`
}

type OutputConfig struct {
	Dest      string `toml:"dest"`
	Preview   bool   `toml:"preview"`
	Overwrite bool   `toml:"overwrite"`
}

type WatchConfig struct {
	Dir      string `toml:"dir"`
	Debounce int    `toml:"debounce_ms"` // 0 = default (500ms)
}

func (w WatchConfig) DebounceDuration() time.Duration {
	if w.Debounce > 0 {
		return time.Duration(w.Debounce) * time.Millisecond
	}
	return 500 * time.Millisecond
}

type Config struct {
	Frame   FrameConfig   `toml:"frame"`
	Palette PaletteConfig `toml:"palette"`
	Output  OutputConfig  `toml:"output"`
	Watch   WatchConfig   `toml:"watch"`
	Workers int           `toml:"workers"` // 0 = GOMAXPROCS
}

// Default matches the 800x480 e-ink photo frame.
func Default() *Config {
	return &Config{
		Frame: FrameConfig{
			Width:  800,
			Height: 480,
			Rotate: "auto",
			Crop:   true,
			Anchor: "center",
		},
		Palette: PaletteConfig{
			Name:   "spectra6",
			Dither: true,
		},
		Output: OutputConfig{
			Dest: "framed",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	if cfg.Frame.Width <= 0 || cfg.Frame.Height <= 0 {
		return nil, fmt.Errorf("config %s: frame size must be positive, got %dx%d", path, cfg.Frame.Width, cfg.Frame.Height)
	}

	return cfg, nil
}
