package palette

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lucasb-eyer/go-colorful"
)

type CLICmd struct {
	List   ListCmd   `cmd:"" help:"List built-in palettes"`
	Show   ShowCmd   `cmd:"" help:"Print the colors of a palette"`
	Export ExportCmd `cmd:"" help:"Write a palette to a .pal (RIFF) or .act (raw RGB) file"`
}

type ListCmd struct{}

func (c *ListCmd) Run(kctx *kong.Context) error {
	for _, name := range Presets() {
		t, _ := Preset(name)
		fmt.Fprintf(kctx.Stdout, "%-10s %3d colors\n", name, len(t))
	}
	return nil
}

type ShowCmd struct {
	Name string `arg:"" help:"Preset name, .pal or .act file"`
}

func (c *ShowCmd) Run(kctx *kong.Context) error {
	t, err := LoadPalette(c.Name)
	if err != nil {
		return err
	}

	return WriteListing(kctx.Stdout, t)
}

// WriteListing prints one "index #rrggbb" line per entry.
func WriteListing(w io.Writer, t Table) error {
	for i, c := range t {
		col, _ := colorful.MakeColor(c)
		if _, err := fmt.Fprintf(w, "%3d %s\n", i, col.Hex()); err != nil {
			return err
		}
	}
	return nil
}

type ExportCmd struct {
	Name      string `arg:"" help:"Preset name, .pal or .act file"`
	Out       string `arg:"" type:"path" help:"Destination file"`
	Overwrite bool   `help:"Replace the destination if it exists" default:"false"`
}

func (c *ExportCmd) Run() (err error) {
	t, err := LoadPalette(c.Name)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if c.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(c.Out, flags, 0o644)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", c.Out, err)
	}
	defer func() {
		if defErr := f.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", c.Out, defErr)
		}
	}()

	if strings.EqualFold(filepath.Ext(c.Out), ".pal") {
		_, err = WriteTo(f, []Table{t})
	} else {
		_, err = f.Write(t.Bytes())
	}
	if err != nil {
		return fmt.Errorf("could not write palette file %q: %w", c.Out, err)
	}

	return nil
}
