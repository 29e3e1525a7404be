package palette

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Color is a single opaque palette entry.
type Color struct {
	R, G, B uint8
}

func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Table is an ordered list of palette entries. Order only matters when two
// entries are equally close to a color: the earlier one wins.
//
// A Table is never modified by this package once built and can be shared by
// any number of concurrent readers.
type Table []Color

// Load splits b into consecutive RGB triples. A trailing partial triple is
// ignored and an empty input gives an empty Table.
func Load(b []byte) Table {
	t := make(Table, 0, len(b)/3)
	for i := 0; i+2 < len(b); i += 3 {
		t = append(t, Color{R: b[i], G: b[i+1], B: b[i+2]})
	}
	return t
}

// Bytes is the inverse of Load.
func (t Table) Bytes() []byte {
	b := make([]byte, 0, len(t)*3)
	for _, c := range t {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

// Index returns the position of the entry closest to c by squared euclidean
// distance in RGB, or -1 if the table is empty.
func (t Table) Index(c Color) int {
	ret, bestSum := -1, math.MaxInt
	for i, v := range t {
		dr := int(c.R) - int(v.R)
		dg := int(c.G) - int(v.G)
		db := int(c.B) - int(v.B)
		sum := dr*dr + dg*dg + db*db
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// Convert returns the entry closest to c. An empty table returns c.
func (t Table) Convert(c Color) Color {
	if i := t.Index(c); i >= 0 {
		return t[i]
	}
	return c
}

// Palette returns t as an image palette, e.g. for image.NewPaletted.
func (t Table) Palette() color.Palette {
	pal := make(color.Palette, len(t))
	for i, c := range t {
		pal[i] = c
	}
	return pal
}

// LoadPalette resolves name as a preset first, then as a file. Files ending
// in .pal are read as RIFF palettes, anything else as raw RGB triples.
func LoadPalette(name string) (Table, error) {
	if t, ok := Preset(name); ok {
		return t, nil
	}

	if strings.EqualFold(filepath.Ext(name), ".pal") {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("could not open palette file %q: %w", name, err)
		}
		defer f.Close()

		tables, err := ReadFrom(f)
		if err != nil {
			return nil, fmt.Errorf("could not read palette file %q: %w", name, err)
		}

		var t Table
		for _, pal := range tables {
			t = append(t, pal...)
		}
		return t, nil
	}

	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", name, err)
	}
	return Load(b), nil
}
