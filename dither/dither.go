// Package dither maps a raster.Region onto a fixed palette.
//
// Dither uses Floyd–Steinberg error diffusion with a single left-to-right,
// top-to-bottom scan:
//
//	        X   7/16
//	3/16  5/16  1/16
//
// Error that would land outside the region is dropped. Every diffusion step
// is clamped to [0, 255] and stored back as a byte before the receiving pixel
// is visited, so later pixels are quantized from already adjusted values.
package dither

import (
	"math"

	"inkframe/palette"
	"inkframe/raster"
)

type weight struct {
	dx, dy int
	f      float64
}

var floydSteinberg = [...]weight{
	{1, 0, 7.0 / 16},
	{-1, 1, 3.0 / 16},
	{0, 1, 5.0 / 16},
	{1, 1, 1.0 / 16},
}

// Dither quantizes r to t in place and returns it. An empty palette leaves
// the region untouched. Alpha is neither read nor written.
//
// r must not be accessed concurrently while Dither runs; t is only read.
func Dither(r raster.Region, t palette.Table) (raster.Region, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	if len(t) == 0 {
		return r, nil
	}

	pix := r.Pix
	for y := range r.Height {
		for x := range r.Width {
			i := r.Offset(x, y)
			old := palette.Color{R: pix[i], G: pix[i+1], B: pix[i+2]}
			c := t.Convert(old)

			pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B

			errR := int(old.R) - int(c.R)
			errG := int(old.G) - int(c.G)
			errB := int(old.B) - int(c.B)
			if errR == 0 && errG == 0 && errB == 0 {
				continue
			}

			for _, w := range floydSteinberg {
				nx, ny := x+w.dx, y+w.dy
				if nx < 0 || nx >= r.Width || ny >= r.Height {
					continue
				}
				n := r.Offset(nx, ny)
				pix[n] = diffuse(pix[n], errR, w.f)
				pix[n+1] = diffuse(pix[n+1], errG, w.f)
				pix[n+2] = diffuse(pix[n+2], errB, w.f)
			}
		}
	}

	return r, nil
}

// Quantize replaces every pixel with its nearest palette entry without
// spreading any error.
func Quantize(r raster.Region, t palette.Table) (raster.Region, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	if len(t) == 0 {
		return r, nil
	}

	pix := r.Pix
	for i := 0; i < len(pix); i += raster.BytesPerPixel {
		c := t.Convert(palette.Color{R: pix[i], G: pix[i+1], B: pix[i+2]})
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}

	return r, nil
}

// diffuse adds e*f to v, clamps to a byte and rounds half to even.
func diffuse(v uint8, e int, f float64) uint8 {
	n := float64(v) + float64(e)*f
	switch {
	case n <= 0:
		return 0
	case n >= 255:
		return 255
	}
	return uint8(math.RoundToEven(n))
}
