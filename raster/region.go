// Package raster holds the pixel buffer handed between the framing,
// dithering and bitmap stages.
package raster

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// BytesPerPixel is the size of one R, G, B, A pixel in Pix.
const BytesPerPixel = 4

var ErrInvalidRegion = errors.New("raster: invalid region")

// Region is a Width x Height block of non-premultiplied RGBA pixels, stored
// row-major from the top row down. The pixel at (x, y) starts at
// Pix[(y*Width+x)*4].
type Region struct {
	Width  int
	Height int
	Pix    []uint8
}

func New(width, height int) Region {
	return Region{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Validate reports whether the buffer length matches the dimensions.
func (r Region) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidRegion, r.Width, r.Height)
	}
	if want := r.Width * r.Height * BytesPerPixel; len(r.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrInvalidRegion, r.Width, r.Height, want, len(r.Pix))
	}
	return nil
}

// Offset returns the index in Pix of the first channel of (x, y).
func (r Region) Offset(x, y int) int {
	return (y*r.Width + x) * BytesPerPixel
}

// Clone returns a region with its own copy of the pixels.
func (r Region) Clone() Region {
	r.Pix = append([]uint8(nil), r.Pix...)
	return r
}

// FromImage copies img into a new region anchored at (0, 0).
func FromImage(img image.Image) Region {
	b := img.Bounds()
	dest := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dest, dest.Bounds(), img, b.Min, draw.Src)

	return Region{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    dest.Pix,
	}
}

// Image wraps the region's pixels without copying them.
func (r Region) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
