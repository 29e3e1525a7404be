// Package frame turns photos into bitmaps for a fixed-palette display: the
// picture is rotated to its EXIF orientation, fitted into the frame, mapped
// to the palette and written as a 24-bit BMP.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"inkframe/bitmap"
	"inkframe/dither"
	"inkframe/palette"
	"inkframe/raster"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Converter holds the settings shared by every picture of a run. It is only
// read during conversions, so one Converter can serve many goroutines.
type Converter struct {
	Palette   palette.Table
	Width     int
	Height    int
	Rotate    Rotation
	Crop      bool
	Anchor    imaging.Anchor
	Fill      color.Color
	Dither    bool
	Dest      string
	Preview   bool
	Overwrite bool
}

// Render fits img into the frame and quantizes it to the palette.
func (c *Converter) Render(logger *slog.Logger, img image.Image) (raster.Region, error) {
	b := img.Bounds()
	if b.Empty() {
		return raster.Region{}, fmt.Errorf("empty image")
	}

	width, height := c.Rotate.size(b.Dx(), b.Dy(), c.Width, c.Height)
	if width != c.Width {
		logger.Debug("rotating frame", "width", width, "height", height)
	}

	r := raster.FromImage(resize(logger, img, width, height, c.Crop, c.Anchor, c.Fill))

	quantize := dither.Quantize
	if c.Dither {
		quantize = dither.Dither
	}

	logger.Debug("applying palette", "colors", len(c.Palette), "dither", c.Dither)
	return quantize(r, c.Palette)
}

// Convert renders the picture at srcPath and saves it into c.Dest. It returns
// the path of the bitmap written.
func (c *Converter) Convert(logger *slog.Logger, srcPath string) (string, error) {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("could not decode image: %w", err)
	}

	r, err := c.Render(logger, img)
	if err != nil {
		return "", fmt.Errorf("could not render image: %w", err)
	}

	name := OutputName(filepath.Base(srcPath), "bmp", r.Width, r.Height)
	err = save(c.Dest, name, c.Overwrite, func(w io.Writer) error {
		_, err := bitmap.Write(w, r.Width, r.Height, r.Pix)
		return err
	})
	if err != nil {
		return "", err
	}

	out := filepath.Join(c.Dest, name)
	if c.Preview {
		preview := OutputName(filepath.Base(srcPath), "png", r.Width, r.Height)
		err = save(c.Dest, preview, c.Overwrite, func(w io.Writer) error {
			return png.Encode(w, c.previewImage(r))
		})
		if err != nil {
			// leave no bitmap without its preview
			os.Remove(out)
			return "", err
		}
	}

	logger.Info("converted", "to", out, "width", r.Width, "height", r.Height)
	return out, nil
}

// OutputSize returns the size of the bitmap Render makes from a picture of
// imgW x imgH, without decoding it.
func (c *Converter) OutputSize(imgW, imgH int) (int, int) {
	width, height := c.Rotate.size(imgW, imgH, c.Width, c.Height)
	if c.Crop || c.Fill != nil {
		return width, height
	}
	return fitSize(imgW, imgH, width, height)
}

// previewImage returns r as a paletted image. Palettes that do not fit in
// one are kept as NRGBA.
func (c *Converter) previewImage(r raster.Region) image.Image {
	if len(c.Palette) == 0 || len(c.Palette) > 256 {
		return r.Image()
	}

	img := image.NewPaletted(image.Rect(0, 0, r.Width, r.Height), c.Palette.Palette())
	for i := 0; i < len(r.Pix); i += raster.BytesPerPixel {
		img.Pix[i/raster.BytesPerPixel] = uint8(c.Palette.Index(palette.Color{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2]}))
	}
	return img
}

// OutputName drops the extension of srcName and appends the frame size, e.g.
// "beach.jpg" becomes "beach_800_480.bmp".
func OutputName(srcName, ext string, width, height int) string {
	base := strings.TrimSuffix(srcName, filepath.Ext(srcName))
	return fmt.Sprintf("%s_%d_%d.%s", base, width, height, ext)
}

// IsImage reports whether name has an extension of a supported input format.
func IsImage(name string) bool {
	if _, err := imaging.FormatFromFilename(name); err == nil {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".webp")
}
