package frame

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

var anchors = map[string]imaging.Anchor{
	"center":       imaging.Center,
	"top":          imaging.Top,
	"bottom":       imaging.Bottom,
	"left":         imaging.Left,
	"right":        imaging.Right,
	"top-left":     imaging.TopLeft,
	"top-right":    imaging.TopRight,
	"bottom-left":  imaging.BottomLeft,
	"bottom-right": imaging.BottomRight,
}

// ParseAnchor returns the part of the picture kept when cropping.
func ParseAnchor(s string) (imaging.Anchor, error) {
	if a, ok := anchors[strings.ToLower(s)]; ok {
		return a, nil
	}
	return imaging.Center, fmt.Errorf("invalid anchor %q, should be center, top, bottom, left, right, top-left, top-right, bottom-left or bottom-right", s)
}

// fitSize is the canvas for a srcW x srcH picture kept whole inside a
// width x height frame without a fill colour.
func fitSize(srcW, srcH, width, height int) (int, int) {
	srcAR := float64(srcW) / float64(srcH)
	destAR := float64(width) / float64(height)
	switch {
	case srcAR < destAR:
		return max(1, int(math.Round(float64(height)*srcAR))), height
	case srcAR > destAR:
		return width, max(1, int(math.Round(float64(width)/srcAR)))
	}
	return width, height
}

// resize scales img to width x height. With crop the source is trimmed to
// the frame's aspect ratio, keeping the part at anchor. Otherwise the whole
// picture is kept: centred on fillColor when one is given, or on a smaller
// canvas that matches the picture's aspect ratio.
func resize(logger *slog.Logger, img image.Image, width, height int, crop bool, anchor imaging.Anchor, fillColor color.Color) image.Image {
	srcBounds := img.Bounds()
	srcSize := srcBounds.Size()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	destWidth := float64(width)
	destHeight := float64(height)

	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return img
	}

	destSize := image.Rect(0, 0, width, height)
	destBounds := destSize

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	var fill bool
	if crop {
		cw, ch := srcBounds.Dx(), srcBounds.Dy()
		if srcAR < destAR {
			ch = max(1, int(math.Round(srcWidth/destAR)))
		} else if srcAR > destAR {
			cw = max(1, int(math.Round(srcHeight*destAR)))
		}
		if cw != srcBounds.Dx() || ch != srcBounds.Dy() {
			img = imaging.CropAnchor(img, cw, ch, anchor)
			srcBounds = img.Bounds()
		}
	} else if fillColor == nil {
		destSize.Max.X, destSize.Max.Y = fitSize(srcBounds.Dx(), srcBounds.Dy(), width, height)
		destBounds = destSize
	} else {
		if srcAR < destAR {
			dw := destHeight * srcAR
			if fill = destWidth > dw; fill {
				idw := int(math.Round((destWidth - dw) / 2))
				destBounds.Min.X += idw
				destBounds.Max.X -= idw
			}
		} else if srcAR > destAR {
			dh := destWidth / srcAR
			if fill = destHeight > dh; fill {
				idh := int(math.Round((destHeight - dh) / 2))
				destBounds.Min.Y += idh
				destBounds.Max.Y -= idh
			}
		}
	}

	logger.Debug("resizing", "from", srcSize, "width", destSize.Dx(), "height", destSize.Dy(), "crop", crop)
	dest := image.NewNRGBA(destSize)
	if fill {
		draw.Draw(dest, destSize, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(dest, destBounds, img, srcBounds, draw.Over, nil)

	return dest
}
