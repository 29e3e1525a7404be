/*
Package bitmap encodes RGBA pixels as an uncompressed 24-bit Windows bitmap.

The file is a 14 byte BITMAPFILEHEADER followed by a 40 byte
BITMAPINFOHEADER and the pixel rows. The height is stored positive, so rows
are written bottom-up, each pixel as blue, green, red, every row padded with
zeros to a multiple of 4 bytes. Alpha is dropped.
*/
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"inkframe/raster"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	HeaderSize     = fileHeaderSize + infoHeaderSize
	bitsPerPixel   = 24
	bytesPerPixel  = bitsPerPixel / 8
	pixelsPerMeter = 2835 // 72 DPI
)

var (
	ErrInvalidDimensions = errors.New("bitmap: invalid dimensions")
	ErrBufferSize        = errors.New("bitmap: pixel buffer does not match dimensions")
)

// RowSize is the padded length in bytes of one row of pixel data.
func RowSize(width int) int {
	return (width*bytesPerPixel + 3) / 4 * 4
}

// FileSize is the total length of an encoded width x height bitmap.
func FileSize(width, height int) int {
	return HeaderSize + RowSize(width)*height
}

func check(width, height int, pix []uint8) error {
	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	// sizes are stored as 32-bit fields
	if uint64(RowSize(width))*uint64(height) > math.MaxUint32-HeaderSize {
		return fmt.Errorf("%w: %dx%d does not fit in a bitmap file", ErrInvalidDimensions, width, height)
	}
	if want := width * height * raster.BytesPerPixel; len(pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrBufferSize, width, height, want, len(pix))
	}
	return nil
}

// Encode returns the bitmap file for the row-major RGBA pixels in pix.
func Encode(width, height int, pix []uint8) ([]byte, error) {
	if err := check(width, height, pix); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, FileSize(width, height))
	buf = appendHeader(buf, width, height)

	rowSize := RowSize(width)
	for y := height - 1; y >= 0; y-- {
		buf = appendRow(buf, pix[y*width*raster.BytesPerPixel:(y+1)*width*raster.BytesPerPixel], rowSize)
	}

	return buf, nil
}

// Write streams the same bytes Encode returns, one row at a time.
func Write(w io.Writer, width, height int, pix []uint8) (int64, error) {
	if err := check(width, height, pix); err != nil {
		return 0, err
	}

	var count int64
	n, err := w.Write(appendHeader(make([]byte, 0, HeaderSize), width, height))
	count += int64(n)
	if err != nil {
		return count, fmt.Errorf("could not write bitmap header: %w", err)
	}

	rowSize := RowSize(width)
	row := make([]byte, 0, rowSize)
	for y := height - 1; y >= 0; y-- {
		row = appendRow(row[:0], pix[y*width*raster.BytesPerPixel:(y+1)*width*raster.BytesPerPixel], rowSize)
		n, err = w.Write(row)
		count += int64(n)
		if err != nil {
			return count, fmt.Errorf("could not write bitmap row %d: %w", y, err)
		}
	}

	return count, nil
}

func appendHeader(b []byte, width, height int) []byte {
	imageSize := RowSize(width) * height

	// BITMAPFILEHEADER
	b = append(b, 'B', 'M')
	b = binary.LittleEndian.AppendUint32(b, uint32(HeaderSize+imageSize))
	b = binary.LittleEndian.AppendUint32(b, 0) // bfReserved1, bfReserved2
	b = binary.LittleEndian.AppendUint32(b, HeaderSize)

	// BITMAPINFOHEADER
	b = binary.LittleEndian.AppendUint32(b, infoHeaderSize)
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(width)))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(height)))
	b = binary.LittleEndian.AppendUint16(b, 1) // planes
	b = binary.LittleEndian.AppendUint16(b, bitsPerPixel)
	b = binary.LittleEndian.AppendUint32(b, 0) // BI_RGB
	b = binary.LittleEndian.AppendUint32(b, uint32(imageSize))
	b = binary.LittleEndian.AppendUint32(b, pixelsPerMeter)
	b = binary.LittleEndian.AppendUint32(b, pixelsPerMeter)
	b = binary.LittleEndian.AppendUint32(b, 0) // colors used
	b = binary.LittleEndian.AppendUint32(b, 0) // colors important

	return b
}

func appendRow(b, rgba []uint8, rowSize int) []byte {
	start := len(b)
	for i := 0; i < len(rgba); i += raster.BytesPerPixel {
		b = append(b, rgba[i+2], rgba[i+1], rgba[i])
	}
	for len(b)-start < rowSize {
		b = append(b, 0)
	}
	return b
}
