package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, New(3, 2).Validate())
	assert.NoError(t, New(0, 0).Validate())

	r := New(3, 2)
	r.Pix = r.Pix[:len(r.Pix)-1]
	assert.ErrorIs(t, r.Validate(), ErrInvalidRegion)

	assert.ErrorIs(t, Region{Width: -1, Height: 2}.Validate(), ErrInvalidRegion)
}

func TestOffset(t *testing.T) {
	r := New(5, 4)
	assert.Equal(t, 0, r.Offset(0, 0))
	assert.Equal(t, 4, r.Offset(1, 0))
	assert.Equal(t, 20, r.Offset(0, 1))
	assert.Equal(t, len(r.Pix)-4, r.Offset(4, 3))
}

func TestClone(t *testing.T) {
	r := New(1, 1)
	c := r.Clone()
	c.Pix[0] = 9

	assert.Equal(t, uint8(0), r.Pix[0])
	assert.Equal(t, r.Width, c.Width)
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.Set(10, 20, color.RGBA{255, 0, 0, 255})
	src.Set(12, 21, color.RGBA{1, 2, 3, 255})

	r := FromImage(src)
	require.NoError(t, r.Validate())
	assert.Equal(t, 3, r.Width)
	assert.Equal(t, 2, r.Height)
	assert.Equal(t, []uint8{255, 0, 0, 255}, r.Pix[r.Offset(0, 0):r.Offset(1, 0)])
	assert.Equal(t, []uint8{1, 2, 3, 255}, r.Pix[r.Offset(2, 1):])
}

func TestImageSharesPixels(t *testing.T) {
	r := New(2, 2)
	img := r.Image()
	img.SetNRGBA(1, 1, color.NRGBA{4, 5, 6, 7})

	assert.Equal(t, []uint8{4, 5, 6, 7}, r.Pix[r.Offset(1, 1):])
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
}
