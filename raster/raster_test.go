package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablewright/tablewright/model"
)

func TestPixelSize(t *testing.T) {
	page := model.NewPage(612, 792)

	w, h := PixelSize(page, DPI)

	assert.Equal(t, 1224, w)
	assert.Equal(t, 1584, h)
}

func TestToGrayPassthrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	assert.Same(t, src, ToGray(src))
}

func TestToGrayConverts(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	src.Set(1, 1, color.RGBA{A: 255}) // black pixel

	gray := ToGray(src)

	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), gray.GrayAt(1, 1).Y)
}

func TestScaleTo(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))

	dst := ScaleTo(src, 20, 30)

	assert.Equal(t, 20, dst.Bounds().Dx())
	assert.Equal(t, 30, dst.Bounds().Dy())
}
