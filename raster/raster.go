// Package raster defines the rasterization contract consumed by table-area
// detection and the image plumbing around it.
//
// Detection wants a grayscale render of the page at 144 DPI, which works out
// to exactly 2 image pixels per page unit along each axis. Rendering backends
// live outside this library; implement [Renderer] (and [TextMaskingRenderer]
// if the backend can suppress glyph operators) to plug one in.
package raster

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/tablewright/tablewright/model"
)

// DPI is the raster resolution detection thresholds are calibrated for.
const DPI = 144

// Scale is the number of image pixels per page unit at [DPI].
const Scale = 2.0

// Renderer produces a grayscale raster of a page. Implementations are
// supplied by the caller; page units map to dpi/72 pixels each.
type Renderer interface {
	RenderGray(page *model.Page, dpi int) (*image.Gray, error)
}

// TextMaskingRenderer additionally renders the page with all glyph drawing
// suppressed, so text strokes don't masquerade as vertical rulings.
type TextMaskingRenderer interface {
	Renderer

	RenderGrayNoText(page *model.Page, dpi int) (*image.Gray, error)
}

// PixelSize returns the raster dimensions of a page at the given DPI.
func PixelSize(page *model.Page, dpi int) (width, height int) {
	scale := float64(dpi) / 72.0
	return int(page.Width*scale + 0.5), int(page.Height*scale + 0.5)
}

// ToGray converts any image to 8-bit grayscale.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	dst := image.NewGray(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// ScaleTo resizes an image to the given pixel dimensions and converts it to
// grayscale. Used to adapt backends that render at a fixed resolution to the
// [DPI] contract.
func ScaleTo(src image.Image, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
