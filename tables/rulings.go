package tables

import (
	"image"

	"github.com/tablewright/tablewright/model"
)

// absDiff returns the absolute difference of two gray values.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a) - int(b)
	}
	return int(b) - int(a)
}

// horizontalRulingsFromRaster finds horizontal edges in a grayscale raster: a
// grayscale jump along a straight run of sufficient length. Coordinates are
// image pixels.
func horizontalRulingsFromRaster(img *image.Gray, intensityThreshold, minWidth int) []*model.Ruling {
	var rulings []*model.Ruling

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	at := func(x, y int) uint8 {
		return img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
	}

	for x := 0; x < width; x++ {
		lastPixel := at(x, 0)

		for y := 1; y < height-1; y++ {
			currPixel := at(x, y)

			if absDiff(currPixel, lastPixel) > intensityThreshold {
				// possible line; skip if a prior ruling already covers this start
				alreadyChecked := false
				for _, line := range rulings {
					if float64(y) == line.P1.Y && float64(x) >= line.P1.X && float64(x) <= line.P2.X {
						alreadyChecked = true
						break
					}
				}
				if alreadyChecked {
					lastPixel = currPixel
					continue
				}

				// walk right while the vertical jump persists and the in-line
				// color stays consistent
				lineX := x + 1
				for lineX < width {
					linePixel := at(lineX, y)
					abovePixel := at(lineX, y-1)

					if absDiff(linePixel, abovePixel) <= intensityThreshold ||
						absDiff(currPixel, linePixel) > intensityThreshold {
						break
					}
					lineX++
				}

				endX := lineX - 1
				if endX-x > minWidth {
					rulings = append(rulings, model.NewRuling(float64(x), float64(y), float64(endX), float64(y)))
				}
			}

			lastPixel = currPixel
		}
	}

	return rulings
}

// verticalRulingsFromRaster is the transpose of horizontalRulingsFromRaster.
func verticalRulingsFromRaster(img *image.Gray, intensityThreshold, minHeight int) []*model.Ruling {
	var rulings []*model.Ruling

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	at := func(x, y int) uint8 {
		return img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
	}

	for y := 0; y < height; y++ {
		lastPixel := at(0, y)

		for x := 1; x < width-1; x++ {
			currPixel := at(x, y)

			if absDiff(currPixel, lastPixel) > intensityThreshold {
				alreadyChecked := false
				for _, line := range rulings {
					if float64(x) == line.P1.X && float64(y) >= line.P1.Y && float64(y) <= line.P2.Y {
						alreadyChecked = true
						break
					}
				}
				if alreadyChecked {
					lastPixel = currPixel
					continue
				}

				lineY := y + 1
				for lineY < height {
					linePixel := at(x, lineY)
					leftPixel := at(x-1, lineY)

					if absDiff(linePixel, leftPixel) <= intensityThreshold ||
						absDiff(currPixel, linePixel) > intensityThreshold {
						break
					}
					lineY++
				}

				endY := lineY - 1
				if endY-y > minHeight {
					rulings = append(rulings, model.NewRuling(float64(x), float64(y), float64(x), float64(endY)))
				}
			}

			lastPixel = currPixel
		}
	}

	return rulings
}
