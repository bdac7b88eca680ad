package extract

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tablewright/tablewright/model"
)

// coordinate bucketing for snapped ruling positions
const coordScale = 100

func coordKey(v float64) int64 {
	return int64(math.Round(v * coordScale))
}

type gridPoint struct {
	x, y int64
}

// rulingIndex maps an oriented ruling set to position-keyed intervals so edge
// coverage between two intersection points can be answered exactly.
type rulingIndex map[int64][]interval

type interval struct {
	start, end int64
}

func indexRulings(rulings []*model.Ruling, horizontal bool) rulingIndex {
	idx := make(rulingIndex)
	for _, r := range rulings {
		if horizontal != r.Horizontal() {
			continue
		}
		pos := coordKey(r.Position())
		idx[pos] = append(idx[pos], interval{coordKey(r.Start()), coordKey(r.End())})
	}
	return idx
}

// covered reports whether some ruling at the given position spans [from, to].
func (ri rulingIndex) covered(pos, from, to int64) bool {
	const slack = 1 // snapped coordinates can still be a hundredth off
	for _, iv := range ri[pos] {
		if iv.start <= from+slack && iv.end >= to-slack {
			return true
		}
	}
	return false
}

// FindCells computes the minimal cell rectangles bounded by the given
// horizontal and vertical rulings. The rulings are expected to be snapped and
// collapsed already.
//
// Every pair of intersection points that forms the top-left and bottom-right
// corners of a rectangle whose four sides are covered by actual ruling
// segments yields a candidate; candidates that contain another candidate's
// top-left corner in their interior or on their top or left side are
// discarded, leaving only the grid's minimal cells.
func FindCells(horizontals, verticals []*model.Ruling) []*model.Cell {
	hIndex := indexRulings(horizontals, true)
	vIndex := indexRulings(verticals, false)

	// intersection points of the two ruling sets
	pointSet := make(map[gridPoint]struct{})
	for _, h := range horizontals {
		for _, v := range verticals {
			if p, ok := h.IntersectionPoint(v); ok {
				pointSet[gridPoint{coordKey(p.X), coordKey(p.Y)}] = struct{}{}
			}
		}
	}
	if len(pointSet) < 4 {
		return nil
	}

	points := make([]gridPoint, 0, len(pointSet))
	for p := range pointSet {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].y != points[j].y {
			return points[i].y < points[j].y
		}
		return points[i].x < points[j].x
	})

	var candidates []model.Rectangle
	for i, topLeft := range points {
		for _, bottomRight := range points[i+1:] {
			if bottomRight.x <= topLeft.x || bottomRight.y <= topLeft.y {
				continue
			}
			// the two remaining corners must exist
			if _, ok := pointSet[gridPoint{topLeft.x, bottomRight.y}]; !ok {
				continue
			}
			if _, ok := pointSet[gridPoint{bottomRight.x, topLeft.y}]; !ok {
				continue
			}
			// all four sides must be covered by ruling segments
			if !hIndex.covered(topLeft.y, topLeft.x, bottomRight.x) ||
				!hIndex.covered(bottomRight.y, topLeft.x, bottomRight.x) ||
				!vIndex.covered(topLeft.x, topLeft.y, bottomRight.y) ||
				!vIndex.covered(bottomRight.x, topLeft.y, bottomRight.y) {
				continue
			}
			candidates = append(candidates, rectFromCorners(topLeft, bottomRight))
		}
	}

	return minimalCells(candidates)
}

func rectFromCorners(tl, br gridPoint) model.Rectangle {
	top := float64(tl.y) / coordScale
	left := float64(tl.x) / coordScale
	return model.NewRectangle(top, left,
		float64(br.x-tl.x)/coordScale, float64(br.y-tl.y)/coordScale)
}

// minimalCells drops every candidate that masks part of the grid: a candidate
// containing another candidate's top-left corner (other than its own) spans
// more than one grid cell. The corner probe includes the top and left sides
// but stops short of the right and bottom ones, where the neighbors' corners
// legitimately sit.
func minimalCells(candidates []model.Rectangle) []*model.Cell {
	if len(candidates) == 0 {
		return nil
	}

	var corners rtree.RTreeG[model.Point]
	for _, r := range candidates {
		p := model.Point{X: r.Left, Y: r.Top}
		corners.Insert([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y}, p)
	}

	const eps = 0.05
	var cells []*model.Cell
	for _, r := range candidates {
		own := model.Point{X: r.Left, Y: r.Top}
		masksGrid := false
		corners.Search(
			[2]float64{r.Left - eps, r.Top - eps},
			[2]float64{r.Right() - eps, r.Bottom() - eps},
			func(_, _ [2]float64, p model.Point) bool {
				if p == own {
					return true
				}
				masksGrid = true
				return false
			})
		if !masksGrid {
			cells = append(cells, model.NewCell(r))
		}
	}
	return cells
}
