package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewright/tablewright/model"
)

// gridRulings builds a complete ruled grid: horizontals at ys spanning the
// given xs range, verticals at xs spanning the ys range.
func gridRulings(ys, xs []float64) (horizontals, verticals []*model.Ruling) {
	for _, y := range ys {
		horizontals = append(horizontals, model.NewRuling(xs[0], y, xs[len(xs)-1], y))
	}
	for _, x := range xs {
		verticals = append(verticals, model.NewRuling(x, ys[0], x, ys[len(ys)-1]))
	}
	return horizontals, verticals
}

func TestFindCellsCompleteGrid(t *testing.T) {
	// 5 horizontal and 4 vertical rulings bound a 4x3 grid
	horizontals, verticals := gridRulings(
		[]float64{0, 50, 100, 150, 200},
		[]float64{50, 150, 250, 350},
	)

	cells := FindCells(horizontals, verticals)

	require.Len(t, cells, 12)
	for _, cell := range cells {
		assert.InDelta(t, 100.0, cell.Width, 1e-9)
		assert.InDelta(t, 50.0, cell.Height, 1e-9)
	}
}

func TestFindCellsMinimality(t *testing.T) {
	horizontals, verticals := gridRulings(
		[]float64{0, 20, 40},
		[]float64{0, 30, 60},
	)

	cells := FindCells(horizontals, verticals)

	// only the four unit cells survive; the 2x1, 1x2, and 2x2 spans all
	// contain another cell's top-left corner
	require.Len(t, cells, 4)
	for _, cell := range cells {
		assert.InDelta(t, 30.0, cell.Width, 1e-9)
		assert.InDelta(t, 20.0, cell.Height, 1e-9)
	}
}

func TestFindCellsSpanningCell(t *testing.T) {
	// the middle vertical only reaches halfway down: the bottom row is one
	// wide cell
	horizontals := []*model.Ruling{
		model.NewRuling(0, 0, 200, 0),
		model.NewRuling(0, 50, 200, 50),
		model.NewRuling(0, 100, 200, 100),
	}
	verticals := []*model.Ruling{
		model.NewRuling(0, 0, 0, 100),
		model.NewRuling(100, 0, 100, 50),
		model.NewRuling(200, 0, 200, 100),
	}

	cells := FindCells(horizontals, verticals)

	require.Len(t, cells, 3)

	var widths []float64
	for _, cell := range cells {
		widths = append(widths, cell.Width)
	}
	assert.ElementsMatch(t, []float64{100, 100, 200}, widths)
}

func TestFindCellsNoIntersections(t *testing.T) {
	horizontals := []*model.Ruling{model.NewRuling(0, 0, 100, 0)}
	verticals := []*model.Ruling{model.NewRuling(500, 500, 500, 600)}

	assert.Empty(t, FindCells(horizontals, verticals))
}

func TestFindCellsIncompleteBorder(t *testing.T) {
	// the bottom edge stops short of the right side, so the bottom-right
	// corner never forms: no cell
	horizontals := []*model.Ruling{
		model.NewRuling(0, 0, 100, 0),
		model.NewRuling(0, 50, 40, 50), // stops short of the right side
	}
	verticals := []*model.Ruling{
		model.NewRuling(0, 0, 0, 50),
		model.NewRuling(100, 0, 100, 50),
	}

	cells := FindCells(horizontals, verticals)
	assert.Empty(t, cells)
}
