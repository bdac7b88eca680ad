package extract

import (
	"sort"

	"github.com/tablewright/tablewright/internal/logging"
	"github.com/tablewright/tablewright/model"
	"github.com/tablewright/tablewright/text"
)

// X/Y tolerance when clustering cell edges into row and column bands, and
// when snapping vector rulings in page space.
const bandTolerance = 2.0

var spreadsheetLog = logging.New("extract.spreadsheet")

// SpreadsheetExtractor reconstructs a table from the cell grid formed by the
// page's horizontal and vertical rulings.
type SpreadsheetExtractor struct{}

// NewSpreadsheetExtractor creates a spreadsheet extractor.
func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{}
}

// Name returns the extractor's identifier.
func (e *SpreadsheetExtractor) Name() string { return "spreadsheet" }

// Extract reconstructs the page's table from the rulings drawn on it.
func (e *SpreadsheetExtractor) Extract(page *model.Page) []*model.Table {
	rulings := make([]*model.Ruling, 0, len(page.Rulings))
	rulings = append(rulings, page.HorizontalRulings()...)
	rulings = append(rulings, page.VerticalRulings()...)
	return e.ExtractWithRulings(page, rulings)
}

// ExtractWithRulings reconstructs the page's table from a caller-supplied
// ruling set (used by mixed-mode extraction with synthesized rulings).
func (e *SpreadsheetExtractor) ExtractWithRulings(page *model.Page, rulings []*model.Ruling) []*model.Table {
	horizontals, verticals := cleanRulings(rulings)
	cells := FindCells(horizontals, verticals)
	spreadsheetLog.Debug("grid reconstructed",
		"horizontals", len(horizontals), "verticals", len(verticals), "cells", len(cells))
	if len(cells) == 0 {
		return []*model.Table{model.EmptyTable()}
	}
	return []*model.Table{e.assemble(page, cells, verticals)}
}

// cleanRulings normalizes, snaps, collapses, and splits a ruling set by
// orientation. Oblique and malformed rulings are dropped silently.
func cleanRulings(rulings []*model.Ruling) (horizontals, verticals []*model.Ruling) {
	oriented := make([]*model.Ruling, 0, len(rulings))
	for _, r := range rulings {
		if !r.Valid() {
			continue
		}
		c := *r
		c.Normalize()
		if c.Oblique() {
			continue
		}
		oriented = append(oriented, &c)
	}

	model.SnapPoints(oriented, bandTolerance, bandTolerance)

	var h, v []*model.Ruling
	for _, r := range oriented {
		r.Normalize()
		switch {
		case r.Horizontal():
			h = append(h, r)
		case r.Vertical():
			v = append(v, r)
		}
	}
	return model.CollapseOrientedRulings(h, 1), model.CollapseOrientedRulings(v, 1)
}

// assemble derives row and column bands from the cells, spans cells across
// the bands they cover, and places the page's text into the grid.
func (e *SpreadsheetExtractor) assemble(page *model.Page, cells []*model.Cell, verticals []*model.Ruling) *model.Table {
	var rects []model.Rectangle
	for _, c := range cells {
		rects = append(rects, c.Rectangle)
	}
	bbox := model.BoundingBoxOf(rects)

	var lefts, tops []float64
	for _, c := range cells {
		lefts = append(lefts, c.Left)
		tops = append(tops, c.Top)
	}
	columnBands := clusterBands(lefts, bandTolerance)
	rowBands := clusterBands(tops, bandTolerance)

	// place text chunks into the cell whose rectangle contains their center
	chunks := text.MergeWords(page, verticals)
	for _, tc := range chunks {
		if tc.IsWhitespace() {
			continue
		}
		center := tc.Center()
		for _, cell := range cells {
			if cell.ContainsPoint(center) {
				cell.AddChunk(tc)
				break
			}
		}
	}

	table := model.NewTable(bbox, e.Name())
	for _, cell := range cells {
		row := bandIndex(rowBands, cell.Top)
		col := bandIndex(columnBands, cell.Left)
		if row < 0 || col < 0 {
			continue
		}
		rowSpan := spannedBands(rowBands, cell.Top, cell.Bottom())
		colSpan := spannedBands(columnBands, cell.Left, cell.Right())
		cell.Spanning = rowSpan > 1 || colSpan > 1

		table.Add(cell, row, col)
		for dr := 0; dr < rowSpan; dr++ {
			for dc := 0; dc < colSpan; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				placeholder := model.NewCell(cell.Rectangle)
				placeholder.Placeholder = true
				table.Add(placeholder, row+dr, col+dc)
			}
		}
	}
	return table
}

// clusterBands reduces a coordinate multiset to its distinct band positions.
func clusterBands(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)

	bands := []float64{values[0]}
	for _, v := range values[1:] {
		if v-bands[len(bands)-1] > tolerance {
			bands = append(bands, v)
		}
	}
	return bands
}

// bandIndex returns the index of the band matching the value, or -1.
func bandIndex(bands []float64, v float64) int {
	for i, b := range bands {
		if v >= b-bandTolerance && v <= b+bandTolerance {
			return i
		}
	}
	return -1
}

// spannedBands counts the bands falling inside [from, to).
func spannedBands(bands []float64, from, to float64) int {
	n := 0
	for _, b := range bands {
		if b >= from-bandTolerance && b < to-bandTolerance {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	return n
}
