package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewright/tablewright/model"
)

// ruledGridPage builds a page with a full 4x3 ruled grid (rows 50 high,
// columns 100 wide, origin at (50, 0)).
func ruledGridPage() *model.Page {
	page := model.NewPage(612, 792)
	for _, y := range []float64{0, 50, 100, 150, 200} {
		page.AddRuling(model.NewRuling(50, y, 350, y))
	}
	for _, x := range []float64{50, 150, 250, 350} {
		page.AddRuling(model.NewRuling(x, 0, x, 200))
	}
	return page
}

func TestSpreadsheetExtractGrid(t *testing.T) {
	page := ruledGridPage()
	// center (210, 55) lands in the cell at row 1, column 1
	page.AddText(model.NewTextElement(50, 205, 10, 10, "X", "Helvetica", 10, 2.5))

	tables := NewSpreadsheetExtractor().Extract(page)

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, "spreadsheet", table.Extractor)
	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, 3, table.ColCount())
	assert.Equal(t, "X", table.CellAt(1, 1).Text())
	assert.Equal(t, "", table.CellAt(0, 0).Text())
}

func TestSpreadsheetExtractCellTextReadingOrder(t *testing.T) {
	page := ruledGridPage()
	// two words inside the same cell, placed bottom-first
	page.AddText(model.NewTextElement(80, 60, 30, 10, "world", "Helvetica", 10, 2.5))
	page.AddText(model.NewTextElement(55, 60, 30, 10, "hello", "Helvetica", 10, 2.5))

	tables := NewSpreadsheetExtractor().Extract(page)

	require.Len(t, tables, 1)
	assert.Equal(t, "hello world", tables[0].CellAt(1, 0).Text())
}

func TestSpreadsheetExtractSpanningCell(t *testing.T) {
	page := model.NewPage(612, 792)
	for _, y := range []float64{0, 50, 100} {
		page.AddRuling(model.NewRuling(0, y, 200, y))
	}
	page.AddRuling(model.NewRuling(0, 0, 0, 100))
	page.AddRuling(model.NewRuling(200, 0, 200, 100))
	page.AddRuling(model.NewRuling(100, 0, 100, 50)) // only spans the top row

	page.AddText(model.NewTextElement(70, 20, 30, 10, "wide", "Helvetica", 10, 2.5))

	tables := NewSpreadsheetExtractor().Extract(page)

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, 2, table.ColCount())

	anchor, ok := table.CellAt(1, 0).(*model.Cell)
	require.True(t, ok)
	assert.True(t, anchor.Spanning)
	assert.Equal(t, "wide", anchor.Text())

	placeholder, ok := table.CellAt(1, 1).(*model.Cell)
	require.True(t, ok)
	assert.True(t, placeholder.Placeholder)
	assert.Equal(t, "", placeholder.Text())
}

func TestSpreadsheetExtractNoRulings(t *testing.T) {
	page := model.NewPage(612, 792)
	page.AddText(model.NewTextElement(100, 50, 60, 10, "lonely", "Helvetica", 10, 2.5))

	tables := NewSpreadsheetExtractor().Extract(page)

	require.Len(t, tables, 1)
	assert.Equal(t, 0, tables[0].RowCount())
}
