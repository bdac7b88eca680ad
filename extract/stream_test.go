package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewright/tablewright/model"
)

// textTablePage builds a page with rows x cols single-element words at the
// given column left-edges.
func textTablePage(rows int, lefts []float64) *model.Page {
	page := model.NewPage(612, 792)
	for i := 0; i < rows; i++ {
		top := 100 + float64(i*20)
		for j, left := range lefts {
			str := fmt.Sprintf("R%dC%d", i, j)
			page.AddText(model.NewTextElement(top, left, 60, 10, str, "Helvetica", 10, 2.5))
		}
	}
	return page
}

func TestStreamExtractPureTextTable(t *testing.T) {
	page := textTablePage(4, []float64{50, 200, 380})

	tables := NewStreamExtractor().Extract(page)

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, "stream", table.Extractor)
	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, 3, table.ColCount())

	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, fmt.Sprintf("R%dC%d", i, j), table.CellAt(i, j).Text())
		}
	}
}

func TestStreamExtractEmptyPage(t *testing.T) {
	tables := NewStreamExtractor().Extract(model.NewPage(612, 792))

	require.Len(t, tables, 1)
	assert.Equal(t, 0, tables[0].RowCount())
}

func TestStreamExtractOverflowColumn(t *testing.T) {
	page := model.NewPage(612, 792)
	page.AddText(model.NewTextElement(100, 50, 40, 10, "in", "Helvetica", 10, 2.5))
	page.AddText(model.NewTextElement(100, 150, 40, 10, "past", "Helvetica", 10, 2.5))

	tables := NewStreamExtractor().ExtractWithColumns(page, []float64{100})

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, 2, table.ColCount())
	assert.Equal(t, "in", table.CellAt(0, 0).Text())
	assert.Equal(t, "past", table.CellAt(0, 1).Text())
}

func TestStreamExtractSuppliedRulingsOverrideInference(t *testing.T) {
	page := textTablePage(4, []float64{50, 200, 380})

	// one ruling between the second and third columns: two columns total
	tables := NewStreamExtractor().ExtractWithColumns(page, []float64{300})

	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].ColCount())
}

// mixedModePage builds five text rows and two horizontal rulings crossing
// the text body: ratio 0.4 against the 0.33 trigger.
func mixedModePage() *model.Page {
	page := textTablePage(5, []float64{50, 200, 380})
	page.AddRuling(model.NewRuling(40, 133, 460, 133))
	page.AddRuling(model.NewRuling(40, 173, 460, 173))
	return page
}

func TestStreamExtractMixedModeTrigger(t *testing.T) {
	page := mixedModePage()

	se := NewStreamExtractor()
	se.MixedTableExtraction = true
	tables := se.Extract(page)

	require.NotEmpty(t, tables)
	assert.Equal(t, "spreadsheet", tables[0].Extractor)
	assert.NotEmpty(t, se.MixedRulings)
}

func TestStreamExtractMixedModeDisabled(t *testing.T) {
	page := mixedModePage()

	se := NewStreamExtractor()
	tables := se.Extract(page)

	require.Len(t, tables, 1)
	assert.Equal(t, "stream", tables[0].Extractor)
	assert.Empty(t, se.MixedRulings)
}

func TestStreamExtractMixedModeBelowRatio(t *testing.T) {
	// one ruling against five lines: 0.2 stays under the trigger
	page := textTablePage(5, []float64{50, 200, 380})
	page.AddRuling(model.NewRuling(40, 133, 460, 133))

	se := NewStreamExtractor()
	se.MixedTableExtraction = true
	tables := se.Extract(page)

	require.Len(t, tables, 1)
	assert.Equal(t, "stream", tables[0].Extractor)
}

func TestStreamExtractDiscountsRulingsOutsideText(t *testing.T) {
	// two in-body rulings would trigger; pushing them above the text
	// discounts them and keeps the page in stream mode
	page := textTablePage(5, []float64{50, 200, 380})
	page.AddRuling(model.NewRuling(40, 20, 460, 20))
	page.AddRuling(model.NewRuling(40, 30, 460, 30))

	se := NewStreamExtractor()
	se.MixedTableExtraction = true
	tables := se.Extract(page)

	require.Len(t, tables, 1)
	assert.Equal(t, "stream", tables[0].Extractor)
}
