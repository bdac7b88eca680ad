package extract

import (
	"math"
	"sort"

	"github.com/tablewright/tablewright/internal/logging"
	"github.com/tablewright/tablewright/model"
	"github.com/tablewright/tablewright/text"
)

// Fraction of meaningful horizontal rulings per text line above which a
// "stream" page is reinterpreted as a ruled spreadsheet.
const mixedModeRulingRatio = 0.33

var streamLog = logging.New("extract.stream")

// StreamExtractor extracts a table from text geometry alone, binning chunks
// into columns inferred from the text (or supplied by the caller). With mixed
// extraction enabled it hands ruling-rich pages to the spreadsheet extractor
// on a synthesized grid.
//
// Instances carry per-extraction configuration; callers sharing one across
// goroutines must provide external mutual exclusion.
type StreamExtractor struct {
	verticalRulings []*model.Ruling

	// MixedTableExtraction enables the spreadsheet delegation for pages whose
	// horizontal-ruling density exceeds the trigger ratio.
	MixedTableExtraction bool

	// MixedRulings records the synthesized ruling set of the last mixed-mode
	// delegation, for callers auditing the synthetic grid.
	MixedRulings []*model.Ruling
}

// NewStreamExtractor creates a stream extractor that infers columns.
func NewStreamExtractor() *StreamExtractor {
	return &StreamExtractor{}
}

// NewStreamExtractorWithRulings creates a stream extractor that uses the given
// vertical rulings as column boundaries instead of inferring them.
func NewStreamExtractorWithRulings(verticalRulings []*model.Ruling) *StreamExtractor {
	return &StreamExtractor{verticalRulings: verticalRulings}
}

// Name returns the extractor's identifier.
func (se *StreamExtractor) Name() string { return "stream" }

// ExtractWithColumns runs extraction with explicit column X positions, each
// turned into a full-height vertical ruling.
func (se *StreamExtractor) ExtractWithColumns(page *model.Page, columnXs []float64) []*model.Table {
	rulings := make([]*model.Ruling, 0, len(columnXs))
	for _, x := range columnXs {
		rulings = append(rulings, model.NewRulingAt(page.Top, x, 0, page.Height))
	}
	se.verticalRulings = rulings
	return se.Extract(page)
}

// Extract produces one table for the page (the single-table assumption), or
// the spreadsheet extractor's output when mixed mode fires.
func (se *StreamExtractor) Extract(page *model.Page) []*model.Table {
	if len(page.Text()) == 0 {
		return []*model.Table{model.EmptyTable()}
	}

	chunks := text.MergeWords(page, se.verticalRulings)
	lines := text.GroupByLines(chunks)

	var columns []float64
	if se.verticalRulings != nil {
		sorted := make([]*model.Ruling, len(se.verticalRulings))
		copy(sorted, se.verticalRulings)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Left() < sorted[j].Left() })
		for _, vr := range sorted {
			columns = append(columns, vr.Left())
		}
	} else {
		columns = NewColumnsFinder(lines).Columns()
	}

	table := model.NewTable(page.Rect(), se.Name())
	for i, line := range lines {
		line.SortChunks()
		for _, tc := range line.Chunks {
			if tc.IsWhitespace() {
				continue
			}
			col := len(columns) // overflow column
			for j, edge := range columns {
				if tc.Left <= edge {
					col = j
					break
				}
			}
			table.Add(tc, i, col)
		}
	}

	if se.MixedTableExtraction {
		if tables, ok := se.mixedExtract(page, lines, columns); ok {
			return tables
		}
	}

	return []*model.Table{table}
}

// mixedExtract reinterprets the page as a spreadsheet when enough horizontal
// rulings survive clipping. Returns false when the trigger ratio is not met.
func (se *StreamExtractor) mixedExtract(page *model.Page, lines []*model.Line, columns []float64) ([]*model.Table, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	horizontal := meaningfulHorizontalRulings(page, lines)
	ratio := float64(len(horizontal)) / float64(len(lines))
	if ratio <= mixedModeRulingRatio {
		return nil, false
	}
	streamLog.Debug("mixed mode triggered", "rulings", len(horizontal), "lines", len(lines))

	minH, maxH := math.MaxFloat64, -math.MaxFloat64
	for _, hr := range horizontal {
		minH = math.Min(minH, hr.P1.Y)
		maxH = math.Max(maxH, hr.P1.Y)
		hr.SetStart(page.Left)
		hr.SetEnd(page.Right())
	}

	// text above the topmost ruling (or below the bottommost) needs a page
	// border ruling, otherwise its rows fall outside every cell
	contentTop := lines[0].Top
	contentBottom := lines[len(lines)-1].Bottom()
	if contentTop < minH {
		horizontal = append(horizontal, model.NewRuling(page.Left, page.Top, page.Right(), page.Top))
	}
	if contentBottom > maxH {
		horizontal = append(horizontal, model.NewRuling(page.Left, page.Bottom(), page.Right(), page.Bottom()))
	}

	// one vertical ruling per column; offset by +1 so the rightmost glyph of
	// each column is not clipped, plus a left page boundary
	combined := make([]*model.Ruling, 0, len(columns)+len(horizontal)+1)
	for _, column := range append([]float64{page.Left - 1}, columns...) {
		combined = append(combined, model.NewRulingAt(page.Top, column+1, 0.1, page.Height))
	}
	combined = append(combined, horizontal...)

	se.MixedRulings = append([]*model.Ruling(nil), combined...)
	return NewSpreadsheetExtractor().ExtractWithRulings(page, combined), true
}

// meaningfulHorizontalRulings collapses the page's horizontal rulings, keeps
// the ones at least partly on the page, and discounts any lying entirely
// above or below all text.
func meaningfulHorizontalRulings(page *model.Page, lines []*model.Line) []*model.Ruling {
	collapsed := model.CollapseOrientedRulings(page.HorizontalRulings(), 1)

	contentTop := lines[0].Top
	contentBottom := lines[len(lines)-1].Bottom()

	var meaningful []*model.Ruling
	for _, hr := range collapsed {
		if !page.IntersectsLine(hr) {
			continue
		}
		if hr.P1.Y < contentTop || hr.P1.Y > contentBottom {
			continue
		}
		meaningful = append(meaningful, hr)
	}
	return meaningful
}
