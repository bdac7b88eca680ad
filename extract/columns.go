package extract

import (
	"sort"

	"github.com/tablewright/tablewright/model"
)

// ColumnsFinder infers a column structure from text geometry alone. Rectangles
// from text lines that overlap horizontally are merged into big regions; the
// right side of every region is a column boundary.
type ColumnsFinder struct {
	lines   []*model.Line
	regions []model.Rectangle
}

// NewColumnsFinder creates a finder over lines sorted by their top attribute.
func NewColumnsFinder(lines []*model.Line) *ColumnsFinder {
	return &ColumnsFinder{lines: lines}
}

// skipSchedule returns how many lines to distrust at the head and tail.
// Titles above and footnotes below a table pollute the column statistics, so
// larger tables sacrifice more context lines.
func skipSchedule(lineCount int) (startIndex, skipEnd int) {
	switch {
	case lineCount <= 4:
		return 0, 0
	case lineCount <= 7:
		return 1, 1
	default:
		return 2, 2
	}
}

// Columns returns the ascending list of column right-edges.
func (cf *ColumnsFinder) Columns() []float64 {
	if len(cf.lines) == 0 {
		return nil
	}

	startIndex, skipEnd := skipSchedule(len(cf.lines))

	// seed regions from the first trusted line
	for _, tc := range cf.lines[startIndex].Chunks {
		if tc.IsWhitespace() {
			continue
		}
		cf.regions = append(cf.regions, tc.Rectangle)
	}

	// merge mode across the trusted middle
	for _, l := range cf.lines[startIndex+1 : len(cf.lines)-skipEnd] {
		cf.addLine(l, true)
	}

	// probe mode for the distrusted head and tail: unmatched chunks may still
	// reveal columns that only appear in headers or footers
	for _, l := range cf.lines[:startIndex+1] {
		cf.addLine(l, false)
	}
	for _, l := range cf.lines[len(cf.lines)-skipEnd-1:] {
		cf.addLine(l, false)
	}

	cf.finalize()

	columns := make([]float64, 0, len(cf.regions))
	for _, r := range cf.regions {
		columns = append(columns, r.Right())
	}
	sort.Float64s(columns)
	return columns
}

// addLine matches a line's chunks against the current regions. In merge mode
// matched chunks grow their regions; in probe mode they are only consumed.
// Unmatched chunks seed new regions either way.
func (cf *ColumnsFinder) addLine(line *model.Line, merge bool) {
	var pending []*model.TextChunk
	for _, tc := range line.Chunks {
		if !tc.IsWhitespace() {
			pending = append(pending, tc)
		}
	}

	for i := range cf.regions {
		var remaining []*model.TextChunk
		for _, tc := range pending {
			if cf.regions[i].HorizontallyOverlaps(tc.Rectangle) {
				if merge {
					cf.regions[i] = cf.regions[i].Merge(tc.Rectangle)
				}
			} else {
				remaining = append(remaining, tc)
			}
		}
		pending = remaining
	}

	for _, tc := range pending {
		cf.regions = append(cf.regions, tc.Rectangle)
	}
}

// finalize merges regions that still overlap on X into one region each. A
// single sweep over the regions sorted by left edge reaches the same fixed
// point as repeated pairwise passes.
func (cf *ColumnsFinder) finalize() {
	if len(cf.regions) < 2 {
		return
	}
	sort.Slice(cf.regions, func(i, j int) bool {
		return cf.regions[i].Left < cf.regions[j].Left
	})

	merged := []model.Rectangle{cf.regions[0]}
	for _, r := range cf.regions[1:] {
		last := &merged[len(merged)-1]
		if r.Left < last.Right() {
			*last = last.Merge(r)
		} else {
			merged = append(merged, r)
		}
	}
	cf.regions = merged
}
