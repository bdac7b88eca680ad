package tables

import (
	"errors"
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tablewright/tablewright/extract"
	"github.com/tablewright/tablewright/internal/logging"
	"github.com/tablewright/tablewright/model"
	"github.com/tablewright/tablewright/raster"
	"github.com/tablewright/tablewright/text"
)

// ErrDetectFirst is returned when BluntDetect is handed a nil or empty
// detection result: the blunt pass reuses state gathered by Detect.
var ErrDetectFirst = errors.New("tables: BluntDetect requires a Result from a prior Detect")

var nurminenLog = logging.New("tables.nurminen")

// edge kinds used by relevant-edge voting; SIDE pools left and right.
const (
	voteNone = iota - 1
	_        // left alone is never voted
	voteMid
	_
	voteSide
	voteKinds
)

func init() {
	// registered without a renderer; callers wanting the raster passes
	// construct their own via NewNurminenDetector
	RegisterDetector(NewNurminenDetector(nil))
}

// NurminenDetector finds table areas by combining ruling detection on a
// rasterization of the page with a statistical analysis of repeated text-edge
// alignments, after Anssi Nurminen's table-finding approach.
type NurminenDetector struct {
	config   Config
	renderer raster.Renderer
}

// NewNurminenDetector creates a detector using the given renderer. A nil
// renderer disables the raster passes; detection then runs on text edges
// alone.
func NewNurminenDetector(renderer raster.Renderer) *NurminenDetector {
	return &NurminenDetector{
		config:   DefaultConfig(),
		renderer: renderer,
	}
}

// Name returns the detector's identifier ("nurminen").
func (d *NurminenDetector) Name() string {
	return "nurminen"
}

// Configure sets the detector configuration.
func (d *NurminenDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Result carries the table areas of one detection pass plus the page-scoped
// state BluntDetect reuses. Passing the state explicitly (rather than caching
// it on the detector) removes the call-ordering hazard between the two entry
// points.
type Result struct {
	// Areas are the detected table rectangles, deduplicated.
	Areas []model.Rectangle

	// Text edges discovered by the first text-edge pass, by kind.
	LeftEdges  []*model.TextEdge
	MidEdges   []*model.TextEdge
	RightEdges []*model.TextEdge

	page              *model.Page
	lines             []*model.Line
	textBounds        model.Rectangle
	horizontalRulings []*model.Ruling
}

// Detect finds tables on a page and returns just their areas. Use
// DetectWithResult when the blunt fallback or the discovered text edges are
// needed afterwards.
func (d *NurminenDetector) Detect(page *model.Page) ([]model.Rectangle, error) {
	res, err := d.DetectWithResult(page)
	if err != nil {
		return nil, err
	}
	return res.Areas, nil
}

// DetectWithResult runs the full detection loop:
//
//  1. Find rulings in a grayscale raster of the page (text stripped before the
//     vertical pass, so glyph strokes don't read as rulings).
//  2. Snap, normalize, and collapse the rulings; find cells; cluster cells
//     into table areas and scale them to page space.
//  3. Grow areas over intersecting text rows, drop text-free areas.
//  4. Repeatedly mine the remaining text rows for edge alignments and carve
//     further table areas out of them until none emerge.
func (d *NurminenDetector) DetectWithResult(page *model.Page) (*Result, error) {
	res := &Result{page: page}

	horizontalRulings, verticalRulings, rasterOK := d.rasterRulings(page)
	if !rasterOK {
		// rasterization failure is an empty result, not an error
		return res, nil
	}

	var tableAreas []model.Rectangle
	if len(horizontalRulings)+len(verticalRulings) > 0 {
		all := append(append([]*model.Ruling{}, horizontalRulings...), verticalRulings...)
		model.SnapPoints(all, d.config.PointSnapDistance, d.config.PointSnapDistance)

		horizontalRulings = renormalize(horizontalRulings)
		verticalRulings = renormalize(verticalRulings)

		// a larger expansion than plain spreadsheet extraction, covering gaps
		// left by edge detection and pixel snapping
		horizontalRulings = model.CollapseOrientedRulings(horizontalRulings, 5)
		verticalRulings = model.CollapseOrientedRulings(verticalRulings, 5)

		cells := extract.FindCells(horizontalRulings, verticalRulings)
		tableAreas = d.tableAreasFromCells(cells)
		nurminenLog.Debug("cell pass complete", "cells", len(cells), "areas", len(tableAreas))
	}

	// vertical rulings that pierce a table body but weren't captured as cells
	// (missing horizontal lines) should still stretch the table
	for _, vr := range verticalRulings {
		for i := range tableAreas {
			area := &tableAreas[i]
			if area.IntersectsLine(vr) &&
				!(area.ContainsPoint(vr.P1) && area.ContainsPoint(vr.P2)) {
				area.SetTop(math.Floor(math.Min(area.Top, vr.Top())))
				area.SetBottom(math.Ceil(math.Max(area.Bottom(), vr.Bottom())))
				break
			}
		}
	}

	// image space is twice page space; halve and pad so nothing gets clipped
	pad := d.config.Padding
	for i := range tableAreas {
		a := tableAreas[i]
		tableAreas[i] = model.Rectangle{
			Top:    a.Top/2 - pad,
			Left:   a.Left/2 - pad,
			Width:  a.Width/2 + 2*pad,
			Height: a.Height/2 + pad + 1,
		}
	}
	for _, hr := range horizontalRulings {
		hr.P1.X, hr.P1.Y, hr.P2.X, hr.P2.Y = hr.P1.X/2, hr.P1.Y/2, hr.P2.X/2, hr.P2.Y/2
	}

	// long runs of text are justified paragraphs, not table rows
	chunks := text.MergeWords(page, nil)
	kept := chunks[:0]
	for _, tc := range chunks {
		if tc.Width <= d.config.MaxChunkWidthRatio*page.Width {
			kept = append(kept, tc)
		}
	}
	lines := text.GroupByLines(kept)

	res.lines = append(make([]*model.Line, 0, len(lines)), lines...)
	res.textBounds = page.TextBounds()
	res.horizontalRulings = horizontalRulings

	// text rows crossing an existing area belong to it
	for _, textRow := range lines {
		for i := range tableAreas {
			area := &tableAreas[i]
			if !area.Contains(textRow.Rectangle) && textRow.Intersects(*area) {
				area.SetLeft(math.Floor(math.Min(textRow.Left, area.Left)))
				area.SetRight(math.Ceil(math.Max(textRow.Right(), area.Right())))
			}
		}
	}

	// areas with no text at all are graphics, not tables
	textful := tableAreas[:0]
	for _, area := range tableAreas {
		for _, textRow := range lines {
			if area.Intersects(textRow.Rectangle) {
				textful = append(textful, area)
				break
			}
		}
	}
	tableAreas = textful

	// iterative text-edge pass: tables without any rulings at all
	savedEdges := false
	for {
		remaining := lines[:0]
		for _, textRow := range lines {
			inside := false
			for _, area := range tableAreas {
				if area.Contains(textRow.Rectangle) {
					inside = true
					break
				}
			}
			if !inside {
				remaining = append(remaining, textRow)
			}
		}
		lines = remaining

		edges := computeTextEdges(lines, res.textBounds, d.config.RequiredLinesForEdge)
		if !savedEdges {
			res.LeftEdges = append(res.LeftEdges, edges.left...)
			res.MidEdges = append(res.MidEdges, edges.mid...)
			res.RightEdges = append(res.RightEdges, edges.right...)
			savedEdges = true
		}

		sideEdges := append(append([]*model.TextEdge{}, edges.right...), edges.left...)

		kind, count := relevantEdges(edges.mid, sideEdges, len(lines))
		if kind == voteNone {
			break
		}

		relevant := sideEdges
		if kind == voteMid {
			relevant = edges.mid
		}

		table := d.tableFromText(lines, relevant, count, horizontalRulings, res.textBounds)
		if table == nil {
			break
		}
		tableAreas = append(tableAreas, d.expandArea(page, *table))
	}

	res.Areas = dedupAreas(tableAreas, d.config.IdenticalOverlapRatio)
	nurminenLog.Debug("detection complete", "areas", len(res.Areas))
	return res, nil
}

// BluntDetect finds the biggest table on the page, relaxing the edge-count
// and text-overlap thresholds step by step. It is prone to false positives on
// table-free pages and merges multiple tables into one, but can find tables
// Detect misses. The result of a prior Detect on the same page is required.
func (d *NurminenDetector) BluntDetect(res *Result) (model.Rectangle, bool, error) {
	if res == nil || res.page == nil || res.lines == nil {
		return model.Rectangle{}, false, ErrDetectFirst
	}

	edges := computeTextEdges(res.lines, res.textBounds, d.config.RequiredLinesForEdge)
	sideEdges := append(append([]*model.TextEdge{}, edges.right...), edges.left...)

	for targetOverlap := 0.7; targetOverlap >= 0.1; targetOverlap -= 0.1 {
		for edgeCount := 8; edgeCount >= 3; edgeCount-- {
			table := d.tableFromText(res.lines, sideEdges, edgeCount, res.horizontalRulings, res.textBounds)
			if table != nil && table.VerticalOverlapPercent(res.textBounds) > targetOverlap {
				return d.expandArea(res.page, *table), true, nil
			}
		}
	}
	return model.Rectangle{}, false, nil
}

// rasterRulings renders the page and scans the raster for rulings. The
// vertical pass runs on a text-suppressed render when the renderer supports
// it. Any render failure reports rasterOK false.
func (d *NurminenDetector) rasterRulings(page *model.Page) (horizontal, vertical []*model.Ruling, rasterOK bool) {
	if d.renderer == nil {
		// no raster passes; detection proceeds on text edges alone
		return nil, nil, true
	}

	img, err := d.renderer.RenderGray(page, raster.DPI)
	if err != nil {
		nurminenLog.Debug("rasterization failed", "err", err)
		return nil, nil, false
	}
	horizontal = horizontalRulingsFromRaster(img, d.config.IntensityThreshold, d.config.HorizontalMinWidth)

	textless := img
	if tm, ok := d.renderer.(raster.TextMaskingRenderer); ok {
		textless, err = tm.RenderGrayNoText(page, raster.DPI)
		if err != nil {
			nurminenLog.Debug("text suppression failed", "err", err)
			return nil, nil, false
		}
	}
	vertical = verticalRulingsFromRaster(textless, d.config.IntensityThreshold, d.config.VerticalMinHeight)

	return horizontal, vertical, true
}

// renormalize re-normalizes rulings after snapping and drops any that came
// out oblique or degenerate.
func renormalize(rulings []*model.Ruling) []*model.Ruling {
	out := rulings[:0]
	for _, r := range rulings {
		r.Normalize()
		if r.Valid() && !r.Oblique() {
			out = append(out, r)
		}
	}
	return out
}

// tableAreasFromCells clusters cells whose corners nearly touch and turns
// each cluster of sufficient size into a table area (image coordinates).
func (d *NurminenDetector) tableAreasFromCells(cells []*model.Cell) []model.Rectangle {
	if len(cells) == 0 {
		return nil
	}

	// corner index: every cell contributes its four corners
	var corners rtree.RTreeG[int]
	for i, cell := range cells {
		for _, p := range cell.Points() {
			corners.Insert([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y}, i)
		}
	}

	// union cells whose corners are within the corner distance
	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	dist := d.config.CellCornerDistance
	for i, cell := range cells {
		for _, p := range cell.Points() {
			corners.Search(
				[2]float64{p.X - dist, p.Y - dist},
				[2]float64{p.X + dist, p.Y + dist},
				func(min, _ [2]float64, j int) bool {
					if j != i && p.Distance(model.Point{X: min[0], Y: min[1]}) < dist {
						union(i, j)
					}
					return true
				})
		}
	}

	groups := make(map[int][]model.Rectangle)
	for i, cell := range cells {
		root := find(i)
		groups[root] = append(groups[root], cell.Rectangle)
	}

	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var areas []model.Rectangle
	for _, root := range roots {
		group := groups[root]
		if len(group) < d.config.RequiredCellsForTable {
			continue
		}
		areas = append(areas, model.BoundingBoxOf(group))
	}
	return areas
}

// relevantEdges votes for the edge kind that defines the page's tables: the
// count of edges crossing the most text rows, preferring mid alignments (at
// least a pair) over side alignments (at least three).
func relevantEdges(midEdges, sideEdges []*model.TextEdge, lineCount int) (kind, count int) {
	if lineCount == 0 {
		return voteNone, 0
	}

	buckets := make([][voteKinds][]*model.TextEdge, lineCount)
	bucketOf := func(e *model.TextEdge) int {
		i := e.RowCount - 1
		if i < 0 {
			i = 0
		}
		if i >= lineCount {
			i = lineCount - 1
		}
		return i
	}
	for _, e := range sideEdges {
		i := bucketOf(e)
		buckets[i][voteSide] = append(buckets[i][voteSide], e)
	}
	for _, e := range midEdges {
		i := bucketOf(e)
		buckets[i][voteMid] = append(buckets[i][voteMid], e)
	}

	for i := lineCount - 1; i > 2; i-- {
		side := append([]*model.TextEdge{}, buckets[i][voteSide]...)
		mid := append([]*model.TextEdge{}, buckets[i][voteMid]...)

		// side edges one row off still count; mid edges are more
		// false-positive prone and get no such slack
		if i > 3 {
			side = append(side, buckets[i-1][voteSide]...)
			if i < lineCount-1 {
				side = append(side, buckets[i+1][voteSide]...)
			}
		}

		sideCount := len(side)
		midCount := len(mid)

		// only the largest group of vertically adjacent edges speaks for a
		// single table
		if sideGroups := adjacentGroups(side); len(sideGroups) > 1 {
			sideCount = maxGroupCount(sideGroups)
		}
		if midGroups := adjacentGroups(mid); len(midGroups) > 1 {
			midCount = maxGroupCount(midGroups)
		}

		if midCount > 1 {
			return voteMid, midCount
		}
		if sideCount > 2 {
			return voteSide, sideCount
		}
	}
	return voteNone, 0
}

// yGroup is a set of text edges merged by Y overlap.
type yGroup struct {
	top, bottom float64
	count       int
}

func (g *yGroup) overlaps(other *yGroup) bool {
	return g.top <= other.bottom && other.top <= g.bottom
}

// adjacentGroups merges vertically overlapping edges into groups.
func adjacentGroups(edges []*model.TextEdge) []*yGroup {
	var groups []*yGroup
	for _, e := range edges {
		groups = append(groups, &yGroup{top: e.Top, bottom: e.Bottom, count: 1})
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(groups) && !merged; i++ {
			for j := i + 1; j < len(groups); j++ {
				if groups[i].overlaps(groups[j]) {
					groups[i].top = math.Min(groups[i].top, groups[j].top)
					groups[i].bottom = math.Max(groups[i].bottom, groups[j].bottom)
					groups[i].count += groups[j].count
					groups = append(groups[:j], groups[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	return groups
}

func maxGroupCount(groups []*yGroup) int {
	max := 0
	for _, g := range groups {
		if g.count > max {
			max = g.count
		}
	}
	return max
}

// tableFromText walks the text rows top-to-bottom and grows a table over the
// ones that intersect enough relevant edges. The table closes when the gap to
// the next candidate row exceeds 2.5 times the running average row spacing or
// a row touches no edges at all; nearby horizontal rulings then stretch the
// result.
func (d *NurminenDetector) tableFromText(lines []*model.Line, relevantEdges []*model.TextEdge,
	relevantEdgeCount int, horizontalRulings []*model.Ruling, textBounds model.Rectangle) *model.Rectangle {

	var table model.Rectangle

	var prevRow, firstTableRow, lastTableRow *model.Line
	tableSpaceCount := 0
	totalRowSpacing := 0.0

	edgeRects := make([]model.Rectangle, len(relevantEdges))
	for i, e := range relevantEdges {
		edgeRects[i] = e.Rect()
	}

	for _, textRow := range lines {
		numRelevantEdges := 0
		numRelevantEdgesToFullRow := 0

		fullRowRect := textRow.Rectangle
		fullRowRect.SetLeft(textBounds.Left)
		fullRowRect.SetRight(textBounds.Right())

		for _, edgeRect := range edgeRects {
			if textRow.Intersects(edgeRect) {
				numRelevantEdges++
			}
			if fullRowRect.Intersects(edgeRect) {
				numRelevantEdgesToFullRow++
			}
		}

		if firstTableRow != nil && tableSpaceCount > 0 {
			// rows drifting beyond the running spacing close the table
			tableLineThreshold := (totalRowSpacing / float64(tableSpaceCount)) * 2.5
			lineDistance := textRow.Top - prevRow.Top

			if lineDistance > tableLineThreshold || numRelevantEdgesToFullRow == 0 {
				lastTableRow = prevRow
				break
			}
		}

		// larger tables may miss an edge per row; small ones may not,
		// otherwise paragraphs read as tables
		threshold := 1
		if relevantEdgeCount <= 3 {
			threshold = 0
		}

		if numRelevantEdges >= relevantEdgeCount-threshold {
			if prevRow != nil && firstTableRow != nil {
				tableSpaceCount++
				totalRowSpacing += textRow.Top - prevRow.Top
			}

			if table.Area() == 0 {
				firstTableRow = textRow
				table = textRow.Rectangle
			} else {
				table.SetLeft(math.Min(table.Left, textRow.Left))
				table.SetBottom(math.Max(table.Bottom(), textRow.Bottom()))
				table.SetRight(math.Max(table.Right(), textRow.Right()))
			}
		} else if firstTableRow != nil && lastTableRow == nil {
			lastTableRow = prevRow
		}

		prevRow = textRow
	}

	if table.Area() == 0 {
		return nil
	}
	if lastTableRow == nil {
		// one-row tables and tables ending at the bottom of the page
		lastTableRow = prevRow
	}

	avgRowHeight := lastTableRow.Height
	if tableSpaceCount > 0 {
		avgRowHeight = totalRowSpacing / float64(tableSpaceCount)
	}

	// nearby horizontal rulings extend the table downward...
	rowHeightThreshold := avgRowHeight * d.config.RowHeightMultBottom
	for _, ruling := range horizontalRulings {
		if ruling.P1.Y < table.Bottom() {
			continue
		}
		if ruling.P1.Y-table.Bottom() <= rowHeightThreshold {
			table.SetBottom(math.Max(table.Bottom(), ruling.P1.Y))
			table.SetLeft(math.Min(table.Left, ruling.Left()))
			table.SetRight(math.Max(table.Right(), ruling.Right()))
		} else {
			break
		}
	}

	// ...and upward, with more headroom since headings run taller
	rowHeightThreshold = avgRowHeight * d.config.RowHeightMultTop
	for i := len(horizontalRulings) - 1; i >= 0; i-- {
		ruling := horizontalRulings[i]
		if ruling.P1.Y > table.Top {
			continue
		}
		if table.Top-ruling.P1.Y <= rowHeightThreshold {
			table.SetTop(math.Min(table.Top, ruling.P1.Y))
			table.SetLeft(math.Min(table.Left, ruling.Left()))
			table.SetRight(math.Max(table.Right(), ruling.Right()))
		} else {
			break
		}
	}

	pad := d.config.Padding
	table.SetTop(math.Floor(table.Top) - pad)
	table.SetBottom(math.Ceil(table.Bottom()) + pad)
	table.SetLeft(math.Floor(table.Left) - pad)
	table.SetRight(math.Ceil(table.Right()) + pad)

	return &table
}

// expandArea grows a table area upward and downward until new content crosses
// the table's column boundaries.
func (d *NurminenDetector) expandArea(page *model.Page, table model.Rectangle) model.Rectangle {
	tablePage := page.Area(table)
	chunks := text.MergeWords(tablePage, nil)
	relevantLines := text.GroupByLines(chunks)

	columns := extract.NewColumnsFinder(relevantLines).Columns()

	// probe rulings at column+1 so the last glyph of a column doesn't trip them
	var probes []*model.Ruling
	for _, column := range columns {
		probes = append(probes, model.NewRulingAt(page.Top, column+1, 0.1, page.Height))
	}

	above := page.Area(model.NewRectangle(page.Top, table.Left, table.Width, table.Top-page.Top))
	below := page.Area(model.NewRectangle(table.Bottom(), table.Left, table.Width, page.Bottom()-table.Bottom()))

	withBelow := expandIntoArea(table, probes, below, false)
	return expandIntoArea(withBelow, probes, above, true)
}

// expandIntoArea merges the area's text rows into the table until a chunk
// crosses one of the probe rulings; scanning runs bottom-up when growing the
// top side.
func expandIntoArea(table model.Rectangle, probes []*model.Ruling, areaPage *model.Page, topPart bool) model.Rectangle {
	chunks := text.MergeWords(areaPage, nil)
	lines := text.GroupByLines(chunks)

	if topPart {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}

	area := table
scan:
	for _, line := range lines {
		for _, chunk := range line.Chunks {
			if chunk.IsWhitespace() {
				continue
			}
			probe := chunk.Rectangle
			if probe.Width > 5 {
				// give a little room for error at the right edge
				probe.Width -= 5
			}
			for _, ruling := range probes {
				if probe.IntersectsLine(ruling) {
					break scan
				}
			}
		}
		area = area.Merge(line.Rectangle)
	}

	// otherwise text can get cut off
	if topPart {
		area.SetTop(area.Top - 1)
	} else {
		area.SetBottom(area.Bottom() + 1)
	}
	return area
}

// dedupAreas keeps the largest of any set of equivalent areas: two areas are
// the same table when one contains the other or their overlap ratio reaches
// the identical-overlap threshold. Sorting by area first makes the pass
// deterministic and idempotent.
func dedupAreas(areas []model.Rectangle, identicalOverlap float64) []model.Rectangle {
	sorted := make([]model.Rectangle, len(areas))
	copy(sorted, areas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	var kept []model.Rectangle
	for _, area := range sorted {
		duplicate := false
		for _, k := range kept {
			if k.Contains(area) || area.Contains(k) || k.OverlapRatio(area) >= identicalOverlap {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, area)
		}
	}
	return kept
}
