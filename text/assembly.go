package text

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tablewright/tablewright/model"
)

// Fraction of a space width two glyphs may be apart and still belong to the
// same chunk. Matches the word-boundary threshold used for plain text
// extraction.
const spaceGapFactor = 0.5

// MergeWords merges the page's glyphs into word-like TextChunks. Vertical
// rulings, when supplied, act as split barriers: a chunk never straddles one.
func MergeWords(page *model.Page, verticalRulings []*model.Ruling) []*model.TextChunk {
	// chunks hold copies of the glyphs so extracted tables never alias the page
	elements := make([]*model.TextElement, len(page.Text()))
	for i, e := range page.Text() {
		c := *e
		elements[i] = &c
	}
	if len(elements) == 0 {
		return nil
	}

	sortReadingOrder(elements)

	var chunks []*model.TextChunk
	current := model.NewTextChunk(elements[0])
	prev := elements[0]

	for _, e := range elements[1:] {
		if startsNewChunk(prev, e, verticalRulings) {
			chunks = append(chunks, current)
			current = model.NewTextChunk(e)
		} else {
			current.Add(e)
		}
		prev = e
	}
	chunks = append(chunks, current)

	for _, tc := range chunks {
		fuseCombining(tc)
	}
	return chunks
}

// startsNewChunk decides whether e begins a new chunk after prev.
func startsNewChunk(prev, e *model.TextElement, verticalRulings []*model.Ruling) bool {
	// different baseline band
	if e.VerticalOverlap(prev.Rectangle) < 0.1*minf(e.Height, prev.Height) {
		return true
	}
	// line wrap or out-of-order placement
	if e.Left < prev.Left {
		return true
	}
	// font change breaks the run
	if e.Font != prev.Font || e.FontSize != prev.FontSize {
		return true
	}
	// word gap
	gap := e.Left - prev.Right()
	spaceWidth := prev.WidthOfSpace
	if spaceWidth <= 0 {
		spaceWidth = prev.FontSize * 0.25
	}
	if gap >= spaceWidth*spaceGapFactor {
		return true
	}
	// whitespace elements always stand alone
	if isWhitespace(e.Str) || isWhitespace(prev.Str) {
		return true
	}
	// vertical ruling between the two glyphs is a column barrier
	for _, vr := range verticalRulings {
		if !vr.Vertical() {
			continue
		}
		x := vr.P1.X
		if x >= prev.Right() && x <= e.Left+e.Width/2 &&
			vr.Top() <= e.Bottom() && vr.Bottom() >= e.Top {
			return true
		}
	}
	return false
}

// sortReadingOrder orders glyphs top-to-bottom, then left-to-right within a
// shared baseline band.
func sortReadingOrder(elements []*model.TextElement) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i], elements[j]
		if a.VerticalOverlap(b.Rectangle) >= 0.5*minf(a.Height, b.Height) {
			return a.Left < b.Left
		}
		return a.Top < b.Top
	})
}

// fuseCombining folds combining marks into their base glyphs and normalizes
// the chunk text to NFC. PDF producers frequently emit accents as separate
// positioned glyphs; without this step "é" arrives as two chunks of garbage.
func fuseCombining(tc *model.TextChunk) {
	var sb strings.Builder
	for _, e := range tc.Elements {
		sb.WriteString(e.Str)
	}
	tc.SetText(norm.NFC.String(sb.String()))
}

// GroupByLines groups chunks into text lines. Two chunks share a line when
// their vertical projections overlap by at least half the shorter of the two
// heights.
func GroupByLines(chunks []*model.TextChunk) []*model.Line {
	if len(chunks) == 0 {
		return nil
	}

	sorted := make([]*model.TextChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].Left < sorted[j].Left
	})

	var lines []*model.Line
	for _, tc := range sorted {
		placed := false
		for i := len(lines) - 1; i >= 0; i-- {
			line := lines[i]
			if tc.VerticalOverlap(line.Rectangle) >= 0.5*minf(tc.Height, line.Height) {
				line.Add(tc)
				placed = true
				break
			}
			// lines are sorted; once we're past any candidate, stop looking
			if line.Bottom() < tc.Top {
				break
			}
		}
		if !placed {
			lines = append(lines, model.NewLine(tc))
		}
	}

	for _, line := range lines {
		line.SortChunks()
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Top < lines[j].Top })
	return lines
}

func isWhitespace(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
