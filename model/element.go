package model

import (
	"sort"
	"strings"
	"unicode"
)

// TextContainer is implemented by anything rectangular that carries text:
// TextChunks placed by the stream extractor and Cells assembled by the
// spreadsheet extractor.
type TextContainer interface {
	Rect() Rectangle
	Text() string
}

// TextElement is a single positioned glyph or glyph fragment.
type TextElement struct {
	Rectangle
	Str          string
	Font         string
	FontSize     float64
	WidthOfSpace float64
}

// NewTextElement creates a glyph at the given position.
func NewTextElement(top, left, width, height float64, str, font string, fontSize, widthOfSpace float64) *TextElement {
	return &TextElement{
		Rectangle:    NewRectangle(top, left, width, height),
		Str:          str,
		Font:         font,
		FontSize:     fontSize,
		WidthOfSpace: widthOfSpace,
	}
}

// Rect returns the element's bounding rectangle.
func (te *TextElement) Rect() Rectangle { return te.Rectangle }

// Text returns the element's string content.
func (te *TextElement) Text() string { return te.Str }

// TextChunk is a horizontal run of adjacent glyphs merged into one word-like
// unit. Chunks are ordered left-to-right within a text line.
type TextChunk struct {
	Rectangle
	Elements []*TextElement
	str      string
}

// NewTextChunk starts a chunk from its first element.
func NewTextChunk(first *TextElement) *TextChunk {
	return &TextChunk{
		Rectangle: first.Rectangle,
		Elements:  []*TextElement{first},
		str:       first.Str,
	}
}

// NewTextChunkAt creates a positioned chunk with literal content. Used by
// tests and by Table for empty positions and folded non-chunk containers.
func NewTextChunkAt(top, left, width, height float64, str string) *TextChunk {
	return &TextChunk{
		Rectangle: NewRectangle(top, left, width, height),
		str:       str,
	}
}

// Add merges another element into the chunk, growing its bounds.
func (tc *TextChunk) Add(e *TextElement) {
	tc.Rectangle = tc.Rectangle.Merge(e.Rectangle)
	tc.Elements = append(tc.Elements, e)
	tc.str += e.Str
}

// SetText replaces the chunk's cached string content.
func (tc *TextChunk) SetText(s string) { tc.str = s }

// Rect returns the chunk's bounding rectangle.
func (tc *TextChunk) Rect() Rectangle { return tc.Rectangle }

// Text returns the chunk's string content.
func (tc *TextChunk) Text() string { return tc.str }

// IsWhitespace reports whether the chunk contains only whitespace.
func (tc *TextChunk) IsWhitespace() bool {
	if tc.str == "" {
		return true
	}
	for _, r := range tc.str {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Line is a vertical grouping of TextChunks sharing a baseline band.
type Line struct {
	Rectangle
	Chunks []*TextChunk
}

// NewLine starts a line from its first chunk.
func NewLine(first *TextChunk) *Line {
	return &Line{Rectangle: first.Rectangle, Chunks: []*TextChunk{first}}
}

// Add merges a chunk into the line, growing its bounds.
func (l *Line) Add(tc *TextChunk) {
	l.Rectangle = l.Rectangle.Merge(tc.Rectangle)
	l.Chunks = append(l.Chunks, tc)
}

// SortChunks orders the line's chunks left-to-right.
func (l *Line) SortChunks() {
	sort.SliceStable(l.Chunks, func(i, j int) bool {
		return l.Chunks[i].Left < l.Chunks[j].Left
	})
}

// Cell is a minimal rectangular region bounded by four ruling segments,
// populated with the chunks whose centers fall inside it.
type Cell struct {
	Rectangle
	Chunks []*TextChunk

	// Spanning marks a cell that covers more than one row or column band.
	Spanning bool
	// Placeholder marks a synthetic empty cell filling a spanned position.
	Placeholder bool
}

// NewCell creates an empty cell covering the given region.
func NewCell(r Rectangle) *Cell {
	return &Cell{Rectangle: r}
}

// Rect returns the cell's bounding rectangle.
func (c *Cell) Rect() Rectangle { return c.Rectangle }

// Text concatenates the cell's chunks in natural reading order, top-to-bottom
// then left-to-right, separated by single spaces.
func (c *Cell) Text() string {
	if len(c.Chunks) == 0 {
		return ""
	}
	chunks := make([]*TextChunk, len(c.Chunks))
	copy(chunks, c.Chunks)
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Top != chunks[j].Top {
			return chunks[i].Top < chunks[j].Top
		}
		return chunks[i].Left < chunks[j].Left
	})

	var sb strings.Builder
	for i, tc := range chunks {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.TrimSpace(tc.Text()))
	}
	return strings.TrimSpace(sb.String())
}

// AddChunk places a text chunk inside the cell.
func (c *Cell) AddChunk(tc *TextChunk) {
	c.Chunks = append(c.Chunks, tc)
}

// EdgeKind labels which X coordinate of a chunk a text edge tracks.
type EdgeKind int

// Text edge kinds.
const (
	EdgeLeft EdgeKind = iota
	EdgeMid
	EdgeRight
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeLeft:
		return "left"
	case EdgeMid:
		return "mid"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// TextEdge is a persistent X alignment across multiple text rows: a vertical
// band centered on the aligned coordinate.
type TextEdge struct {
	X          float64
	Top        float64
	Bottom     float64
	HalfWidth  float64
	Kind       EdgeKind
	RowCount   int // number of text rows directly in touch with this edge
}

// Rect returns the thin rectangle occupied by the edge.
func (e *TextEdge) Rect() Rectangle {
	return NewRectangle(e.Top, e.X-e.HalfWidth, 2*e.HalfWidth, e.Bottom-e.Top)
}

// Height returns the edge's vertical extent.
func (e *TextEdge) Height() float64 { return e.Bottom - e.Top }

// YOverlapPercent returns the shared vertical extent of two edges as a
// fraction of the taller one.
func (e *TextEdge) YOverlapPercent(other *TextEdge) float64 {
	a := maxf(e.Top, other.Top)
	b := minf(e.Bottom, other.Bottom)
	if a > b {
		return 0
	}
	denom := maxf(e.Height(), other.Height())
	if denom == 0 {
		return 0
	}
	return (b - a) / denom
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
