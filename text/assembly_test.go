package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablewright/tablewright/model"
)

// glyph builds a 5x10 glyph at the given position.
func glyph(top, left float64, s string) *model.TextElement {
	return model.NewTextElement(top, left, 5, 10, s, "Helvetica", 10, 2.5)
}

func pageWith(elements ...*model.TextElement) *model.Page {
	page := model.NewPage(612, 792)
	for _, e := range elements {
		page.AddText(e)
	}
	return page
}

func TestMergeWordsJoinsAdjacentGlyphs(t *testing.T) {
	page := pageWith(
		glyph(0, 0, "H"),
		glyph(0, 5, "e"),
		glyph(0, 10, "l"),
		glyph(0, 15, "l"),
		glyph(0, 20, "o"),
	)

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello", chunks[0].Text())
	assert.Equal(t, 0.0, chunks[0].Left)
	assert.Equal(t, 25.0, chunks[0].Right())
}

func TestMergeWordsSplitsOnWordGap(t *testing.T) {
	// gap of 5 units is well past half a space width (2.5 * 0.5)
	page := pageWith(glyph(0, 0, "a"), glyph(0, 10, "b"))

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 2)
	assert.Equal(t, "a", chunks[0].Text())
	assert.Equal(t, "b", chunks[1].Text())
}

func TestMergeWordsSplitsOnFontChange(t *testing.T) {
	bold := model.NewTextElement(0, 5, 5, 10, "b", "Helvetica-Bold", 10, 2.5)
	page := pageWith(glyph(0, 0, "a"), bold)

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 2)
}

func TestMergeWordsSplitsOnBaselineChange(t *testing.T) {
	page := pageWith(glyph(0, 0, "a"), glyph(20, 5, "b"))

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 2)
}

func TestMergeWordsRespectsRulingBarrier(t *testing.T) {
	page := pageWith(glyph(0, 0, "a"), glyph(0, 6, "b"))
	barrier := []*model.Ruling{model.NewRuling(5.5, -10, 5.5, 20)}

	withBarrier := MergeWords(page, barrier)
	without := MergeWords(page, nil)

	assert.Len(t, without, 1)
	require.Len(t, withBarrier, 2)
	assert.Equal(t, "a", withBarrier[0].Text())
	assert.Equal(t, "b", withBarrier[1].Text())
}

func TestMergeWordsFusesCombiningMarks(t *testing.T) {
	page := pageWith(
		glyph(0, 0, "e"),
		model.NewTextElement(0, 5, 0, 10, "́", "Helvetica", 10, 2.5),
	)

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, "é", chunks[0].Text())
}

func TestMergeWordsSortsReadingOrder(t *testing.T) {
	// elements arrive out of order; chunks come back top-to-bottom
	page := pageWith(glyph(50, 0, "second"), glyph(0, 0, "first"))

	chunks := MergeWords(page, nil)

	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Text())
	assert.Equal(t, "second", chunks[1].Text())
}

func TestMergeWordsEmptyPage(t *testing.T) {
	assert.Nil(t, MergeWords(model.NewPage(612, 792), nil))
}

func TestGroupByLines(t *testing.T) {
	chunks := []*model.TextChunk{
		model.NewTextChunkAt(0, 100, 20, 10, "b"),
		model.NewTextChunkAt(1, 10, 20, 10, "a"), // same band, slight jitter
		model.NewTextChunkAt(30, 10, 20, 10, "c"),
	}

	lines := GroupByLines(chunks)

	require.Len(t, lines, 2)
	require.Len(t, lines[0].Chunks, 2)
	assert.Equal(t, "a", lines[0].Chunks[0].Text())
	assert.Equal(t, "b", lines[0].Chunks[1].Text())
	assert.Equal(t, "c", lines[1].Chunks[0].Text())
}

func TestGroupByLinesThreshold(t *testing.T) {
	// vertical projections overlapping less than half the shorter height
	// stay separate lines
	chunks := []*model.TextChunk{
		model.NewTextChunkAt(0, 10, 20, 10, "a"),
		model.NewTextChunkAt(8, 40, 20, 10, "b"), // 2 units of overlap
	}

	lines := GroupByLines(chunks)
	assert.Len(t, lines, 2)
}
