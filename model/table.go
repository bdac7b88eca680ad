package model

// Table is a row-major matrix of text containers assembled by an extractor.
// Every materialized row has the same column count; placement happens once at
// assembly time and the table's bounding rectangle encloses every placed
// element.
type Table struct {
	Rectangle

	// Extractor names the algorithm that produced the table.
	Extractor string

	cells    map[[2]int]TextContainer
	rowCount int
	colCount int
}

// NewTable creates an empty table covering the given region.
func NewTable(r Rectangle, extractor string) *Table {
	return &Table{
		Rectangle: r,
		Extractor: extractor,
		cells:     make(map[[2]int]TextContainer),
	}
}

// EmptyTable returns the singleton-shaped empty table used for pages with no
// text. It has zero rows and columns and is not an error condition.
func EmptyTable() *Table {
	return NewTable(Rectangle{}, "")
}

// Add places a container at (row, col), growing the table's bounds and
// dimensions. Adding to an occupied position merges the newcomer into a Cell
// together with the prior occupant.
func (t *Table) Add(tc TextContainer, row, col int) {
	if tc == nil {
		return
	}
	if t.Area() == 0 {
		t.Rectangle = tc.Rect()
	} else {
		t.Rectangle = t.Rectangle.Merge(tc.Rect())
	}

	pos := [2]int{row, col}
	if prior, ok := t.cells[pos]; ok {
		t.cells[pos] = mergeContainers(prior, tc)
	} else {
		t.cells[pos] = tc
	}

	if row+1 > t.rowCount {
		t.rowCount = row + 1
	}
	if col+1 > t.colCount {
		t.colCount = col + 1
	}
}

// mergeContainers folds two co-located containers into one Cell.
func mergeContainers(a, b TextContainer) TextContainer {
	if cell, ok := a.(*Cell); ok {
		cell.Rectangle = cell.Rectangle.Merge(b.Rect())
		appendContent(cell, b)
		return cell
	}
	cell := NewCell(a.Rect().Merge(b.Rect()))
	appendContent(cell, a)
	appendContent(cell, b)
	return cell
}

func appendContent(cell *Cell, tc TextContainer) {
	switch v := tc.(type) {
	case *TextChunk:
		cell.AddChunk(v)
	case *Cell:
		cell.Chunks = append(cell.Chunks, v.Chunks...)
	default:
		cell.AddChunk(NewTextChunkAt(tc.Rect().Top, tc.Rect().Left, tc.Rect().Width, tc.Rect().Height, tc.Text()))
	}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return t.rowCount }

// ColCount returns the number of columns.
func (t *Table) ColCount() int { return t.colCount }

// CellAt returns the container at (row, col), or an empty chunk if the
// position was never filled.
func (t *Table) CellAt(row, col int) TextContainer {
	if tc, ok := t.cells[[2]int{row, col}]; ok {
		return tc
	}
	return NewTextChunkAt(0, 0, 0, 0, "")
}

// Rows materializes the full matrix. Unfilled positions are padded with empty
// chunks so every row has the same column count.
func (t *Table) Rows() [][]TextContainer {
	rows := make([][]TextContainer, t.rowCount)
	for i := 0; i < t.rowCount; i++ {
		rows[i] = make([]TextContainer, t.colCount)
		for j := 0; j < t.colCount; j++ {
			rows[i][j] = t.CellAt(i, j)
		}
	}
	return rows
}
