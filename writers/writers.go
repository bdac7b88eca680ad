// Package writers serializes extracted tables for downstream consumers.
//
// All writers consume a table as a row-major sequence of cells with text and
// position. JSON flattens each position into top/left/width/height and the
// grid into data[row][col]; CSV and TSV emit the text matrix alone.
package writers

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/tablewright/tablewright/model"
)

// Writer serializes tables to a stream.
type Writer interface {
	Write(w io.Writer, tables []*model.Table) error
}

// cellJSON is the flattened serialization of one table cell.
type cellJSON struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

// tableJSON is the flattened serialization of one table.
type tableJSON struct {
	Extractor string       `json:"extraction_method"`
	Top       float64      `json:"top"`
	Left      float64      `json:"left"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Data      [][]cellJSON `json:"data"`
}

func flatten(table *model.Table) tableJSON {
	out := tableJSON{
		Extractor: table.Extractor,
		Top:       table.Top,
		Left:      table.Left,
		Width:     table.Width,
		Height:    table.Height,
		Data:      make([][]cellJSON, 0, table.RowCount()),
	}
	for _, row := range table.Rows() {
		cells := make([]cellJSON, 0, len(row))
		for _, tc := range row {
			r := tc.Rect()
			cells = append(cells, cellJSON{
				Top:    r.Top,
				Left:   r.Left,
				Width:  r.Width,
				Height: r.Height,
				Text:   tc.Text(),
			})
		}
		out.Data = append(out.Data, cells)
	}
	return out
}

// JSONWriter emits tables as a JSON array of flattened tables.
type JSONWriter struct{}

// Write serializes the tables as JSON.
func (JSONWriter) Write(w io.Writer, tables []*model.Table) error {
	flat := make([]tableJSON, 0, len(tables))
	for _, t := range tables {
		flat = append(flat, flatten(t))
	}
	return json.NewEncoder(w).Encode(flat)
}

// CSVWriter emits each table's text matrix as RFC 4180 CSV. Multiple tables
// are concatenated.
type CSVWriter struct{}

// Write serializes the tables as CSV.
func (CSVWriter) Write(w io.Writer, tables []*model.Table) error {
	return writeDelimited(w, tables, ',')
}

// TSVWriter emits each table's text matrix tab-separated.
type TSVWriter struct{}

// Write serializes the tables as TSV.
func (TSVWriter) Write(w io.Writer, tables []*model.Table) error {
	return writeDelimited(w, tables, '\t')
}

func writeDelimited(w io.Writer, tables []*model.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	for _, t := range tables {
		for _, row := range t.Rows() {
			record := make([]string, 0, len(row))
			for _, tc := range row {
				record = append(record, tc.Text())
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
