// Package extract turns a page's text and rulings into tables.
//
// Two extraction modes exist:
//
//   - [StreamExtractor] works from text geometry alone: [ColumnsFinder] infers
//     column right-edges from horizontally overlapping text regions, then
//     chunks are binned into a row-by-column matrix. With mixed extraction
//     enabled, ruling-dense pages are handed to the spreadsheet extractor on a
//     synthesized grid.
//   - [SpreadsheetExtractor] works from rulings: [FindCells] computes the
//     minimal cell rectangles of the ruling grid, cells are clustered into row
//     and column bands, and text lands in the cell containing its center.
//
// Both produce [model.Table] values whose rows all share one column count.
package extract
