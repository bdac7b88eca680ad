// Package model provides the geometric and textual primitives shared by the
// detection and extraction packages.
//
// # Geometry
//
//   - [Point] - 2D point with distance calculation
//   - [Rectangle] - axis-aligned box with merge, overlap, and containment
//   - [Ruling] - horizontal or vertical line segment with snap and collapse
//
// Coordinates are page points with the origin at the top-left corner and Y
// increasing downward, so Top is always numerically smaller than Bottom.
//
// # Text
//
// Text climbs an aggregation ladder: positioned glyphs ([TextElement]) merge
// into word-like runs ([TextChunk]), which group into baseline bands ([Line]).
// [Cell] and [Table] are the extractor outputs; both sides of the matrix are
// addressed through the [TextContainer] interface.
//
// # Pages
//
// [Page] owns the text elements and rulings of one document page and can hand
// out clipped sub-views via [Page.Area]. Pages are produced by an external
// document parser; this library only consumes them.
package model
