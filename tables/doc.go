// Package tables provides page-level table-area detection.
//
// # Detectors
//
// Detection is performed by types implementing the [Detector] interface and
// returns table rectangles in page coordinates. The package provides:
//
//   - [NurminenDetector] - ruling detection on a rasterization of the page
//     combined with statistical text-edge analysis
//
// Detectors are registered globally and can be retrieved by name:
//
//	detector := tables.GetDetector("nurminen")
//	areas, err := detector.Detect(page)
//
// # Nurminen Detection
//
// The [NurminenDetector] uses a multi-step algorithm:
//
//  1. Ruling extraction from a 144-DPI grayscale raster (the vertical pass
//     runs on a text-suppressed render when available)
//  2. Cell reconstruction from the ruling grid; cell clusters become areas
//  3. Area growth over intersecting text rows
//  4. An iterative text-edge pass that mines repeated left/mid/right text
//     alignments for ruling-free tables until no further area emerges
//
// [NurminenDetector.BluntDetect] is the fallback for pages where the main
// loop comes up empty: it relaxes the thresholds step by step and returns the
// single biggest table candidate. It consumes the [Result] of a prior
// [NurminenDetector.DetectWithResult] call on the same page.
//
// # Configuration
//
// Detector behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.RequiredCellsForTable = 6
//	detector.Configure(config)
//
// The pixel-space thresholds presume the 144-DPI raster contract from the
// raster package; change them together with the DPI or not at all.
package tables
