// Package tablewright locates tables on document pages and reconstructs their
// cell matrices.
//
// Basic usage:
//
//	ex := tablewright.New(tablewright.WithRenderer(renderer))
//	areas, err := ex.Detect(page)
//	if err != nil {
//	    // handle error
//	}
//	tables, err := ex.ExtractTables(page)
//
// Pages come from an external document parser (see the model package for the
// contract); the optional renderer supplies the grayscale rasters used by
// ruling detection.
//
// Two extraction modes exist. Stream extraction infers a column structure
// from text geometry alone; spreadsheet extraction reconstructs cells from
// the ruling grid. ExtractTables picks per detected area; Extract runs the
// stream extractor over the whole page:
//
//	tables, err := tablewright.New(
//	    tablewright.WithVerticalRulings(50, 200, 380),
//	    tablewright.WithMixedTables(),
//	).Extract(page)
package tablewright

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tablewright/tablewright/extract"
	"github.com/tablewright/tablewright/model"
	"github.com/tablewright/tablewright/tables"
)

// Extractor bundles the detection and extraction pipeline behind one
// configured entry point. Configuration is fixed at construction; a single
// Extractor must not be shared across goroutines without external locking
// (use ExtractAll for page-parallel work).
type Extractor struct {
	options  options
	detector *tables.NurminenDetector
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	detector := tables.NewNurminenDetector(o.renderer)
	if o.detectorConfig != nil {
		detector.Configure(*o.detectorConfig)
	}

	return &Extractor{options: o, detector: detector}
}

// Detect finds table areas on the page, in page coordinates. Without a
// renderer the raster passes are skipped and areas come from text edges
// alone; see DetectWithResult for the text-edge state and the blunt fallback.
func (e *Extractor) Detect(page *model.Page) ([]model.Rectangle, error) {
	return e.detector.Detect(page)
}

// DetectWithResult runs detection and returns the full result, including the
// state consumed by BluntDetect.
func (e *Extractor) DetectWithResult(page *model.Page) (*tables.Result, error) {
	return e.detector.DetectWithResult(page)
}

// BluntDetect retries detection with relaxed thresholds, returning the single
// biggest table candidate. Requires the Result of a prior DetectWithResult on
// the same page.
func (e *Extractor) BluntDetect(res *tables.Result) (model.Rectangle, bool, error) {
	return e.detector.BluntDetect(res)
}

// Extract runs the stream extractor over the whole page: columns come from
// the configured vertical ruling positions, or are inferred from the text.
// An empty page yields a single empty table.
func (e *Extractor) Extract(page *model.Page) ([]*model.Table, error) {
	return e.streamExtract(page), nil
}

// ExtractWithRulings runs stream extraction with explicit column X positions,
// overriding any configured ones.
func (e *Extractor) ExtractWithRulings(page *model.Page, verticalRulingXs []float64) ([]*model.Table, error) {
	se := extract.NewStreamExtractor()
	se.MixedTableExtraction = e.options.mixedTables
	return se.ExtractWithColumns(page, verticalRulingXs), nil
}

// ExtractTables runs the full pipeline: detect table areas, then extract each
// one with the spreadsheet extractor when its rulings are rich enough to form
// cells, falling back to stream extraction otherwise.
func (e *Extractor) ExtractTables(page *model.Page) ([]*model.Table, error) {
	areas, err := e.Detect(page)
	if err != nil {
		return nil, err
	}
	if len(areas) == 0 {
		return e.Extract(page)
	}

	var result []*model.Table
	for _, area := range areas {
		sub := page.Area(area)
		if hasRichRulings(sub) {
			result = append(result, extract.NewSpreadsheetExtractor().Extract(sub)...)
		} else {
			result = append(result, e.streamExtract(sub)...)
		}
	}
	return result, nil
}

func (e *Extractor) streamExtract(page *model.Page) []*model.Table {
	se := extract.NewStreamExtractor()
	se.MixedTableExtraction = e.options.mixedTables
	if len(e.options.verticalRulingXs) > 0 {
		return se.ExtractWithColumns(page, e.options.verticalRulingXs)
	}
	return se.Extract(page)
}

// hasRichRulings reports whether the page area carries enough rulings to
// bound at least one cell.
func hasRichRulings(page *model.Page) bool {
	return len(page.HorizontalRulings()) >= 2 && len(page.VerticalRulings()) >= 2
}

// ExtractAll extracts every page concurrently. Pages are independent and
// share no mutable state, so the work is embarrassingly parallel; each page
// gets its own Extractor built from the same options. The result is indexed
// like the input.
func ExtractAll(ctx context.Context, pages []*model.Page, opts ...Option) ([][]*model.Table, error) {
	results := make([][]*model.Table, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tabs, err := New(opts...).ExtractTables(page)
			if err != nil {
				return err
			}
			results[i] = tabs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
