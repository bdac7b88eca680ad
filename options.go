package tablewright

import (
	"github.com/tablewright/tablewright/raster"
	"github.com/tablewright/tablewright/tables"
)

// options holds the extractor configuration assembled by Option values.
type options struct {
	mixedTables      bool
	verticalRulingXs []float64
	renderer         raster.Renderer
	detectorConfig   *tables.Config
}

func defaultOptions() options {
	return options{}
}

// Option configures an Extractor.
type Option func(*options)

// WithMixedTables lets the stream extractor reinterpret a page as a
// spreadsheet when its horizontal-ruling density per text line exceeds the
// trigger ratio.
func WithMixedTables() Option {
	return func(o *options) { o.mixedTables = true }
}

// WithVerticalRulings supplies explicit column X positions, overriding column
// inference. The sorted positions become the column boundaries.
func WithVerticalRulings(xs ...float64) Option {
	return func(o *options) {
		o.verticalRulingXs = append([]float64(nil), xs...)
	}
}

// WithRenderer supplies the rasterization backend used by ruling detection.
// Without one, detection runs without the raster passes.
func WithRenderer(r raster.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithDetectorConfig overrides the detector's tunables.
func WithDetectorConfig(config tables.Config) Option {
	return func(o *options) {
		c := config
		o.detectorConfig = &c
	}
}
