package tables

import (
	"github.com/tablewright/tablewright/model"
)

// Detector is the interface for table-area detection algorithms.
type Detector interface {
	// Detect finds rectangular table areas on a page, in page coordinates.
	Detect(page *model.Page) ([]model.Rectangle, error)

	// Name returns the detector name.
	Name() string

	// Configure sets detector parameters.
	Configure(config Config) error
}

// Config holds detector configuration. The defaults presume rasters rendered
// at 144 DPI (2 image pixels per page unit); the pixel-space thresholds scale
// with that contract.
type Config struct {
	// Grayscale jump treated as a drawn edge (0-255)
	IntensityThreshold int

	// Minimum run length of a horizontal edge, in pixels
	HorizontalMinWidth int

	// Minimum run length of a vertical edge, in pixels
	VerticalMinHeight int

	// Maximum corner distance for cells to share a table, in pixels
	CellCornerDistance float64

	// Grid tolerance when snapping ruling endpoints, in pixels
	PointSnapDistance float64

	// Padding added around detected areas, in page units
	Padding float64

	// Minimum chunk rows an X alignment must touch to become a text edge
	RequiredLinesForEdge int

	// Minimum cells in a cluster to call it a table
	RequiredCellsForTable int

	// Overlap ratio at which two areas count as the same table
	IdenticalOverlapRatio float64

	// Multiples of the average row height a horizontal ruling may sit below
	// (respectively above) a text table and still extend it
	RowHeightMultBottom float64
	RowHeightMultTop    float64

	// Chunks wider than this fraction of the page width are treated as
	// justified paragraph text and ignored
	MaxChunkWidthRatio float64
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		IntensityThreshold:    25,
		HorizontalMinWidth:    50,
		VerticalMinHeight:     10,
		CellCornerDistance:    10,
		PointSnapDistance:     8,
		Padding:               1,
		RequiredLinesForEdge:  4,
		RequiredCellsForTable: 4,
		IdenticalOverlapRatio: 0.9,
		RowHeightMultBottom:   1.5,
		RowHeightMultTop:      2.0,
		MaxChunkWidthRatio:    0.38,
	}
}

// DetectorRegistry holds registered detectors.
type DetectorRegistry struct {
	detectors map[string]Detector
}

// NewRegistry creates a new detector registry.
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		detectors: make(map[string]Detector),
	}
}

// Register registers a detector.
func (r *DetectorRegistry) Register(detector Detector) {
	r.detectors[detector.Name()] = detector
}

// Get retrieves a detector by name.
func (r *DetectorRegistry) Get(name string) Detector {
	return r.detectors[name]
}

// List returns all registered detector names.
func (r *DetectorRegistry) List() []string {
	names := make([]string, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector globally.
func RegisterDetector(detector Detector) {
	globalRegistry.Register(detector)
}

// GetDetector retrieves a globally registered detector by name.
func GetDetector(name string) Detector {
	return globalRegistry.Get(name)
}

// ListDetectors returns all registered detector names.
func ListDetectors() []string {
	return globalRegistry.List()
}
