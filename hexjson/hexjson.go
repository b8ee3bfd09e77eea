// Package hexjson converts between GeoJSON polygon features and sets of H3
// cells.
//
// Conversion from GeoJSON is lossy: only cells whose centers fall within a
// polygon are included, so the resulting cell set approximates the original
// shape at the precision of the chosen resolution. Conversion back to
// GeoJSON merges adjacent cells into outlines and detects holes.
package hexjson

import (
	"errors"

	"github.com/bsm/hexkit/h3grid"
)

// ErrUnsupportedInput is returned for input which is not a Feature or a
// FeatureCollection of Polygon/MultiPolygon features.
var ErrUnsupportedInput = errors.New("hexjson: unsupported input")

// Options configure the conversion from features to cells.
type Options struct {
	// EnsureOutput falls back to the single cell containing the vertex
	// centroid of a polygon's outer ring when the polygon is too small to
	// contain any cell center at the chosen resolution. Default: false.
	EnsureOutput bool
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}
	return &oo
}

// --------------------------------------------------------------------

// Converter converts features to cells and back using a Grid.
type Converter struct {
	grid h3grid.Grid
}

// NewConverter inits a Converter. It uses h3grid.Default if grid is nil.
func NewConverter(grid h3grid.Grid) *Converter {
	if grid == nil {
		grid = h3grid.Default
	}
	return &Converter{grid: grid}
}

var std = NewConverter(nil)
