package hexjson

import (
	"github.com/bsm/hexkit/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// PropertyFunc returns the properties for a cell.
type PropertyFunc func(cell h3.Cell) (geojson.Properties, error)

// CellToFeature converts a single cell using the default converter.
func CellToFeature(cell h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	return std.CellToFeature(cell, props)
}

// CellsToFeature converts a cell set using the default converter.
func CellsToFeature(cells []h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	return std.CellsToFeature(cells, props)
}

// CellsToMultiPolygonFeature converts a cell set using the default converter.
func CellsToMultiPolygonFeature(cells []h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	return std.CellsToMultiPolygonFeature(cells, props)
}

// CellsToFeatureCollection converts a cell set using the default converter.
func CellsToFeatureCollection(cells []h3.Cell, fn PropertyFunc) (*geojson.FeatureCollection, error) {
	return std.CellsToFeatureCollection(cells, fn)
}

// CellToFeature returns a Polygon feature with the outline of a single cell.
// The feature ID is set to the cell token.
func (c *Converter) CellToFeature(cell h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	ring, err := c.grid.CellToBoundary(cell)
	if err != nil {
		return nil, err
	}

	f := newFeature(orb.Polygon{ring}, props)
	f.ID = cell.String()
	return f, nil
}

// CellsToFeature returns a feature with the merged outline(s) of a cell
// set. The geometry is a Polygon when the cells form a single outline
// (with or without holes) and a MultiPolygon otherwise. An empty set yields
// a Polygon without rings.
func (c *Converter) CellsToFeature(cells []h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	loops, err := c.grid.CellsToLoops(MergeCells(cells))
	if err != nil {
		return nil, err
	}

	polys, err := geo.Normalize(loops)
	if err != nil {
		return nil, err
	}

	var g orb.Geometry
	switch len(polys) {
	case 0:
		g = orb.Polygon{}
	case 1:
		g = polys[0]
	default:
		g = orb.MultiPolygon(polys)
	}
	return newFeature(g, props), nil
}

// CellsToMultiPolygonFeature returns a MultiPolygon feature with the
// individual outline of each cell. Cells are not merged.
func (c *Converter) CellsToMultiPolygonFeature(cells []h3.Cell, props geojson.Properties) (*geojson.Feature, error) {
	mp := make(orb.MultiPolygon, 0, len(cells))
	for _, cell := range cells {
		ring, err := c.grid.CellToBoundary(cell)
		if err != nil {
			return nil, err
		}
		mp = append(mp, orb.Polygon{ring})
	}
	return newFeature(mp, props), nil
}

// CellsToFeatureCollection returns a collection with one Polygon feature
// per cell, in input order. Properties are retrieved via fn; all features
// have empty properties if fn is nil.
func (c *Converter) CellsToFeatureCollection(cells []h3.Cell, fn PropertyFunc) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, cell := range cells {
		var props geojson.Properties
		if fn != nil {
			var err error
			if props, err = fn(cell); err != nil {
				return nil, err
			}
		}

		f, err := c.CellToFeature(cell, props)
		if err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return fc, nil
}

func newFeature(g orb.Geometry, props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(g)
	if props != nil {
		f.Properties = props
	}
	return f
}
