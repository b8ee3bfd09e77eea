package hexjson

import (
	"fmt"

	"github.com/bsm/hexkit/geo"
	"github.com/bsm/hexkit/h3grid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	h3 "github.com/uber/h3-go/v4"
)

// ToCells converts a Feature or a FeatureCollection with Polygon or
// MultiPolygon geometries to a set of cells using the default converter.
func ToCells(obj Object, resolution int, o *Options) ([]h3.Cell, error) {
	return std.ToCells(obj, resolution, o)
}

// FeatureToCells converts a single feature using the default converter.
func FeatureToCells(f *geojson.Feature, resolution int, o *Options) ([]h3.Cell, error) {
	return std.FeatureToCells(f, resolution, o)
}

// CollectionToCells converts a feature collection using the default converter.
func CollectionToCells(fc *geojson.FeatureCollection, resolution int, o *Options) ([]h3.Cell, error) {
	return std.CollectionToCells(fc, resolution, o)
}

// ToCells converts a Feature or a FeatureCollection with Polygon or
// MultiPolygon geometries to the set of cells whose centers fall within the
// geometries. The result contains no duplicates; its order is not meaningful.
func (c *Converter) ToCells(obj Object, resolution int, o *Options) ([]h3.Cell, error) {
	switch obj.Kind {
	case KindFeature:
		return c.FeatureToCells(obj.Feature, resolution, o)
	case KindFeatureCollection:
		return c.CollectionToCells(obj.Collection, resolution, o)
	}
	return nil, fmt.Errorf("%w: unhandled type %s", ErrUnsupportedInput, obj.Kind)
}

// CollectionToCells converts all features of the collection and merges the results.
func (c *Converter) CollectionToCells(fc *geojson.FeatureCollection, resolution int, o *Options) ([]h3.Cell, error) {
	if fc == nil || fc.Features == nil {
		return nil, fmt.Errorf("%w: no features found", ErrUnsupportedInput)
	}
	if !h3grid.ValidResolution(resolution) {
		return nil, fmt.Errorf("%w: invalid resolution %d", ErrUnsupportedInput, resolution)
	}

	sets := make([][]h3.Cell, 0, len(fc.Features))
	for _, f := range fc.Features {
		cells, err := c.FeatureToCells(f, resolution, o)
		if err != nil {
			return nil, err
		}
		sets = append(sets, cells)
	}
	return MergeCells(sets...), nil
}

// FeatureToCells converts a feature. A Polygon is treated as a MultiPolygon
// with a single member, each polygon is filled independently.
func (c *Converter) FeatureToCells(f *geojson.Feature, resolution int, o *Options) ([]h3.Cell, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: missing feature", ErrUnsupportedInput)
	}
	if f.Type != "" && f.Type != typeFeature {
		return nil, fmt.Errorf("%w: unhandled type %q", ErrUnsupportedInput, f.Type)
	}

	var polys orb.MultiPolygon
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		polys = orb.MultiPolygon{g}
	case orb.MultiPolygon:
		polys = g
	default:
		return nil, fmt.Errorf("%w: unhandled geometry type %s", ErrUnsupportedInput, geometryType(g))
	}

	if !h3grid.ValidResolution(resolution) {
		return nil, fmt.Errorf("%w: invalid resolution %d", ErrUnsupportedInput, resolution)
	}

	opt := o.norm()
	sets := make([][]h3.Cell, 0, len(polys))
	for _, poly := range polys {
		cells, err := c.polygonToCells(poly, resolution, opt.EnsureOutput)
		if err != nil {
			return nil, err
		}
		sets = append(sets, cells)
	}
	return MergeCells(sets...), nil
}

func (c *Converter) polygonToCells(poly orb.Polygon, resolution int, ensureOutput bool) ([]h3.Cell, error) {
	cells, err := c.grid.PolygonToCells(poly, resolution)
	if err != nil {
		return nil, err
	}
	if len(cells) != 0 || !ensureOutput {
		return cells, nil
	}

	// nothing to sample without an outer ring
	if len(poly) == 0 || len(geo.OpenRing(poly[0])) == 0 {
		return cells, nil
	}

	cell, err := c.grid.PointToCell(geo.Centroid(poly[0]), resolution)
	if err != nil {
		return nil, err
	}
	return []h3.Cell{cell}, nil
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "<nil>"
	}
	return g.GeoJSONType()
}
