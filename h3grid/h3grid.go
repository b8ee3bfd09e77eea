// Package h3grid adapts the H3 hierarchical hexagonal grid to orb geometries.
package h3grid

import (
	"errors"
	"fmt"

	"github.com/bsm/hexkit/geo"
	"github.com/paulmach/orb"
	h3 "github.com/uber/h3-go/v4"
)

// Resolution limits.
const (
	MinResolution = 0
	MaxResolution = 15
)

var (
	// ErrInvalidCell is returned for cell indexes which are not valid H3 cells.
	ErrInvalidCell = errors.New("h3grid: invalid cell")

	// ErrMixedResolutions is returned when a cell set contains cells of
	// different resolutions.
	ErrMixedResolutions = errors.New("h3grid: mixed resolutions")

	errInvalidResolution = errors.New("h3grid: invalid resolution")
)

// Grid is the cell indexing collaborator used by the conversion pipelines.
type Grid interface {
	// PolygonToCells returns the cells whose centers lie within the polygon,
	// holes excluded.
	PolygonToCells(poly orb.Polygon, resolution int) ([]h3.Cell, error)
	// CellToBoundary returns the closed, counter-clockwise boundary of a cell.
	CellToBoundary(cell h3.Cell) (orb.Ring, error)
	// CellsToLoops returns the boundary loops of a cell set, one single-ring
	// polygon per loop. Outer loops and holes are not yet told apart.
	CellsToLoops(cells []h3.Cell) ([]orb.Polygon, error)
	// PointToCell returns the cell containing the point.
	PointToCell(p orb.Point, resolution int) (h3.Cell, error)
}

// Default is the H3 backed Grid.
var Default Grid = h3Grid{}

// ValidResolution reports whether res is a valid H3 resolution.
func ValidResolution(res int) bool {
	return res >= MinResolution && res <= MaxResolution
}

// ParseCell parses a cell from its hexadecimal token.
func ParseCell(token string) (h3.Cell, error) {
	cell := h3.Cell(h3.IndexFromString(token))
	if !cell.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, token)
	}
	return cell, nil
}

// --------------------------------------------------------------------

type h3Grid struct{}

func (h3Grid) PolygonToCells(poly orb.Polygon, res int) ([]h3.Cell, error) {
	if !ValidResolution(res) {
		return nil, fmt.Errorf("%w: %d", errInvalidResolution, res)
	}
	if len(poly) == 0 || len(geo.OpenRing(poly[0])) == 0 {
		return nil, nil
	}

	gp := h3.GeoPolygon{GeoLoop: toGeoLoop(poly[0])}
	for _, hole := range poly[1:] {
		if len(hole) != 0 {
			gp.Holes = append(gp.Holes, toGeoLoop(hole))
		}
	}

	cells, err := h3.PolygonToCells(gp, res)
	if err != nil {
		return nil, fmt.Errorf("h3grid: polyfill: %w", err)
	}
	return cells, nil
}

func (h3Grid) CellToBoundary(cell h3.Cell) (orb.Ring, error) {
	if !cell.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCell, cell)
	}

	boundary, err := h3.CellToBoundary(cell)
	if err != nil {
		return nil, fmt.Errorf("h3grid: boundary of %s: %w", cell, err)
	}
	return fromGeoLoop(boundary), nil
}

func (h3Grid) CellsToLoops(cells []h3.Cell) ([]orb.Polygon, error) {
	if len(cells) == 0 {
		return nil, nil
	}

	res := cells[0].Resolution()
	for _, cell := range cells {
		if !cell.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCell, cell)
		}
		if cell.Resolution() != res {
			return nil, fmt.Errorf("%w: %d and %d", ErrMixedResolutions, res, cell.Resolution())
		}
	}

	mp, err := h3.CellsToMultiPolygon(cells)
	if err != nil {
		return nil, fmt.Errorf("h3grid: outline: %w", err)
	}

	// flatten, discard ring roles
	var loops []orb.Polygon
	for _, gp := range mp {
		loops = append(loops, orb.Polygon{fromGeoLoop(gp.GeoLoop)})
		for _, hole := range gp.Holes {
			loops = append(loops, orb.Polygon{fromGeoLoop(hole)})
		}
	}
	return loops, nil
}

func (h3Grid) PointToCell(p orb.Point, res int) (h3.Cell, error) {
	if !ValidResolution(res) {
		return 0, fmt.Errorf("%w: %d", errInvalidResolution, res)
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), res)
	if err != nil {
		return 0, fmt.Errorf("h3grid: locate %v: %w", p, err)
	}
	return cell, nil
}

// --------------------------------------------------------------------

// toGeoLoop converts a ring to a GeoLoop, dropping the closing vertex.
func toGeoLoop(r orb.Ring) h3.GeoLoop {
	r = geo.OpenRing(r)
	loop := make(h3.GeoLoop, 0, len(r))
	for _, p := range r {
		loop = append(loop, h3.NewLatLng(p.Lat(), p.Lon()))
	}
	return loop
}

// fromGeoLoop converts vertices to a closed ring.
func fromGeoLoop(lls []h3.LatLng) orb.Ring {
	if len(lls) == 0 {
		return orb.Ring{}
	}

	ring := make(orb.Ring, 0, len(lls)+1)
	for _, ll := range lls {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
	}
	if first := ring[0]; ring[len(ring)-1] != first {
		ring = append(ring, first)
	}
	return ring
}
