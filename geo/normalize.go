package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrUnsupportedTopology is returned when a hole is contained by more than
	// one outer loop, e.g. a ring of cells nested inside the hole of another ring.
	ErrUnsupportedTopology = errors.New("geo: unsupported multipolygon topology")

	// ErrInvariantViolation is returned when a hole is not contained by any
	// outer loop. It indicates inconsistent input loops.
	ErrInvariantViolation = errors.New("geo: hole is not contained by any outer loop")
)

// Normalize resolves a list of polygons with unclassified rings into
// well-formed polygons. Every ring is classified by its winding order:
// counter-clockwise rings become the outer ring of a new polygon (in the
// order they are first seen), clockwise rings are attached as holes to the
// single outer ring which contains them.
//
// The input is not modified, but output rings share their points with the
// input rings.
func Normalize(polys []orb.Polygon) ([]orb.Polygon, error) {
	var outers, inners []*Loop
	for _, poly := range polys {
		for _, ring := range poly {
			if len(ring) == 0 {
				continue
			}

			if lp := ClassifyLoop(ring); lp.Kind == LoopKindOuter {
				outers = append(outers, lp)
			} else {
				inners = append(inners, lp)
			}
		}
	}

	res := make([]orb.Polygon, len(outers))
	for i, lp := range outers {
		res[i] = orb.Polygon{lp.Ring}
	}

	for n, hole := range inners {
		pt, _ := hole.TestPoint()

		pos := -1
		for i, outer := range outers {
			if !outer.ContainsPoint(pt) {
				continue
			}
			if pos > -1 {
				return nil, fmt.Errorf("%w: hole #%d is contained by outer loops #%d and #%d", ErrUnsupportedTopology, n, pos, i)
			}
			pos = i
		}
		if pos < 0 {
			return nil, fmt.Errorf("%w: hole #%d", ErrInvariantViolation, n)
		}

		res[pos] = append(res[pos], hole.Ring)
	}
	return res, nil
}
