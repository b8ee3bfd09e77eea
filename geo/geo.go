// Package geo contains ring helpers and spherical predicates on top of
// github.com/golang/geo/s2, plus the normaliser which turns unclassified
// boundary loops into well-formed polygons.
package geo

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// s2Point converts a [lng, lat] point.
func s2Point(p orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon()))
}

// s2Loop converts a ring into a loop. The closing vertex is dropped as
// s2.Loop implicitly assumes loops are closed. Returns nil for rings with
// fewer than three distinct vertices.
func s2Loop(r orb.Ring) *s2.Loop {
	r = OpenRing(r)
	if len(r) < 3 {
		return nil
	}

	pts := make([]s2.Point, 0, len(r))
	for i, p := range r {
		if i > 0 && p == r[i-1] {
			continue
		}
		pts = append(pts, s2Point(p))
	}
	if len(pts) < 3 {
		return nil
	}
	return s2.LoopFromPoints(pts)
}
