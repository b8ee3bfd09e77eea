package geo

import (
	"github.com/paulmach/orb"
)

// IsClosed reports whether the last point of the ring repeats the first.
func IsClosed(r orb.Ring) bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// OpenRing returns the ring without its closing vertex. The input is never modified.
func OpenRing(r orb.Ring) orb.Ring {
	if IsClosed(r) {
		return r[:len(r)-1 : len(r)-1]
	}
	return r
}

// CloseRing returns a copy of the ring which repeats the first vertex at the end.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return orb.Ring{}
	}

	r = OpenRing(r)
	res := make(orb.Ring, len(r), len(r)+1)
	copy(res, r)
	return append(res, r[0])
}

// IsClockwise reports whether the ring is wound clockwise when seen from
// outside the sphere. Orientation is derived from the geodesic curvature, so
// rings crossing the antimeridian are handled correctly. Degenerate rings are
// never clockwise.
func IsClockwise(r orb.Ring) bool {
	return ClassifyLoop(r).Kind == LoopKindInner
}

// RingContains reports whether the point lies within the smaller of the two
// regions bounded by the ring, regardless of its winding order.
func RingContains(r orb.Ring, p orb.Point) bool {
	loop := s2Loop(r)
	if loop == nil {
		return false
	}
	loop.Normalize()
	return loop.ContainsPoint(s2Point(p))
}

// PolygonContains reports whether the point lies within the first ring of the
// polygon and outside of all of its holes.
func PolygonContains(poly orb.Polygon, p orb.Point) bool {
	if len(poly) == 0 || !RingContains(poly[0], p) {
		return false
	}
	for _, hole := range poly[1:] {
		if RingContains(hole, p) {
			return false
		}
	}
	return true
}

// Centroid returns the arithmetic mean of the ring vertices, ignoring the
// closing vertex. This is not an area centroid. Returns a zero point for
// empty rings.
func Centroid(r orb.Ring) orb.Point {
	r = OpenRing(r)
	if len(r) == 0 {
		return orb.Point{}
	}

	var lng, lat float64
	for _, p := range r {
		lng += p[0]
		lat += p[1]
	}
	n := float64(len(r))
	return orb.Point{lng / n, lat / n}
}
