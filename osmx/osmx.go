// Package osmx is a parsing extension for OpenStreetMap XML data. It turns
// boundary relations into GeoJSON features which can be fed to the hexjson
// conversions.
package osmx

import (
	"fmt"

	"github.com/bsm/hexkit/geo"
	osm "github.com/glaslos/go-osm"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Member roles.
const (
	RoleOuter = "outer"
	RoleInner = "inner"
)

// wayPath denotes a chain of Nodes that may or may not be closed.
type wayPath struct {
	Role string
	Path []*osm.Node
}

// First returns the first node.
func (w *wayPath) First() *osm.Node { return w.Path[0] }

// Last returns the last node.
func (w *wayPath) Last() *osm.Node { return w.Path[len(w.Path)-1] }

// FirstID returns the first node ID.
func (w *wayPath) FirstID() int64 { return w.First().ID }

// LastID returns the last node ID.
func (w *wayPath) LastID() int64 { return w.Last().ID }

// IsClosed denotes whether the Path is closed.
func (w *wayPath) IsClosed() bool { return w.FirstID() == w.LastID() }

// IsValid denotes whether the way is valid.
func (w *wayPath) IsValid() bool {
	return len(w.Path) > 1 && (w.Role == RoleOuter || w.Role == RoleInner)
}

// EdgeMerge merges o onto w if both ways have a common edge. It returns true
// if the merge was successful.
func (w *wayPath) EdgeMerge(o *wayPath) bool {
	if w.Role != o.Role {
		return false
	}

	merged := true
	if w.LastID() == o.FirstID() {
		// w: a b c d
		// o: d e f g
		// w+o -> a b c d e f g
		w.Path = append(w.Path, o.Path[1:]...)
	} else if w.FirstID() == o.LastID() {
		// w: d e f g
		// o: a b c d
		// o+w -> a b c d e f g
		w.Path = append(o.Path, w.Path[1:]...)
	} else if w.FirstID() == o.FirstID() {
		// w: d c b a
		// o: d e f g
		// rev(w)+o -> a b c d e f g
		w.Path = append(w.reversePath(), o.Path[1:]...)
	} else if w.LastID() == o.LastID() {
		// w: a b c d
		// o: g f e d
		// w+rev(o) -> a b c d e f g
		w.Path = append(w.Path, o.reversePath()[1:]...)
	} else {
		merged = false
	}

	return merged
}

// Ring converts a closed path into a ring. Outer rings are wound
// counter-clockwise, inner rings clockwise, regardless of the node order.
func (w *wayPath) Ring() (orb.Ring, error) {
	if !w.IsValid() {
		return nil, fmt.Errorf("osmx: cannot build ring from an invalid way")
	} else if !w.IsClosed() {
		return nil, fmt.Errorf("osmx: cannot build ring from an open way")
	}

	ring := make(orb.Ring, 0, len(w.Path))
	for _, nd := range w.Path {
		ring = append(ring, orb.Point{nd.Lng, nd.Lat})
	}
	if len(geo.OpenRing(ring)) < 3 {
		return nil, fmt.Errorf("osmx: cannot build ring from a degenerate way")
	}

	if geo.IsClockwise(ring) != (w.Role == RoleInner) {
		ring.Reverse()
	}
	return ring, nil
}

// ForceMerge merges o onto w using one of the following modes. Example:
//
//   w: a b c
//   o: d e f
//
//   w.ForceMerge(o, 1) => a b c d e f
//   w.ForceMerge(o, 2) => d e f a b c
//   w.ForceMerge(o, 3) => c b a d e f
//   w.ForceMerge(o, 4) => a b c f e d
func (w *wayPath) ForceMerge(o *wayPath, mode int) {
	if w.Role != o.Role {
		return
	}

	switch mode {
	case 1:
		w.Path = append(w.Path, o.Path...)
	case 2:
		w.Path = append(o.Path, w.Path...)
	case 3:
		w.Path = append(w.reversePath(), o.Path...)
	case 4:
		w.Path = append(w.Path, o.reversePath()...)
	}
}

// MinEdgeDistance returns the minimum distance between the edges of two ways.
func (w *wayPath) MinEdgeDistance(o *wayPath) (min s1.Angle, mode int) {
	min = s1.InfAngle()
	if w.Role != o.Role {
		return min, mode
	}

	w1, w2 := nodePoint(w.First()), nodePoint(w.Last())
	o1, o2 := nodePoint(o.First()), nodePoint(o.Last())

	if d := w2.Distance(o1); d < min {
		min, mode = d, 1
	}
	if d := w1.Distance(o2); d < min {
		min, mode = d, 2
	}
	if d := w1.Distance(o1); d < min {
		min, mode = d, 3
	}
	if d := w2.Distance(o2); d < min {
		min, mode = d, 4
	}
	return min, mode
}

// Reverse node order.
func (w *wayPath) reversePath() []*osm.Node {
	for i, j := 0, len(w.Path)-1; i < j; i, j = i+1, j-1 {
		w.Path[i], w.Path[j] = w.Path[j], w.Path[i]
	}

	return w.Path
}

func nodePoint(nd *osm.Node) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(nd.Lat, nd.Lng))
}

// --------------------------------------------------------------------

type waySlice []*wayPath

// Reduce reduces ways to continuous loops by joining them together. Destructive!
func (s waySlice) Reduce() waySlice {
	// find simple loops by merging edges
	for i, w := range s {
		if w != nil {
			s.mergeEdges(w, i+1)
		}
	}
	s = s.compact(false)

	// open loops
	for i, w := range s {
		if w != nil && !w.IsClosed() {
			s.mergeOpen(w, i+1)
		}
	}
	return s.compact(true)
}

// removes all nils
func (s waySlice) compact(close bool) waySlice {
	clean := s[:0]
	for _, w := range s {
		if w != nil {
			if close && !w.IsClosed() {
				w.Path = append(w.Path, w.Path[0])
			}
			clean = append(clean, w)
		}
	}
	return clean
}

func (s waySlice) mergeEdges(w *wayPath, off int) {
	merged := false
	for i, x := range s[off:] {
		if x == nil || x.IsClosed() {
			continue
		}

		if !w.IsClosed() && w.EdgeMerge(x) {
			s[i+off] = nil
			merged = true
		}
	}

	if merged {
		s.mergeEdges(w, off)
	}
}

func (s waySlice) mergeOpen(w *wayPath, off int) {
	var (
		pos      = -1
		mode     = 0
		distance = s1.InfAngle()
	)

	for i, x := range s[off:] {
		if x == nil {
			continue
		}

		if !x.IsClosed() {
			if d, m := w.MinEdgeDistance(x); d < distance {
				distance = d
				mode = m
				pos = i
			}
		}
	}

	if pos > -1 {
		w.ForceMerge(s[off+pos], mode)
		s[off+pos] = nil
		s.mergeOpen(w, off)
	}
}

// Rings converts reduced ways into single-ring polygons, ready to be grouped
// by geo.Normalize.
func (s waySlice) Rings() ([]orb.Polygon, error) {
	polys := make([]orb.Polygon, 0, len(s))
	for _, w := range s {
		ring, err := w.Ring()
		if err != nil {
			return nil, err
		}
		polys = append(polys, orb.Polygon{ring})
	}
	return polys, nil
}
