package geo

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// LoopKind is the role of a boundary loop.
type LoopKind uint8

// LoopKind values.
const (
	LoopKindOuter LoopKind = iota + 1
	LoopKindInner
)

func (k LoopKind) String() string {
	switch k {
	case LoopKindOuter:
		return "outer"
	case LoopKindInner:
		return "inner"
	}
	return "unknown"
}

// Loop is a ring classified by its winding order.
type Loop struct {
	Kind LoopKind
	Ring orb.Ring

	s2 *s2.Loop
}

// ClassifyLoop wraps a ring into a Loop. Counter-clockwise rings are outer
// loops, clockwise rings are inner loops (holes).
func ClassifyLoop(r orb.Ring) *Loop {
	lp := &Loop{Kind: LoopKindOuter, Ring: r, s2: s2Loop(r)}
	if lp.s2 != nil && lp.s2.TurningAngle() < 0 {
		lp.Kind = LoopKindInner
	}
	return lp
}

// TestPoint returns a single vertex of the loop. Loops derived from
// non-overlapping cell boundaries never share vertices, so any vertex of an
// inner loop is strictly inside or outside of every outer loop.
func (l *Loop) TestPoint() (orb.Point, bool) {
	if len(l.Ring) == 0 {
		return orb.Point{}, false
	}
	return l.Ring[0], true
}

// ContainsPoint reports whether an outer loop contains the point. It always
// returns false for inner or degenerate loops.
func (l *Loop) ContainsPoint(p orb.Point) bool {
	if l.Kind != LoopKindOuter || l.s2 == nil {
		return false
	}
	return l.s2.ContainsPoint(s2Point(p))
}
