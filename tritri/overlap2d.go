package tritri

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// Overlap2D checks if the closed triangles (p1, q1, r1) and (p2, q2, r2)
// intersect. Touching boundaries count as an intersection.
//
// The vertex order of either triangle does not matter. If either triangle has
// zero area, false is returned.
func Overlap2D(p1, q1, r1, p2, q2, r2 model2d.Coord) bool {
	t1 := [3]model2d.Coord{p1, q1, r1}
	t2 := [3]model2d.Coord{p2, q2, r2}
	if degenerate2D(t1) || degenerate2D(t2) {
		return false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsIntersect(t1[i], t1[(i+1)%3], t2[j], t2[(j+1)%3]) {
				return true
			}
		}
	}
	// With no crossing edges, the triangles are either disjoint or one
	// contains the other entirely.
	return containsPoint(t2, t1[0]) || containsPoint(t1, t2[0])
}

func degenerate2D(t [3]model2d.Coord) bool {
	e := maxEdge2D(t)
	return e == 0 || math.Abs(Orient2D(t[0], t[1], t[2])) <= relEpsilon*e*e
}

// containsPoint checks if c is inside or on the boundary of t, for either
// orientation of t.
func containsPoint(t [3]model2d.Coord, c model2d.Coord) bool {
	s1 := sign(Orient2D(t[0], t[1], c))
	s2 := sign(Orient2D(t[1], t[2], c))
	s3 := sign(Orient2D(t[2], t[0], c))
	hasPos := s1 > 0 || s2 > 0 || s3 > 0
	hasNeg := s1 < 0 || s2 < 0 || s3 < 0
	return !(hasPos && hasNeg)
}

// segmentsIntersect checks if the closed segments ab and cd share a point.
func segmentsIntersect(a, b, c, d model2d.Coord) bool {
	o1 := sign(Orient2D(a, b, c))
	o2 := sign(Orient2D(a, b, d))
	o3 := sign(Orient2D(c, d, a))
	o4 := sign(Orient2D(c, d, b))

	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	return (o1 == 0 && onSegment(a, b, c)) ||
		(o2 == 0 && onSegment(a, b, d)) ||
		(o3 == 0 && onSegment(c, d, a)) ||
		(o4 == 0 && onSegment(c, d, b))
}

// onSegment checks if c, known to be collinear with ab, lies within the
// bounding box of ab.
func onSegment(a, b, c model2d.Coord) bool {
	return c.X >= math.Min(a.X, b.X) && c.X <= math.Max(a.X, b.X) &&
		c.Y >= math.Min(a.Y, b.Y) && c.Y <= math.Max(a.Y, b.Y)
}
