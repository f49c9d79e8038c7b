package tritri

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// A Result describes how two triangles in 3D intersect.
type Result struct {
	// Coplanar is set when both triangles lie in the same plane, in which
	// case Source and Target are not computed.
	Coplanar bool

	// Overlap is set when the closed triangles share at least one point.
	Overlap bool

	// Degenerate is set when either triangle has zero area. Degenerate
	// triangles never overlap anything.
	Degenerate bool

	// Source and Target are the endpoints of the intersection segment when
	// Overlap is set and Coplanar is not. They are equal when the triangles
	// touch at a single point.
	Source model3d.Coord3D
	Target model3d.Coord3D
}

// Segment returns the intersection segment as a model3d.Segment.
func (r Result) Segment() model3d.Segment {
	return model3d.Segment{r.Source, r.Target}
}

// Overlap3D checks if the closed triangles (p1, q1, r1) and (p2, q2, r2)
// intersect. Touching boundaries count as an intersection.
func Overlap3D(p1, q1, r1, p2, q2, r2 model3d.Coord3D) bool {
	return Intersect3D(p1, q1, r1, p2, q2, r2).Overlap
}

// TriangleOverlap is like Overlap3D for model3d triangles.
func TriangleOverlap(t1, t2 *model3d.Triangle) bool {
	return Overlap3D(t1[0], t1[1], t1[2], t2[0], t2[1], t2[2])
}

// TriangleIntersect is like Intersect3D for model3d triangles.
func TriangleIntersect(t1, t2 *model3d.Triangle) Result {
	return Intersect3D(t1[0], t1[1], t1[2], t2[0], t2[1], t2[2])
}

// Intersect3D computes the intersection of the triangles (p1, q1, r1) and
// (p2, q2, r2).
//
// For non-coplanar triangles, each triangle is cut by the supporting plane of
// the other, giving two segments on the line where the planes meet. The
// triangles overlap exactly when these segments overlap, and the shared part
// is returned, ordered along the direction n1 x n2.
//
// Swapping the two triangles never changes Overlap or Coplanar.
func Intersect3D(p1, q1, r1, p2, q2, r2 model3d.Coord3D) Result {
	t1 := [3]model3d.Coord3D{p1, q1, r1}
	t2 := [3]model3d.Coord3D{p2, q2, r2}
	n1 := q1.Sub(p1).Cross(r1.Sub(p1))
	n2 := q2.Sub(p2).Cross(r2.Sub(p2))
	if degenerate3D(t1, n1) || degenerate3D(t2, n2) {
		return Result{Degenerate: true}
	}

	scale := extent3D(t1, t2)
	d1 := planeDistances(t1, p2, n2, scale)
	if strictlyOneSide(d1) {
		return Result{}
	}
	d2 := planeDistances(t2, p1, n1, scale)
	if strictlyOneSide(d2) {
		return Result{}
	}

	direction := n1.Cross(n2)
	if allZero(d1) || allZero(d2) || direction.Norm() == 0 {
		return Result{
			Coplanar: true,
			Overlap:  Coplanar(p1, q1, r1, p2, q2, r2, n1, n2),
		}
	}

	lo1, hi1, loPoint1, hiPoint1 := sectionInterval(t1, d1, direction)
	lo2, hi2, loPoint2, hiPoint2 := sectionInterval(t2, d2, direction)
	if math.Max(lo1, lo2) > math.Min(hi1, hi2) {
		return Result{}
	}

	res := Result{Overlap: true}
	if lo1 >= lo2 {
		res.Source = loPoint1
	} else {
		res.Source = loPoint2
	}
	if hi1 <= hi2 {
		res.Target = hiPoint1
	} else {
		res.Target = hiPoint2
	}
	return res
}

// Coplanar checks if two triangles in the same plane overlap, by projecting
// them onto the axis-aligned plane which best preserves their area.
//
// The normals n1 and n2 are the (unnormalized) normals of the two triangles.
// They are combined symmetrically, so swapping the triangles together with
// their normals gives the same answer.
func Coplanar(p1, q1, r1, p2, q2, r2, n1, n2 model3d.Coord3D) bool {
	nx := math.Abs(n1.X) + math.Abs(n2.X)
	ny := math.Abs(n1.Y) + math.Abs(n2.Y)
	nz := math.Abs(n1.Z) + math.Abs(n2.Z)

	var project func(c model3d.Coord3D) model2d.Coord
	if nx > nz && nx >= ny {
		project = func(c model3d.Coord3D) model2d.Coord {
			return model2d.XY(c.Y, c.Z)
		}
	} else if ny > nz && ny >= nx {
		project = func(c model3d.Coord3D) model2d.Coord {
			return model2d.XY(c.X, c.Z)
		}
	} else {
		project = func(c model3d.Coord3D) model2d.Coord {
			return model2d.XY(c.X, c.Y)
		}
	}
	return Overlap2D(
		project(p1), project(q1), project(r1),
		project(p2), project(q2), project(r2),
	)
}

func degenerate3D(t [3]model3d.Coord3D, normal model3d.Coord3D) bool {
	e := maxEdge3D(t)
	return e == 0 || normal.Norm() <= relEpsilon*e*e
}

// planeDistances computes the scaled signed distances of t's vertices to the
// plane through origin with the given normal, snapping values within
// rounding error of the plane to exactly zero.
func planeDistances(
	t [3]model3d.Coord3D,
	origin, normal model3d.Coord3D,
	scale float64,
) [3]float64 {
	tol := relEpsilon * normal.Norm() * scale
	var res [3]float64
	for i, c := range t {
		d := c.Sub(origin).Dot(normal)
		if math.Abs(d) > tol {
			res[i] = d
		}
	}
	return res
}

func strictlyOneSide(d [3]float64) bool {
	return (d[0] > 0 && d[1] > 0 && d[2] > 0) || (d[0] < 0 && d[1] < 0 && d[2] < 0)
}

func allZero(d [3]float64) bool {
	return d[0] == 0 && d[1] == 0 && d[2] == 0
}

// sectionInterval cuts t by the plane whose signed distances are d, and
// returns the extent of the cut along direction along with the points at
// either end of it.
func sectionInterval(
	t [3]model3d.Coord3D,
	d [3]float64,
	direction model3d.Coord3D,
) (lo, hi float64, loPoint, hiPoint model3d.Coord3D) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	add := func(c model3d.Coord3D) {
		x := c.Dot(direction)
		if x < lo {
			lo = x
			loPoint = c
		}
		if x > hi {
			hi = x
			hiPoint = c
		}
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if d[i] == 0 {
			add(t[i])
		}
		if (d[i] > 0 && d[j] < 0) || (d[i] < 0 && d[j] > 0) {
			frac := d[i] / (d[i] - d[j])
			add(t[i].Add(t[j].Sub(t[i]).Scale(frac)))
		}
	}
	return
}
