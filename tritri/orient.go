package tritri

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// relEpsilon scales the tolerance used to snap near-zero orientations.
const relEpsilon = 1e-12

// Orient2D computes twice the signed area of the triangle (a, b, c).
//
// The result is positive when the points are in counter-clockwise order,
// negative when clockwise, and zero when they are collinear.
func Orient2D(a, b, c model2d.Coord) float64 {
	return (a.X-c.X)*(b.Y-c.Y) - (a.Y-c.Y)*(b.X-c.X)
}

// Orient3D computes six times the signed volume of the tetrahedron (a, b, c,
// d).
//
// The result is positive when d lies on the side of the plane through a, b, c
// that the normal (b-a)x(c-a) points to.
func Orient3D(a, b, c, d model3d.Coord3D) float64 {
	return d.Sub(a).Dot(b.Sub(a).Cross(c.Sub(a)))
}

func sign(x float64) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func maxEdge3D(t [3]model3d.Coord3D) float64 {
	return math.Max(t[0].Dist(t[1]), math.Max(t[1].Dist(t[2]), t[2].Dist(t[0])))
}

func maxEdge2D(t [3]model2d.Coord) float64 {
	return math.Max(t[0].Dist(t[1]), math.Max(t[1].Dist(t[2]), t[2].Dist(t[0])))
}

// extent3D is the largest coordinate range spanned by both triangles.
func extent3D(t1, t2 [3]model3d.Coord3D) float64 {
	min, max := t1[0], t1[0]
	for _, ts := range [2][3]model3d.Coord3D{t1, t2} {
		for _, c := range ts {
			min = min.Min(c)
			max = max.Max(c)
		}
	}
	return max.Sub(min).Norm()
}
