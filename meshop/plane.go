package meshop

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Side indicates where a point lies relative to a Plane.
type Side int

const (
	Below Side = -1
	On    Side = 0
	Above Side = 1
)

// A Plane is an infinite plane described by a point on it and a unit normal.
// Above is the side the normal points to.
type Plane struct {
	Point  model3d.Coord3D
	Normal model3d.Coord3D
}

// NewPlane creates a plane, normalizing the normal.
func NewPlane(point, normal model3d.Coord3D) (Plane, error) {
	norm := normal.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return Plane{}, errors.Wrapf(ErrDegenerateGeometry, "invalid plane normal %v", normal)
	}
	return Plane{Point: point, Normal: normal.Scale(1 / norm)}, nil
}

// SignedDist computes the signed distance from the plane to c.
func (p Plane) SignedDist(c model3d.Coord3D) float64 {
	return p.Normal.Dot(c.Sub(p.Point))
}

// Classify determines the side of c, treating points within eps of the plane
// as on it.
func (p Plane) Classify(c model3d.Coord3D, eps float64) Side {
	d := p.SignedDist(c)
	if d > eps {
		return Above
	} else if d < -eps {
		return Below
	}
	return On
}

// Project finds the closest point on the plane to c.
func (p Plane) Project(c model3d.Coord3D) model3d.Coord3D {
	return c.Sub(p.Normal.Scale(p.SignedDist(c)))
}

// EdgeCrossing finds the point where the segment ab crosses the plane.
//
// The second return value is false unless a and b are strictly on opposite
// sides. The result only depends on the order of a and b through rounding,
// so callers that need identical points for shared edges should pass the
// endpoints in a canonical order.
func (p Plane) EdgeCrossing(a, b model3d.Coord3D) (model3d.Coord3D, bool) {
	da := p.SignedDist(a)
	db := p.SignedDist(b)
	if !((da > 0 && db < 0) || (da < 0 && db > 0)) {
		return model3d.Coord3D{}, false
	}
	frac := da / (da - db)
	return a.Add(b.Sub(a).Scale(frac)), true
}

// Basis returns two unit vectors which, together with the normal, form an
// orthonormal basis.
func (p Plane) Basis() (u, v model3d.Coord3D) {
	n := p.Normal
	axis := model3d.X(1)
	if math.Abs(n.Y) < math.Abs(n.X) && math.Abs(n.Y) <= math.Abs(n.Z) {
		axis = model3d.Y(1)
	} else if math.Abs(n.Z) < math.Abs(n.X) && math.Abs(n.Z) < math.Abs(n.Y) {
		axis = model3d.Z(1)
	}
	u = n.Cross(axis).Normalize()
	v = n.Cross(u)
	return
}

// Patch creates a triangle on the plane which contains every point of the
// plane within radius of the projection of center.
func (p Plane) Patch(center model3d.Coord3D, radius float64) *model3d.Triangle {
	center = p.Project(center)
	u, v := p.Basis()
	// An equilateral triangle's inscribed circle has half the radius of its
	// circumscribed circle.
	r := radius * 2
	var res model3d.Triangle
	for i := range res {
		theta := float64(i) * 2 * math.Pi / 3
		res[i] = center.Add(u.Scale(r * math.Cos(theta))).Add(v.Scale(r * math.Sin(theta)))
	}
	return &res
}

// Section computes the segment where the plane cuts t.
//
// Vertices within eps of the plane count as on it. If t does not meet the
// plane along a segment, false is returned; this includes triangles that
// touch the plane at one point and triangles lying in the plane.
func (p Plane) Section(t *model3d.Triangle, eps float64) (model3d.Segment, bool) {
	var sides [3]Side
	for i, c := range t {
		sides[i] = p.Classify(c, eps)
	}
	points := make([]model3d.Coord3D, 0, 3)
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if sides[i] == On {
			points = append(points, t[i])
		} else if sides[i] == -sides[j] {
			e := NewEdgeRef(t[i], t[j])
			if c, ok := p.EdgeCrossing(e.Segment[0], e.Segment[1]); ok {
				points = append(points, c)
			}
		}
	}
	if len(points) != 2 || points[0] == points[1] {
		return model3d.Segment{}, false
	}
	return model3d.Segment{points[0], points[1]}, true
}
