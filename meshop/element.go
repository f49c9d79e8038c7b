package meshop

import "github.com/unixpickle/model3d/model3d"

type ElementKind int

const (
	VertexKind ElementKind = iota
	EdgeKind
	FaceKind
)

func (e ElementKind) String() string {
	switch e {
	case VertexKind:
		return "vertex"
	case EdgeKind:
		return "edge"
	case FaceKind:
		return "face"
	}
	return "unknown"
}

// An ElementRef is a non-owning reference to a vertex, edge, or face of a
// Mesh.
//
// All implementations are comparable, so references may be used as map keys.
type ElementRef interface {
	Kind() ElementKind
}

// A VertexRef identifies a vertex by its position.
type VertexRef struct {
	Coord model3d.Coord3D
}

func (v VertexRef) Kind() ElementKind {
	return VertexKind
}

// An EdgeRef identifies an edge by its endpoints.
//
// Use NewEdgeRef to create edges, so that both directions of an edge compare
// as equal.
type EdgeRef struct {
	Segment model3d.Segment
}

// NewEdgeRef creates an EdgeRef with its endpoints in a canonical order.
func NewEdgeRef(p1, p2 model3d.Coord3D) EdgeRef {
	if coordLess(p2, p1) {
		p1, p2 = p2, p1
	}
	return EdgeRef{Segment: model3d.Segment{p1, p2}}
}

func (e EdgeRef) Kind() ElementKind {
	return EdgeKind
}

// A FaceRef points to a triangle owned by a Mesh.
type FaceRef struct {
	Triangle *model3d.Triangle
}

func (f FaceRef) Kind() ElementKind {
	return FaceKind
}

// Edges returns the three edges of the face.
func (f FaceRef) Edges() [3]EdgeRef {
	t := f.Triangle
	return [3]EdgeRef{
		NewEdgeRef(t[0], t[1]),
		NewEdgeRef(t[1], t[2]),
		NewEdgeRef(t[2], t[0]),
	}
}

func coordLess(c1, c2 model3d.Coord3D) bool {
	if c1.X != c2.X {
		return c1.X < c2.X
	} else if c1.Y != c2.Y {
		return c1.Y < c2.Y
	}
	return c1.Z < c2.Z
}

func edgeLess(e1, e2 EdgeRef) bool {
	if e1.Segment[0] != e2.Segment[0] {
		return coordLess(e1.Segment[0], e2.Segment[0])
	}
	return coordLess(e1.Segment[1], e2.Segment[1])
}
