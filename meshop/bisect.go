package meshop

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/meshop/tritri"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// DefaultEpsilon is the default distance within which Bisect treats vertices
// as lying on the cutting plane.
const DefaultEpsilon = 1e-8

// Bisect cuts a mesh along a plane, splitting every face that crosses it so
// that each resulting face lies entirely on one side.
//
// Inputs:
//
//   - plane_point (Vec3, required): a point on the plane.
//   - plane_normal (Vec3, required): the plane normal; need not be unit length.
//   - epsilon (Float): vertices within this distance of the plane are treated
//     as on it. Defaults to DefaultEpsilon.
//   - clear_above, clear_below (Bool): delete the faces on that side after
//     cutting.
//
// Outputs:
//
//   - cut_boundary (VertexSlice): the vertices along the cut. Every face
//     crossing the plane adds the points where its edges cross, so faces
//     split by a crossing diagonal contribute vertices between the corners
//     of the section polygon.
//   - cut_edges (EdgeSlice): the edges along the cut, which form closed loops
//     for closed meshes.
//   - cut_faces (FaceSlice): faces created by the cut.
//   - faces_above, faces_below (FaceSlice): the remaining faces on each side.
//     Faces lying in the plane are in neither.
//   - vert_edge_map (ElementMap): each new vertex mapped to the original edge
//     it was inserted on.
//   - num_split_edges (Int): the number of edges that were split.
//
// If the cut fails after the mesh was modified, the edits are undone and the
// error wraps ErrPartialMutation.
type Bisect struct {
	operatorState
}

func NewBisect() *Bisect {
	return &Bisect{}
}

// NewBisectPlane creates a Bisect operator with its plane inputs set.
func NewBisectPlane(p Plane) *Bisect {
	b := NewBisect()
	b.inputs.Set("plane_point", Vec3Value(p.Point))
	b.inputs.Set("plane_normal", Vec3Value(p.Normal))
	return b
}

func (b *Bisect) Name() string {
	return "bisect"
}

func (b *Bisect) Execute(m Mesh) error {
	if err := b.begin(b.Name()); err != nil {
		return err
	}
	point, err := Require[Vec3Value](&b.inputs, "plane_point")
	if err != nil {
		return errors.Wrap(err, "bisect")
	}
	normal, err := Require[Vec3Value](&b.inputs, "plane_normal")
	if err != nil {
		return errors.Wrap(err, "bisect")
	}
	eps, err := Optional(&b.inputs, "epsilon", FloatValue(DefaultEpsilon))
	if err != nil {
		return errors.Wrap(err, "bisect")
	}
	if eps < 0 || math.IsNaN(float64(eps)) || math.IsInf(float64(eps), 0) {
		return errors.Errorf("bisect: epsilon must be finite and non-negative, got %f",
			float64(eps))
	}
	clearAbove, err := Optional(&b.inputs, "clear_above", BoolValue(false))
	if err != nil {
		return errors.Wrap(err, "bisect")
	}
	clearBelow, err := Optional(&b.inputs, "clear_below", BoolValue(false))
	if err != nil {
		return errors.Wrap(err, "bisect")
	}
	plane, err := NewPlane(point.Coord(), normal.Coord())
	if err != nil {
		return errors.Wrap(err, "bisect")
	}

	faces := m.Faces()
	plan, err := planBisect(faces, plane, float64(eps))
	if err != nil {
		return errors.Wrap(err, "bisect")
	}

	j := newJournal(m)
	result, err := plan.Apply(j, bool(clearAbove), bool(clearBelow))
	if err != nil {
		j.Rollback()
		return errors.Wrapf(ErrPartialMutation, "bisect: %s (mesh edits rolled back)", err)
	}
	result.WriteSlots(&b.outputs)
	return nil
}

type edgeSplit struct {
	Edge   EdgeRef
	Vertex VertexRef
}

type bisectPlan struct {
	Plane   Plane
	Epsilon float64
	Initial map[*model3d.Triangle]bool
	Splits  []edgeSplit
	Seams   []EdgeRef

	// Inserted holds the split vertices, which are on the plane regardless
	// of rounding.
	Inserted map[model3d.Coord3D]bool
}

// planBisect finds the edges to split and the seam each crossing face
// contributes, without touching the mesh.
func planBisect(faces []FaceRef, plane Plane, eps float64) (*bisectPlan, error) {
	plan := &bisectPlan{
		Plane:    plane,
		Epsilon:  eps,
		Initial:  make(map[*model3d.Triangle]bool, len(faces)),
		Inserted: map[model3d.Coord3D]bool{},
	}
	crossings := map[EdgeRef]model3d.Coord3D{}
	seams := map[EdgeRef]bool{}
	for _, f := range faces {
		plan.Initial[f.Triangle] = true
		t := f.Triangle
		sides := classifyTriangle(plane, t, eps, nil)
		if !straddles(sides) {
			continue
		}
		cuts := make([]model3d.Coord3D, 0, 2)
		for i := 0; i < 3; i++ {
			j := (i + 1) % 3
			if sides[i] == On {
				cuts = append(cuts, t[i])
				continue
			} else if sides[i] != -sides[j] {
				continue
			}
			e := NewEdgeRef(t[i], t[j])
			c, ok := crossings[e]
			if !ok {
				c, ok = plane.EdgeCrossing(e.Segment[0], e.Segment[1])
				if !ok {
					return nil, errors.Wrapf(ErrDegenerateGeometry, "edge %v does not cross plane",
						e.Segment)
				}
				crossings[e] = c
				plan.Inserted[c] = true
				plan.Splits = append(plan.Splits, edgeSplit{Edge: e, Vertex: VertexRef{c}})
			}
			cuts = append(cuts, c)
		}
		if len(cuts) != 2 || cuts[0] == cuts[1] {
			return nil, errors.Wrapf(ErrDegenerateGeometry, "face %v has %d cut points", *t, len(cuts))
		}
		if err := checkCrossing(plane, t); err != nil {
			return nil, err
		}
		seams[NewEdgeRef(cuts[0], cuts[1])] = true
	}

	slices.SortFunc(plan.Splits, func(s1, s2 edgeSplit) bool {
		return edgeLess(s1.Edge, s2.Edge)
	})
	for e := range seams {
		plan.Seams = append(plan.Seams, e)
	}
	slices.SortFunc(plan.Seams, edgeLess)
	return plan, nil
}

// checkCrossing confirms that the face meets the plane along a segment by
// intersecting it with a patch of the plane large enough to contain its
// section.
func checkCrossing(plane Plane, t *model3d.Triangle) error {
	center := t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3)
	var radius float64
	for _, c := range t {
		radius = math.Max(radius, c.Dist(center))
	}
	patch := plane.Patch(center, radius*2)
	res := tritri.TriangleIntersect(t, patch)
	if res.Degenerate || res.Coplanar || !res.Overlap || res.Source == res.Target {
		return errors.Wrapf(ErrDegenerateGeometry, "face %v does not cross plane", *t)
	}
	return nil
}

// Apply performs the planned splits on m and collects the results.
func (b *bisectPlan) Apply(m Mesh, clearAbove, clearBelow bool) (*bisectResult, error) {
	res := &bisectResult{
		VertEdgeMap: ElementMapValue{},
		Seams:       b.Seams,
		NumSplits:   len(b.Splits),
	}
	for _, s := range b.Splits {
		if _, err := m.SplitEdge(s.Edge, s.Vertex); err != nil {
			return nil, err
		}
		res.VertEdgeMap[s.Vertex] = s.Edge
	}

	faces := m.Faces()
	slices.SortFunc(faces, faceLess)
	for _, f := range faces {
		if !b.Initial[f.Triangle] {
			res.CutFaces = append(res.CutFaces, f)
		}
		sides := classifyTriangle(b.Plane, f.Triangle, b.Epsilon, b.Inserted)
		if straddles(sides) {
			return nil, errors.Errorf("face %v still crosses the plane", *f.Triangle)
		}
		for _, s := range sides {
			if s == Above {
				res.Above = append(res.Above, f)
				break
			} else if s == Below {
				res.Below = append(res.Below, f)
				break
			}
		}
	}

	if clearAbove {
		for _, f := range res.Above {
			m.DeleteFace(f)
		}
		res.Above = nil
	}
	if clearBelow {
		for _, f := range res.Below {
			m.DeleteFace(f)
		}
		res.Below = nil
	}
	if clearAbove || clearBelow {
		res.CutFaces = filterFaces(res.CutFaces, b.Plane, b.Epsilon, b.Inserted, clearAbove,
			clearBelow)
	}
	return res, nil
}

type bisectResult struct {
	Seams       []EdgeRef
	CutFaces    []FaceRef
	Above       []FaceRef
	Below       []FaceRef
	VertEdgeMap ElementMapValue
	NumSplits   int
}

func (b *bisectResult) WriteSlots(s *SlotStore) {
	var boundary VertexSliceValue
	seen := map[model3d.Coord3D]bool{}
	for _, e := range b.Seams {
		for _, c := range e.Segment {
			if !seen[c] {
				seen[c] = true
				boundary = append(boundary, VertexRef{c})
			}
		}
	}
	s.Set("cut_boundary", boundary)
	s.Set("cut_edges", EdgeSliceValue(b.Seams))
	s.Set("cut_faces", FaceSliceValue(b.CutFaces))
	s.Set("faces_above", FaceSliceValue(b.Above))
	s.Set("faces_below", FaceSliceValue(b.Below))
	s.Set("vert_edge_map", b.VertEdgeMap)
	s.Set("num_split_edges", IntValue(b.NumSplits))
}

// classifyTriangle finds the side of each vertex of t, treating the vertices
// in on as lying in the plane.
func classifyTriangle(p Plane, t *model3d.Triangle, eps float64,
	on map[model3d.Coord3D]bool) [3]Side {
	var res [3]Side
	for i, c := range t {
		if on[c] {
			res[i] = On
		} else {
			res[i] = p.Classify(c, eps)
		}
	}
	return res
}

func straddles(sides [3]Side) bool {
	var above, below bool
	for _, s := range sides {
		if s == Above {
			above = true
		} else if s == Below {
			below = true
		}
	}
	return above && below
}

func filterFaces(faces []FaceRef, p Plane, eps float64, on map[model3d.Coord3D]bool,
	dropAbove, dropBelow bool) []FaceRef {
	var res []FaceRef
	for _, f := range faces {
		sides := classifyTriangle(p, f.Triangle, eps, on)
		drop := false
		for _, s := range sides {
			if (s == Above && dropAbove) || (s == Below && dropBelow) {
				drop = true
				break
			}
		}
		if !drop {
			res = append(res, f)
		}
	}
	return res
}

func faceLess(f1, f2 FaceRef) bool {
	for i := 0; i < 3; i++ {
		if f1.Triangle[i] != f2.Triangle[i] {
			return coordLess(f1.Triangle[i], f2.Triangle[i])
		}
	}
	return false
}
