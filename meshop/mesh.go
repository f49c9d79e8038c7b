package meshop

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// A Mesh is the editing interface operators use to read and modify a
// triangle mesh.
//
// Element references stay valid until the element is removed.
type Mesh interface {
	// Faces returns every face of the mesh.
	Faces() []FaceRef

	// EdgeFaces returns the faces containing both endpoints of e.
	EdgeFaces(e EdgeRef) []FaceRef

	// AddFace inserts a triangle into the mesh.
	AddFace(t *model3d.Triangle) FaceRef

	// DeleteFace removes a face from the mesh.
	DeleteFace(f FaceRef)

	// SplitEdge inserts v along e, replacing each face in EdgeFaces(e) by two
	// faces with the same orientation. The new faces are returned.
	SplitEdge(e EdgeRef, v VertexRef) ([]FaceRef, error)
}

// TriangleMesh implements Mesh on top of a model3d.Mesh.
type TriangleMesh struct {
	mesh *model3d.Mesh
}

func NewTriangleMesh(m *model3d.Mesh) *TriangleMesh {
	return &TriangleMesh{mesh: m}
}

// Model returns the underlying mesh.
func (t *TriangleMesh) Model() *model3d.Mesh {
	return t.mesh
}

func (t *TriangleMesh) Faces() []FaceRef {
	return faceRefs(t.mesh.TriangleSlice())
}

func (t *TriangleMesh) EdgeFaces(e EdgeRef) []FaceRef {
	return faceRefs(t.mesh.Find(e.Segment[0], e.Segment[1]))
}

func (t *TriangleMesh) AddFace(tri *model3d.Triangle) FaceRef {
	t.mesh.Add(tri)
	return FaceRef{Triangle: tri}
}

func (t *TriangleMesh) DeleteFace(f FaceRef) {
	t.mesh.Remove(f.Triangle)
}

func (t *TriangleMesh) SplitEdge(e EdgeRef, v VertexRef) ([]FaceRef, error) {
	faces := t.EdgeFaces(e)
	if len(faces) == 0 {
		return nil, errors.Errorf("split edge: no faces contain edge %v", e.Segment)
	}
	pieces := make([]*model3d.Triangle, 0, len(faces)*2)
	for _, f := range faces {
		t1, t2, err := splitTriangle(f.Triangle, e, v.Coord)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, t1, t2)
	}
	for _, f := range faces {
		t.DeleteFace(f)
	}
	res := make([]FaceRef, len(pieces))
	for i, p := range pieces {
		res[i] = t.AddFace(p)
	}
	return res, nil
}

// splitTriangle divides t into two triangles by inserting p on the edge e.
func splitTriangle(t *model3d.Triangle, e EdgeRef, p model3d.Coord3D) (t1,
	t2 *model3d.Triangle, err error) {
	for i := 0; i < 3; i++ {
		if NewEdgeRef(t[i], t[(i+1)%3]) == e {
			a, b, c := t[i], t[(i+1)%3], t[(i+2)%3]
			if p == a || p == b {
				return nil, nil, errors.Errorf("split edge: point %v is an endpoint of edge", p)
			}
			return &model3d.Triangle{a, p, c}, &model3d.Triangle{p, b, c}, nil
		}
	}
	return nil, nil, errors.Errorf("split edge: triangle %v does not contain edge %v", *t, e.Segment)
}

func faceRefs(tris []*model3d.Triangle) []FaceRef {
	res := make([]FaceRef, len(tris))
	for i, t := range tris {
		res[i] = FaceRef{Triangle: t}
	}
	return res
}

// A journal records the edits made through it so they can be undone.
type journal struct {
	Mesh

	log []journalEntry
}

type journalEntry struct {
	added   []FaceRef
	removed []FaceRef
}

func newJournal(m Mesh) *journal {
	return &journal{Mesh: m}
}

func (j *journal) AddFace(t *model3d.Triangle) FaceRef {
	f := j.Mesh.AddFace(t)
	j.log = append(j.log, journalEntry{added: []FaceRef{f}})
	return f
}

func (j *journal) DeleteFace(f FaceRef) {
	j.Mesh.DeleteFace(f)
	j.log = append(j.log, journalEntry{removed: []FaceRef{f}})
}

func (j *journal) SplitEdge(e EdgeRef, v VertexRef) ([]FaceRef, error) {
	old := j.Mesh.EdgeFaces(e)
	res, err := j.Mesh.SplitEdge(e, v)
	if err != nil {
		return nil, err
	}
	j.log = append(j.log, journalEntry{added: res, removed: old})
	return res, nil
}

// Rollback undoes every recorded edit, newest first.
func (j *journal) Rollback() {
	for i := len(j.log) - 1; i >= 0; i-- {
		entry := j.log[i]
		for _, f := range entry.added {
			j.Mesh.DeleteFace(f)
		}
		for _, f := range entry.removed {
			j.Mesh.AddFace(f.Triangle)
		}
	}
	j.log = nil
}
