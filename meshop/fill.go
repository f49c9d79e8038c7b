package meshop

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// Fill caps closed loops of edges with triangle fans around each loop's
// centroid. The fans are only correct for loops that are star-shaped around
// their centroid, such as the convex loops left by cutting a convex mesh.
//
// Inputs:
//
//   - edges (EdgeSlice, required): edges forming one or more closed loops.
//   - normal (Vec3): if set, the new faces are oriented to face this way.
//
// Outputs:
//
//   - faces (FaceSlice): the new faces.
//   - num_loops (Int): the number of loops that were filled.
type Fill struct {
	operatorState
}

func NewFill(edges []EdgeRef) *Fill {
	f := &Fill{}
	f.inputs.Set("edges", EdgeSliceValue(edges))
	return f
}

func (f *Fill) Name() string {
	return "fill"
}

func (f *Fill) Execute(m Mesh) error {
	if err := f.begin(f.Name()); err != nil {
		return err
	}
	edges, err := Require[EdgeSliceValue](&f.inputs, "edges")
	if err != nil {
		return errors.Wrap(err, "fill")
	}
	normal, err := Optional(&f.inputs, "normal", Vec3Value{})
	if err != nil {
		return errors.Wrap(err, "fill")
	}
	loops, err := edgeLoops(edges)
	if err != nil {
		return errors.Wrap(err, "fill")
	}

	var faces FaceSliceValue
	for _, loop := range loops {
		center := model3d.Coord3D{}
		for _, c := range loop {
			center = center.Add(c)
		}
		center = center.Scale(1 / float64(len(loop)))

		if normal != (Vec3Value{}) {
			var area model3d.Coord3D
			for i, c := range loop {
				next := loop[(i+1)%len(loop)]
				area = area.Add(c.Sub(center).Cross(next.Sub(center)))
			}
			if area.Dot(normal.Coord()) < 0 {
				for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
					loop[i], loop[j] = loop[j], loop[i]
				}
			}
		}

		for i, c := range loop {
			next := loop[(i+1)%len(loop)]
			faces = append(faces, m.AddFace(&model3d.Triangle{center, c, next}))
		}
	}
	f.outputs.Set("faces", faces)
	f.outputs.Set("num_loops", IntValue(len(loops)))
	return nil
}

// edgeLoops chains edges into closed loops of vertices.
func edgeLoops(edges []EdgeRef) ([][]model3d.Coord3D, error) {
	unique := map[EdgeRef]bool{}
	neighbors := map[model3d.Coord3D][]model3d.Coord3D{}
	for _, e := range edges {
		e = NewEdgeRef(e.Segment[0], e.Segment[1])
		if unique[e] {
			continue
		}
		if e.Segment[0] == e.Segment[1] {
			return nil, errors.Wrapf(ErrDegenerateGeometry, "zero-length edge at %v", e.Segment[0])
		}
		unique[e] = true
		p1, p2 := e.Segment[0], e.Segment[1]
		neighbors[p1] = append(neighbors[p1], p2)
		neighbors[p2] = append(neighbors[p2], p1)
	}

	starts := make([]model3d.Coord3D, 0, len(neighbors))
	for c, n := range neighbors {
		if len(n) != 2 {
			return nil, errors.Wrapf(ErrDegenerateGeometry,
				"edges do not form closed loops: vertex %v has %d neighbors", c, len(n))
		}
		starts = append(starts, c)
	}
	slices.SortFunc(starts, coordLess)

	visited := map[model3d.Coord3D]bool{}
	var loops [][]model3d.Coord3D
	for _, start := range starts {
		if visited[start] {
			continue
		}
		loop := []model3d.Coord3D{start}
		visited[start] = true
		prev, cur := start, neighbors[start][0]
		for cur != start {
			loop = append(loop, cur)
			visited[cur] = true
			next := neighbors[cur][0]
			if next == prev {
				next = neighbors[cur][1]
			}
			prev, cur = cur, next
		}
		loops = append(loops, loop)
	}
	return loops, nil
}
