package meshop

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/meshop/spatial"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// Weld merges vertices that are within a distance of each other.
//
// Vertices are visited in a fixed order, and each vertex that has not been
// merged yet absorbs the unmerged vertices near it. Faces that collapse are
// removed.
//
// Inputs:
//
//   - dist (Float, required): the maximum distance between merged vertices.
//
// Outputs:
//
//   - targetmap (ElementMap): each merged vertex mapped to the vertex that
//     replaced it.
//   - num_removed_faces (Int): the number of collapsed faces removed.
type Weld struct {
	operatorState
}

func NewWeld(dist float64) *Weld {
	w := &Weld{}
	w.inputs.Set("dist", FloatValue(dist))
	return w
}

func (w *Weld) Name() string {
	return "weld"
}

func (w *Weld) Execute(m Mesh) error {
	if err := w.begin(w.Name()); err != nil {
		return err
	}
	dist, err := Require[FloatValue](&w.inputs, "dist")
	if err != nil {
		return errors.Wrap(err, "weld")
	}
	if dist < 0 || math.IsNaN(float64(dist)) || math.IsInf(float64(dist), 0) {
		return errors.Errorf("weld: distance must be finite and non-negative, got %f",
			float64(dist))
	}

	faces := m.Faces()
	slices.SortFunc(faces, faceLess)
	targets, err := weldTargets(faceVertices(faces), float64(dist))
	if err != nil {
		return errors.Wrap(err, "weld")
	}

	var numRemoved int
	for _, f := range faces {
		var changed bool
		newTri := *f.Triangle
		for i, c := range newTri {
			if target, ok := targets[c]; ok {
				newTri[i] = target
				changed = true
			}
		}
		if !changed {
			continue
		}
		m.DeleteFace(f)
		if newTri[0] == newTri[1] || newTri[1] == newTri[2] || newTri[2] == newTri[0] {
			numRemoved++
			continue
		}
		m.AddFace(&newTri)
	}

	targetMap := ElementMapValue{}
	for source, target := range targets {
		targetMap[VertexRef{source}] = VertexRef{target}
	}
	w.outputs.Set("targetmap", targetMap)
	w.outputs.Set("num_removed_faces", IntValue(numRemoved))
	return nil
}

func faceVertices(faces []FaceRef) []model3d.Coord3D {
	seen := map[model3d.Coord3D]bool{}
	var res []model3d.Coord3D
	for _, f := range faces {
		for _, c := range f.Triangle {
			if !seen[c] {
				seen[c] = true
				res = append(res, c)
			}
		}
	}
	slices.SortFunc(res, coordLess)
	return res
}

// weldTargets buckets the vertices in the XY plane and finds, for every
// vertex to be merged, the vertex it merges into.
func weldTargets(vertices []model3d.Coord3D, dist float64) (map[model3d.Coord3D]model3d.Coord3D, error) {
	res := map[model3d.Coord3D]model3d.Coord3D{}
	if len(vertices) == 0 {
		return res, nil
	}

	min, max := vertices[0], vertices[0]
	for _, c := range vertices {
		min = min.Min(c)
		max = max.Max(c)
	}
	size := model2d.XY(max.X-min.X, max.Y-min.Y)
	if size.X <= 0 {
		size.X = 1
	}
	if size.Y <= 0 {
		size.Y = 1
	}
	grid := spatial.NewBucketGrid[int]()
	grid.SetOrigin(model2d.XY(min.X, min.Y))
	grid.SetSize(size)
	if err := grid.CreateDimension(len(vertices)); err != nil {
		return nil, err
	}
	for i, c := range vertices {
		if err := grid.AddElement(i, model2d.XY(c.X, c.Y)); err != nil {
			return nil, err
		}
	}

	merged := make([]bool, len(vertices))
	kept := make([]bool, len(vertices))
	for i, c := range vertices {
		if merged[i] {
			continue
		}
		kept[i] = true
		neighbors := grid.Nearby(model2d.XY(c.X, c.Y), dist)
		for _, j := range neighbors {
			if merged[j] || kept[j] || vertices[j].Dist(c) > dist {
				continue
			}
			merged[j] = true
			res[vertices[j]] = c
		}
	}
	return res, nil
}
