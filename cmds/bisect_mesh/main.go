package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/meshop/meshop"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	point := CoordFlag{}
	normal := CoordFlag{Coord: model3d.Z(1)}
	var epsilon float64
	var weldDist float64
	var fill bool
	flag.Var(&point, "point", "a point on the cutting plane, as x,y,z")
	flag.Var(&normal, "normal", "the cutting plane normal, as x,y,z")
	flag.Float64Var(&epsilon, "epsilon", meshop.DefaultEpsilon,
		"distance within which vertices are considered on the plane")
	flag.Float64Var(&weldDist, "weld", 0, "if positive, weld vertices within this distance first")
	flag.BoolVar(&fill, "fill", false, "cap the cut on each half")
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: bisect_mesh [flags] <input.stl> <above.stl> <below.stl>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath, abovePath, belowPath := args[0], args[1], args[2]

	log.Println("Loading mesh...")
	f, err := os.Open(inputPath)
	essentials.Must(err)
	inputTris, err := model3d.ReadSTL(f)
	f.Close()
	essentials.Must(err)
	log.Printf("Loaded %d triangles", len(inputTris))

	if weldDist > 0 {
		log.Println("Welding vertices...")
		welded := model3d.NewMeshTriangles(inputTris)
		out, err := meshop.Run(meshop.NewWeld(weldDist), meshop.NewTriangleMesh(welded))
		essentials.Must(err)
		inputTris = welded.TriangleSlice()
		removed, _ := meshop.Get[meshop.IntValue](out, "num_removed_faces")
		targets, _ := meshop.Get[meshop.ElementMapValue](out, "targetmap")
		log.Printf("Merged %d vertices and removed %d faces", len(targets), removed)
	}

	for _, side := range []struct {
		Path       string
		ClearAbove bool
		Name       string
	}{
		{Path: abovePath, ClearAbove: false, Name: "above"},
		{Path: belowPath, ClearAbove: true, Name: "below"},
	} {
		log.Printf("Cutting %s half...", side.Name)
		mesh := model3d.NewMesh()
		for _, t := range inputTris {
			tCopy := *t
			mesh.Add(&tCopy)
		}
		out := cutHalf(mesh, point.Coord, normal.Coord, epsilon, side.ClearAbove, fill)
		numSplit, _ := meshop.Get[meshop.IntValue](out, "num_split_edges")
		cutFaces, _ := meshop.Get[meshop.FaceSliceValue](out, "cut_faces")
		log.Printf(" - split %d edges, %d new faces, %d faces total", numSplit, len(cutFaces),
			mesh.NumTriangles())
		essentials.Must(mesh.SaveGroupedSTL(side.Path))
	}
}

func cutHalf(mesh *model3d.Mesh, point, normal model3d.Coord3D, eps float64, clearAbove,
	fill bool) *meshop.SlotStore {
	tm := meshop.NewTriangleMesh(mesh)
	op := meshop.NewBisect()
	op.Inputs().Set("plane_point", meshop.Vec3Value(point))
	op.Inputs().Set("plane_normal", meshop.Vec3Value(normal))
	op.Inputs().Set("epsilon", meshop.FloatValue(eps))
	op.Inputs().Set("clear_above", meshop.BoolValue(clearAbove))
	op.Inputs().Set("clear_below", meshop.BoolValue(!clearAbove))
	out, err := meshop.Run(op, tm)
	essentials.Must(err)

	if fill {
		edges, _ := meshop.Get[meshop.EdgeSliceValue](out, "cut_edges")
		capNormal := normal
		if !clearAbove {
			capNormal = normal.Scale(-1)
		}
		fillOp := meshop.NewFill(edges)
		fillOp.Inputs().Set("normal", meshop.Vec3Value(capNormal))
		fillOut, err := meshop.Run(fillOp, tm)
		essentials.Must(err)
		numLoops, _ := meshop.Get[meshop.IntValue](fillOut, "num_loops")
		log.Printf(" - filled %d loops", numLoops)
	}
	return out
}

// CoordFlag is a flag.Value holding a comma-separated 3D coordinate.
type CoordFlag struct {
	Coord model3d.Coord3D
}

func (c *CoordFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", c.Coord.X, c.Coord.Y, c.Coord.Z)
}

func (c *CoordFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return errors.Errorf("expected x,y,z but got %q", s)
	}
	var values [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return errors.Wrapf(err, "parse coordinate %q", s)
		}
		values[i] = v
	}
	c.Coord = model3d.XYZ(values[0], values[1], values[2])
	return nil
}
