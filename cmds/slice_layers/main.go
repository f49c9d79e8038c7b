package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	svg "github.com/ajstarks/svgo"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/meshop/meshop"
	"github.com/unixpickle/meshop/spatial"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var step float64
	var scale float64
	var strokeWidth float64
	flag.Float64Var(&step, "step", 0.1, "thickness of each layer")
	flag.Float64Var(&scale, "scale", 100, "SVG units per mesh unit")
	flag.Float64Var(&strokeWidth, "stroke-width", 1, "width of outline strokes in SVG units")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: slice_layers [flags] <input.stl> <output_dir>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath, outputDir := args[0], args[1]

	log.Println("Loading mesh...")
	f, err := os.Open(inputPath)
	essentials.Must(err)
	inputTris, err := model3d.ReadSTL(f)
	f.Close()
	essentials.Must(err)
	mesh := model3d.NewMeshTriangles(inputTris)
	min, max := mesh.Min(), mesh.Max()

	log.Println("Indexing layers...")
	index, err := spatial.NewZLayerIndex(min.Z, max.Z, step)
	essentials.Must(err)
	index.Build(mesh)
	index.Sort(func(t1, t2 *model3d.Triangle) bool {
		return t1.Min().Z < t2.Min().Z
	})
	if !index.HasIndex() {
		log.Fatal("mesh has no triangles")
	}

	essentials.Must(os.MkdirAll(outputDir, 0755))
	log.Printf("Writing %d layers...", index.NumBuckets())
	for i := 0; i < index.NumBuckets(); i++ {
		z := index.LayerZ(i)
		tris, err := index.TrianglesByZ(z)
		essentials.Must(err)
		plane := meshop.Plane{Point: model3d.Z(z), Normal: model3d.Z(1)}
		var segments []model3d.Segment
		for _, t := range tris {
			if seg, ok := plane.Section(t, meshop.DefaultEpsilon); ok {
				segments = append(segments, seg)
			}
		}
		outPath := filepath.Join(outputDir, fmt.Sprintf("layer_%04d.svg", i))
		essentials.Must(writeLayer(outPath, segments, min, max, scale, strokeWidth))
	}
}

func writeLayer(path string, segments []model3d.Segment, min, max model3d.Coord3D, scale,
	strokeWidth float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	size := max.Sub(min).Scale(scale)
	canvas := svg.New(f)
	canvas.Start(int(size.X)+1, int(size.Y)+1)
	style := fmt.Sprintf("stroke:black;stroke-width:%g;stroke-linecap:round", strokeWidth)
	for _, seg := range segments {
		p1 := seg[0].Sub(min).Scale(scale)
		p2 := seg[1].Sub(min).Scale(scale)
		// SVG's Y axis points down.
		canvas.Line(
			int(p1.X), int(size.Y-p1.Y),
			int(p2.X), int(size.Y-p2.Y),
			style,
		)
	}
	canvas.End()
	return nil
}
