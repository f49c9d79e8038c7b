package tritri

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestOverlap2DBasic(t *testing.T) {
	base := [3]model2d.Coord{model2d.XY(0, 0), model2d.XY(1, 0), model2d.XY(0, 1)}
	cases := []struct {
		name     string
		other    [3]model2d.Coord
		expected bool
	}{
		{"identical", base, true},
		{"disjoint", [3]model2d.Coord{model2d.XY(2, 2), model2d.XY(3, 2), model2d.XY(2, 3)}, false},
		{"contained", [3]model2d.Coord{model2d.XY(0.1, 0.1), model2d.XY(0.3, 0.1), model2d.XY(0.1, 0.3)}, true},
		{"container", [3]model2d.Coord{model2d.XY(-1, -1), model2d.XY(5, -1), model2d.XY(-1, 5)}, true},
		{"shared vertex", [3]model2d.Coord{model2d.XY(1, 0), model2d.XY(2, 0), model2d.XY(1, 1)}, true},
		{"vertex on edge", [3]model2d.Coord{model2d.XY(0.5, 0.5), model2d.XY(1, 1), model2d.XY(0.5, 1)}, true},
		{"near miss", [3]model2d.Coord{
			model2d.XY(0.5+1e-9, 0.5+1e-9), model2d.XY(1, 1), model2d.XY(0.6, 1),
		}, false},
		{"star", [3]model2d.Coord{model2d.XY(0.4, -0.2), model2d.XY(0.4, 0.8), model2d.XY(-0.2, 0.2)}, true},
	}
	for _, c := range cases {
		actual := Overlap2D(base[0], base[1], base[2], c.other[0], c.other[1], c.other[2])
		if actual != c.expected {
			t.Errorf("%s: expected %v but got %v", c.name, c.expected, actual)
		}
		// Swapped and reversed inputs must agree.
		actual = Overlap2D(c.other[2], c.other[1], c.other[0], base[0], base[1], base[2])
		if actual != c.expected {
			t.Errorf("%s (swapped): expected %v but got %v", c.name, c.expected, actual)
		}
	}
}

func TestOverlap3DSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	var numOverlaps int
	for i := 0; i < 5000; i++ {
		t1 := randomTriangle(r, 1)
		t2 := randomTriangle(r, 1)
		o1 := Overlap3D(t1[0], t1[1], t1[2], t2[0], t2[1], t2[2])
		o2 := Overlap3D(t2[0], t2[1], t2[2], t1[0], t1[1], t1[2])
		if o1 != o2 {
			t.Fatalf("asymmetric result for %v and %v: %v vs %v", t1, t2, o1, o2)
		}
		if o1 {
			numOverlaps++
		}
	}
	if numOverlaps == 0 {
		t.Fatal("expected some random triangles to overlap")
	}
}

func TestOverlap3DSharedElements(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		t1 := randomTriangle(r, 1)
		t2 := randomTriangle(r, 1)

		// Shared vertex.
		t2[0] = t1[i%3]
		if !TriangleOverlap(t1, t2) || !TriangleOverlap(t2, t1) {
			t.Fatalf("triangles sharing a vertex should overlap: %v %v", t1, t2)
		}

		// Shared edge.
		t2[1] = t1[(i+1)%3]
		if !TriangleOverlap(t1, t2) || !TriangleOverlap(t2, t1) {
			t.Fatalf("triangles sharing an edge should overlap: %v %v", t1, t2)
		}
	}
}

func TestCoplanarMatches2D(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	lifts := []func(c model2d.Coord) model3d.Coord3D{
		func(c model2d.Coord) model3d.Coord3D { return model3d.XYZ(c.X, c.Y, 0.3) },
		func(c model2d.Coord) model3d.Coord3D { return model3d.XYZ(-0.7, c.X, c.Y) },
		func(c model2d.Coord) model3d.Coord3D { return model3d.XYZ(c.Y, 2, c.X) },
	}
	var numOverlaps, numDisjoint int
	for i := 0; i < 3000; i++ {
		var flat [6]model2d.Coord
		for j := range flat {
			flat[j] = model2d.XY(r.Float64()*2, r.Float64()*2)
		}
		expected := Overlap2D(flat[0], flat[1], flat[2], flat[3], flat[4], flat[5])
		if expected {
			numOverlaps++
		} else {
			numDisjoint++
		}

		lift := lifts[i%len(lifts)]
		var c [6]model3d.Coord3D
		for j, x := range flat {
			c[j] = lift(x)
		}
		res := Intersect3D(c[0], c[1], c[2], c[3], c[4], c[5])
		if res.Degenerate {
			continue
		}
		if !res.Coplanar {
			t.Fatalf("expected coplanar result for %v", c)
		}
		if res.Overlap != expected {
			t.Fatalf("coplanar overlap %v disagrees with 2D overlap %v", res.Overlap, expected)
		}
		n1 := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
		n2 := c[4].Sub(c[3]).Cross(c[5].Sub(c[3]))
		if Coplanar(c[0], c[1], c[2], c[3], c[4], c[5], n1, n2) != expected {
			t.Fatal("Coplanar disagrees with 2D overlap")
		}
	}
	if numOverlaps == 0 || numDisjoint == 0 {
		t.Fatalf("unbalanced test data: %d overlaps, %d disjoint", numOverlaps, numDisjoint)
	}
}

func TestIntersect3DKnownSegment(t *testing.T) {
	res := Intersect3D(
		model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0),
		model3d.XYZ(0.25, 0.2, -1), model3d.XYZ(0.25, 0.2, 1), model3d.XYZ(0.25, 0.6, 0),
	)
	if !res.Overlap || res.Coplanar || res.Degenerate {
		t.Fatalf("unexpected result: %+v", res)
	}
	expected := [2]model3d.Coord3D{model3d.XYZ(0.25, 0.2, 0), model3d.XYZ(0.25, 0.6, 0)}
	if res.Source.Dist(expected[0]) > 1e-8 {
		expected[0], expected[1] = expected[1], expected[0]
	}
	if res.Source.Dist(expected[0]) > 1e-8 || res.Target.Dist(expected[1]) > 1e-8 {
		t.Fatalf("expected segment %v but got %v", expected, res.Segment())
	}
}

func TestIntersect3DTouchingPoint(t *testing.T) {
	res := Intersect3D(
		model3d.XYZ(-1, -1, 0), model3d.XYZ(2, -1, 0), model3d.XYZ(-1, 2, 0),
		model3d.XYZ(0.1, 0.1, 0), model3d.XYZ(0.5, 0.1, 1), model3d.XYZ(0.1, 0.5, 1),
	)
	if !res.Overlap || res.Coplanar {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Source.Dist(model3d.XYZ(0.1, 0.1, 0)) > 1e-12 || res.Target.Dist(res.Source) > 1e-12 {
		t.Fatalf("expected single touching point but got %v", res.Segment())
	}
}

func TestIntersect3DSegmentOnTriangles(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var numChecked int
	for numChecked < 500 {
		t1 := randomTriangle(r, 1)
		t2 := randomTriangle(r, 1)
		if t1.Area() < 0.01 || t2.Area() < 0.01 {
			continue
		}
		if math.Abs(t1.Normal().Dot(t2.Normal())) > 0.95 {
			continue
		}
		res := TriangleIntersect(t1, t2)
		if !res.Overlap || res.Coplanar {
			continue
		}
		numChecked++
		for _, p := range []model3d.Coord3D{res.Source, res.Target} {
			for _, tri := range []*model3d.Triangle{t1, t2} {
				if d := math.Abs(p.Sub(tri[0]).Dot(tri.Normal())); d > 1e-8 {
					t.Fatalf("point %v is %e off the plane of %v", p, d, tri)
				}
				bary := barycentric(tri, p)
				var sum float64
				for _, b := range bary {
					if b < -1e-6 || b > 1+1e-6 {
						t.Fatalf("point %v outside of %v: %v", p, tri, bary)
					}
					sum += b
				}
				if math.Abs(sum-1) > 1e-6 {
					t.Fatalf("barycentric sum should be 1 but got %f", sum)
				}
			}
		}
	}
}

func TestDegenerateTriangles(t *testing.T) {
	line := [3]model3d.Coord3D{model3d.XYZ(0, 0, 0), model3d.XYZ(1, 1, 1), model3d.XYZ(2, 2, 2)}
	point := [3]model3d.Coord3D{model3d.XYZ(0.2, 0.2, 0), model3d.XYZ(0.2, 0.2, 0), model3d.XYZ(0.2, 0.2, 0)}
	good := [3]model3d.Coord3D{model3d.XYZ(-1, -1, 0), model3d.XYZ(3, -1, 0), model3d.XYZ(-1, 3, 0)}
	for _, bad := range [][3]model3d.Coord3D{line, point} {
		res := Intersect3D(bad[0], bad[1], bad[2], good[0], good[1], good[2])
		if !res.Degenerate || res.Overlap {
			t.Errorf("expected degenerate non-overlap but got %+v", res)
		}
		res = Intersect3D(good[0], good[1], good[2], bad[0], bad[1], bad[2])
		if !res.Degenerate || res.Overlap {
			t.Errorf("expected degenerate non-overlap but got %+v", res)
		}
	}
	if Overlap2D(
		model2d.XY(0, 0), model2d.XY(1, 1), model2d.XY(2, 2),
		model2d.XY(0, 0), model2d.XY(1, 0), model2d.XY(0, 1),
	) {
		t.Error("degenerate 2D triangle should not overlap")
	}
}

func randomTriangle(r *rand.Rand, size float64) *model3d.Triangle {
	var res model3d.Triangle
	for i := range res {
		res[i] = model3d.XYZ(r.Float64(), r.Float64(), r.Float64()).Scale(size)
	}
	return &res
}

func barycentric(t *model3d.Triangle, p model3d.Coord3D) [3]float64 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	denom := n.Dot(n)
	var res [3]float64
	for i := 0; i < 3; i++ {
		a := t[(i+1)%3]
		b := t[(i+2)%3]
		res[i] = b.Sub(a).Cross(p.Sub(a)).Dot(n) / denom
	}
	return res
}
