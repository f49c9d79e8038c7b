package spatial

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

func TestZLayerBuckets(t *testing.T) {
	index := testZLayerIndex(t)
	b1, err1 := index.Bucket(5.0)
	b2, err2 := index.Bucket(5.9)
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	}
	if b1 != 2 || b2 != 2 {
		t.Fatalf("expected bucket 2 but got %d and %d", b1, b2)
	}
	if n := index.NumBuckets(); n != 6 {
		t.Errorf("expected 6 buckets but got %d", n)
	}

	list1, err1 := index.TrianglesByZ(5.0)
	list2, err2 := index.TrianglesByZ(5.9)
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	}
	if len(list1) == 0 || len(list1) != len(list2) {
		t.Fatalf("mismatched lists: %v %v", list1, list2)
	}
	for i, tri := range list1 {
		if list2[i] != tri {
			t.Fatalf("mismatched triangle at %d", i)
		}
	}

	for _, z := range []float64{11, -0.5} {
		if _, err := index.HasZ(z); !errors.Is(err, ErrDomainViolation) {
			t.Errorf("expected domain violation for z=%f but got %v", z, err)
		}
		if _, err := index.TrianglesByZ(z); !errors.Is(err, ErrDomainViolation) {
			t.Errorf("expected domain violation for z=%f but got %v", z, err)
		}
	}
}

func TestZLayerBuild(t *testing.T) {
	index, err := NewZLayerIndex(0, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if index.HasIndex() {
		t.Fatal("empty index should not report HasIndex")
	}

	spanning := &model3d.Triangle{model3d.XYZ(0, 0, 1), model3d.XYZ(1, 0, 5), model3d.XYZ(0, 1, 3)}
	top := &model3d.Triangle{model3d.XYZ(0, 0, 9), model3d.XYZ(1, 0, 9), model3d.XYZ(0, 1, 9)}
	outside := &model3d.Triangle{model3d.XYZ(0, 0, 20), model3d.XYZ(1, 0, 20), model3d.XYZ(0, 1, 21)}
	index.Build(model3d.NewMeshTriangles([]*model3d.Triangle{spanning, top, outside}))
	if !index.HasIndex() {
		t.Fatal("expected HasIndex after build")
	}

	expected := map[float64][]*model3d.Triangle{
		0.5: {spanning},
		3:   {spanning},
		5.5: {spanning},
		7:   {},
		9.5: {top},
		10:  {},
	}
	for z, tris := range expected {
		actual, err := index.TrianglesByZ(z)
		if err != nil {
			t.Fatal(err)
		}
		if len(actual) != len(tris) {
			t.Errorf("z=%f: expected %d triangles but got %d", z, len(tris), len(actual))
			continue
		}
		for i, tri := range tris {
			if actual[i] != tri {
				t.Errorf("z=%f: unexpected triangle %v", z, actual[i])
			}
		}
		has, _ := index.HasZ(z)
		if has != (len(tris) > 0) {
			t.Errorf("z=%f: HasZ should be %v", z, len(tris) > 0)
		}
	}

	// Inserting again must not create duplicates.
	if err := index.Insert(spanning); err != nil {
		t.Fatal(err)
	}
	if tris, _ := index.TrianglesByZ(3); len(tris) != 1 {
		t.Errorf("expected one triangle after reinsertion but got %d", len(tris))
	}
	if err := index.Insert(outside); !errors.Is(err, ErrDomainViolation) {
		t.Errorf("expected domain violation but got %v", err)
	}
}

func TestZLayerSort(t *testing.T) {
	index := testZLayerIndex(t)
	index.Sort(func(t1, t2 *model3d.Triangle) bool {
		return t1[0].X < t2[0].X
	})
	tris, err := index.TrianglesByZ(5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(tris); i++ {
		if tris[i-1][0].X > tris[i][0].X {
			t.Fatalf("triangles not sorted at index %d", i)
		}
	}
}

func testZLayerIndex(t *testing.T) *ZLayerIndex {
	index, err := NewZLayerIndex(0, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		x := float64(9 - i)
		tri := &model3d.Triangle{
			model3d.XYZ(x, 0, float64(i)),
			model3d.XYZ(x+1, 0, float64(i)+0.5),
			model3d.XYZ(x, 1, float64(i)+1),
		}
		if err := index.Insert(tri); err != nil {
			t.Fatal(err)
		}
	}
	return index
}
