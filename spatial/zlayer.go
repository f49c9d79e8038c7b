package spatial

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// A ZLayerIndex groups triangles into horizontal layers of equal thickness,
// for slicing.
//
// A triangle is stored in every layer its Z range touches. Each layer keeps
// a set of its triangles, which prevents duplicates, and an ordered list of
// them, which can be sorted for export.
type ZLayerIndex struct {
	zMin  float64
	zMax  float64
	zStep float64

	sets  map[int]map[*model3d.Triangle]struct{}
	lists map[int][]*model3d.Triangle
}

// NewZLayerIndex creates an empty index covering [zMin, zMax] with layers
// of thickness zStep.
func NewZLayerIndex(zMin, zMax, zStep float64) (*ZLayerIndex, error) {
	if !(zStep > 0) || math.IsInf(zStep, 0) {
		return nil, errors.Errorf("new z-layer index: invalid step %f", zStep)
	}
	if !(zMin <= zMax) || math.IsInf(zMin, 0) || math.IsInf(zMax, 0) {
		return nil, errors.Errorf("new z-layer index: invalid range [%f, %f]", zMin, zMax)
	}
	return &ZLayerIndex{
		zMin:  zMin,
		zMax:  zMax,
		zStep: zStep,
		sets:  map[int]map[*model3d.Triangle]struct{}{},
		lists: map[int][]*model3d.Triangle{},
	}, nil
}

// NumBuckets returns the number of layers, including the layer that only
// contains zMax when the range is a multiple of the step.
func (z *ZLayerIndex) NumBuckets() int {
	return int(math.Floor((z.zMax-z.zMin)/z.zStep)) + 1
}

// LayerZ returns the middle of the layer with the given index, limited to
// zMax.
func (z *ZLayerIndex) LayerZ(bucket int) float64 {
	return math.Min(z.zMax, z.zMin+(float64(bucket)+0.5)*z.zStep)
}

// Bucket computes the layer index for a Z coordinate.
func (z *ZLayerIndex) Bucket(zValue float64) (int, error) {
	if !(zValue >= z.zMin && zValue <= z.zMax) {
		return 0, errors.Wrapf(ErrDomainViolation, "z=%f not in [%f, %f]", zValue, z.zMin, z.zMax)
	}
	return int(math.Floor((zValue - z.zMin) / z.zStep)), nil
}

// Build inserts every triangle of m that overlaps the Z range.
func (z *ZLayerIndex) Build(m *model3d.Mesh) {
	tris := m.TriangleSlice()
	ranges := make([][2]int, len(tris))
	essentials.ConcurrentMap(0, len(tris), func(i int) {
		first, last, ok := z.bucketRange(tris[i])
		if ok {
			ranges[i] = [2]int{first, last}
		} else {
			ranges[i] = [2]int{0, -1}
		}
	})
	for i, t := range tris {
		z.insertRange(t, ranges[i][0], ranges[i][1])
	}
}

// Insert adds t to every layer it touches.
//
// If t lies entirely outside the Z range, an error wrapping
// ErrDomainViolation is returned.
func (z *ZLayerIndex) Insert(t *model3d.Triangle) error {
	first, last, ok := z.bucketRange(t)
	if !ok {
		return errors.Wrapf(ErrDomainViolation, "insert: triangle %v outside of z range", *t)
	}
	z.insertRange(t, first, last)
	return nil
}

func (z *ZLayerIndex) insertRange(t *model3d.Triangle, first, last int) {
	for bucket := first; bucket <= last; bucket++ {
		set, ok := z.sets[bucket]
		if !ok {
			set = map[*model3d.Triangle]struct{}{}
			z.sets[bucket] = set
		}
		if _, ok := set[t]; ok {
			continue
		}
		set[t] = struct{}{}
		z.lists[bucket] = append(z.lists[bucket], t)
	}
}

func (z *ZLayerIndex) bucketRange(t *model3d.Triangle) (first, last int, ok bool) {
	minZ := math.Min(t[0].Z, math.Min(t[1].Z, t[2].Z))
	maxZ := math.Max(t[0].Z, math.Max(t[1].Z, t[2].Z))
	if maxZ < z.zMin || minZ > z.zMax {
		return 0, 0, false
	}
	first, _ = z.Bucket(math.Max(minZ, z.zMin))
	last, _ = z.Bucket(math.Min(maxZ, z.zMax))
	return first, last, true
}

// TrianglesByZ returns the triangles in the layer containing zValue.
//
// The returned slice is owned by the index and must not be modified.
func (z *ZLayerIndex) TrianglesByZ(zValue float64) ([]*model3d.Triangle, error) {
	bucket, err := z.Bucket(zValue)
	if err != nil {
		return nil, errors.Wrap(err, "triangles by z")
	}
	return z.lists[bucket], nil
}

// HasZ checks if the layer containing zValue has any triangles.
func (z *ZLayerIndex) HasZ(zValue float64) (bool, error) {
	bucket, err := z.Bucket(zValue)
	if err != nil {
		return false, errors.Wrap(err, "has z")
	}
	return len(z.sets[bucket]) > 0, nil
}

// HasIndex checks if any triangles have been inserted.
func (z *ZLayerIndex) HasIndex() bool {
	return len(z.sets) > 0 && len(z.lists) > 0
}

// Sort orders the triangles of every layer by less.
func (z *ZLayerIndex) Sort(less func(t1, t2 *model3d.Triangle) bool) {
	for _, list := range z.lists {
		slices.SortFunc(list, less)
	}
}
