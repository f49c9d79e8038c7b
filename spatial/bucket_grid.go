package spatial

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
)

// ErrDomainViolation is returned when a coordinate falls outside the domain
// an index was configured for.
var ErrDomainViolation = errors.New("coordinate outside of index domain")

// A BucketGrid buckets elements by their position in a rectangular 2D
// domain, for proximity queries.
//
// Configure the domain with SetOrigin and SetSize, call CreateDimension, and
// then add elements. Elements are stored in one flat buffer sorted by cell,
// and each cell is a range of that buffer.
type BucketGrid[T any] struct {
	origin     model2d.Coord
	size       model2d.Coord
	cols       int
	rows       int
	resolution model2d.Coord

	pending []gridEntry[T]
	sorted  []gridEntry[T]
	starts  []int
	dirty   bool
}

type gridEntry[T any] struct {
	Cell  int
	Coord model2d.Coord
	Value T
}

func NewBucketGrid[T any]() *BucketGrid[T] {
	return &BucketGrid[T]{}
}

// SetOrigin sets the minimum corner of the domain.
func (b *BucketGrid[T]) SetOrigin(c model2d.Coord) {
	b.origin = c
}

// SetSize sets the extent of the domain along each axis.
func (b *BucketGrid[T]) SetSize(c model2d.Coord) {
	b.size = c
}

// CreateDimension chooses the number of rows and columns so that there are
// roughly targetCount cells, with more cells along the longer axis.
//
// Any elements already in the grid are removed.
func (b *BucketGrid[T]) CreateDimension(targetCount int) error {
	if targetCount < 1 {
		return errors.Errorf("create dimension: invalid target count %d", targetCount)
	}
	if !(b.size.X > 0 && b.size.Y > 0) || math.IsInf(b.size.X, 0) || math.IsInf(b.size.Y, 0) {
		return errors.Errorf("create dimension: invalid domain size %v", b.size)
	}
	aspect := b.size.X / b.size.Y
	b.rows = int(math.Round(math.Sqrt(float64(targetCount) / aspect)))
	if b.rows < 1 {
		b.rows = 1
	}
	b.cols = int(math.Round(float64(targetCount) / float64(b.rows)))
	if b.cols < 1 {
		b.cols = 1
	}
	b.resolution = model2d.XY(b.size.X/float64(b.cols), b.size.Y/float64(b.rows))
	b.Reset()
	return nil
}

// Dims returns the number of columns and rows.
func (b *BucketGrid[T]) Dims() (cols, rows int) {
	return b.cols, b.rows
}

// Resolution returns the size of a single cell.
func (b *BucketGrid[T]) Resolution() model2d.Coord {
	return b.resolution
}

// NumElements returns the number of elements in the grid.
func (b *BucketGrid[T]) NumElements() int {
	return len(b.pending)
}

// Reset removes all elements but keeps the dimensions.
func (b *BucketGrid[T]) Reset() {
	b.pending = nil
	b.sorted = nil
	b.starts = nil
	b.dirty = true
}

// CellIndex finds the cell containing c.
//
// The domain is closed, so coordinates on the maximum edges belong to the
// last row or column. Coordinates outside the domain give an error wrapping
// ErrDomainViolation.
func (b *BucketGrid[T]) CellIndex(c model2d.Coord) (col, row int, err error) {
	if b.cols == 0 {
		return 0, 0, errors.New("cell index: dimension not created")
	}
	max := b.origin.Add(b.size)
	if !(c.X >= b.origin.X && c.X <= max.X && c.Y >= b.origin.Y && c.Y <= max.Y) {
		return 0, 0, errors.Wrapf(ErrDomainViolation, "cell index: %v not in [%v, %v]", c, b.origin, max)
	}
	col = clampIndex(int((c.X-b.origin.X)/b.resolution.X), b.cols)
	row = clampIndex(int((c.Y-b.origin.Y)/b.resolution.Y), b.rows)
	return
}

// AddElement buckets value into the cell containing c.
func (b *BucketGrid[T]) AddElement(value T, c model2d.Coord) error {
	col, row, err := b.CellIndex(c)
	if err != nil {
		return errors.Wrap(err, "add element")
	}
	b.pending = append(b.pending, gridEntry[T]{
		Cell:  row*b.cols + col,
		Coord: c,
		Value: value,
	})
	b.dirty = true
	return nil
}

// Cell returns the elements in a cell, in insertion order.
func (b *BucketGrid[T]) Cell(col, row int) []T {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		panic("cell coordinates out of range")
	}
	entries := b.cellEntries(row*b.cols + col)
	res := make([]T, len(entries))
	for i, e := range entries {
		res[i] = e.Value
	}
	return res
}

// Query returns the elements in the cell containing c.
func (b *BucketGrid[T]) Query(c model2d.Coord) ([]T, error) {
	col, row, err := b.CellIndex(c)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	return b.Cell(col, row), nil
}

// Nearby returns the elements within radius of center.
//
// The center may lie outside of the domain. A non-finite center or a NaN or
// negative radius matches nothing.
func (b *BucketGrid[T]) Nearby(center model2d.Coord, radius float64) []T {
	if b.cols == 0 || !finite(center.X) || !finite(center.Y) || math.IsNaN(radius) ||
		radius < 0 {
		return nil
	}
	minCol := floorIndex((center.X-radius-b.origin.X)/b.resolution.X, b.cols)
	maxCol := floorIndex((center.X+radius-b.origin.X)/b.resolution.X, b.cols)
	minRow := floorIndex((center.Y-radius-b.origin.Y)/b.resolution.Y, b.rows)
	maxRow := floorIndex((center.Y+radius-b.origin.Y)/b.resolution.Y, b.rows)

	var res []T
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range b.cellEntries(row*b.cols + col) {
				if e.Coord.Dist(center) <= radius {
					res = append(res, e.Value)
				}
			}
		}
	}
	return res
}

func (b *BucketGrid[T]) cellEntries(cell int) []gridEntry[T] {
	b.compact()
	return b.sorted[b.starts[cell]:b.starts[cell+1]]
}

// compact sorts pending entries into per-cell ranges with a counting sort,
// keeping insertion order within each cell.
func (b *BucketGrid[T]) compact() {
	if !b.dirty {
		return
	}
	numCells := b.cols * b.rows
	b.starts = make([]int, numCells+1)
	for _, e := range b.pending {
		b.starts[e.Cell+1]++
	}
	for i := 1; i <= numCells; i++ {
		b.starts[i] += b.starts[i-1]
	}
	offsets := append([]int{}, b.starts[:numCells]...)
	b.sorted = make([]gridEntry[T], len(b.pending))
	for _, e := range b.pending {
		b.sorted[offsets[e.Cell]] = e
		offsets[e.Cell]++
	}
	b.dirty = false
}

func floorIndex(x float64, n int) int {
	if x < 0 || math.IsNaN(x) {
		return 0
	} else if x >= float64(n) {
		return n - 1
	}
	return int(x)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	} else if i >= n {
		return n - 1
	}
	return i
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
