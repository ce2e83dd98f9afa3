package bvh

import (
	"github.com/pkg/errors"
)

const (
	// DefaultLeafSize is the largest number of elements a leaf holds before it is split.
	DefaultLeafSize = 4
	// DefaultMaxDepth bounds the depth of built trees; ranges reaching it become leaves whatever their size.
	DefaultMaxDepth = 32
)

// Builder builds a Tree top-down over a Dataset. Ranges of at most LeafSize elements, or reaching
// MaxDepth, become leaves. Larger ranges are split at the median element center along the axis where the
// centers are most spread out, and partitioned in place with the dataset's Swap.
type Builder[T Float, V Vector[T]] struct {
	LeafSize int `json:"leaf_size"`
	MaxDepth int `json:"max_depth"`
}

// NewBuilder returns a builder with the given leaf size and maximum depth.
func NewBuilder[T Float, V Vector[T]](leafSize, maxDepth int) (*Builder[T, V], error) {
	b := &Builder[T, V]{LeafSize: leafSize, MaxDepth: maxDepth}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// DefaultBuilder returns a builder using DefaultLeafSize and DefaultMaxDepth.
func DefaultBuilder[T Float, V Vector[T]]() *Builder[T, V] {
	return &Builder[T, V]{LeafSize: DefaultLeafSize, MaxDepth: DefaultMaxDepth}
}

// Validate ensures the builder parameters can produce a tree.
func (b *Builder[T, V]) Validate() error {
	if b.LeafSize < 1 {
		return errors.Errorf("leaf size must be at least 1, got %d", b.LeafSize)
	}
	if b.MaxDepth < 1 {
		return errors.Errorf("max depth must be at least 1, got %d", b.MaxDepth)
	}
	return nil
}

// Build returns a new tree over ds. The dataset is reordered as a side effect. An empty dataset yields
// a tree with no root.
func (b *Builder[T, V]) Build(ds Dataset[T, V]) *Tree[T, V] {
	tree := &Tree[T, V]{}
	size := ds.Size()
	if size == 0 {
		return tree
	}
	leafSize := max(b.LeafSize, 1)
	tree.nodes = make([]node[T, V], 0, 2*((size+leafSize-1)/leafSize))
	b.build(ds, tree, 0, size, 0)
	return tree
}

func (b *Builder[T, V]) build(ds Dataset[T, V], tree *Tree[T, V], begin, end, depth int) int {
	idx := len(tree.nodes)
	tree.nodes = append(tree.nodes, node[T, V]{left: noChild, right: noChild, begin: begin, end: end})
	if depth > tree.depth {
		tree.depth = depth
	}

	if end-begin <= max(b.LeafSize, 1) || depth >= b.MaxDepth {
		box := EmptyBox[T, V]()
		for i := begin; i < end; i++ {
			box.Extend(ds.Box(i))
		}
		tree.nodes[idx].box = box
		return idx
	}

	mid := begin + (end-begin)/2
	if axis := splitAxis(ds, begin, end); axis >= 0 {
		selectNth(ds, begin, end, mid, axis)
	}
	left := b.build(ds, tree, begin, mid, depth+1)
	right := b.build(ds, tree, mid, end, depth+1)

	// tree.nodes may have been reallocated by the recursive calls, so index instead of holding a pointer.
	tree.nodes[idx].left = left
	tree.nodes[idx].right = right
	tree.nodes[idx].box = tree.nodes[left].box.Union(tree.nodes[right].box)
	return idx
}

// splitAxis returns the axis along which the element centers of [begin, end) are most spread out, or -1
// if they all coincide.
func splitAxis[T Float, V Vector[T]](ds Dataset[T, V], begin, end int) int {
	centers := EmptyBox[T, V]()
	for i := begin; i < end; i++ {
		if ds.Box(i).IsEmpty() {
			continue
		}
		var c V
		for axis := 0; axis < len(c); axis++ {
			c[axis] = ds.Center(i, axis)
		}
		centers.AddPoint(c)
	}
	if centers.IsEmpty() {
		return -1
	}
	axis := centers.LongestAxis()
	if centers.Extent(axis) <= 0 {
		return -1
	}
	return axis
}

// selectNth reorders [begin, end) so that the element at nth has the center it would have if the range
// were sorted along axis, with no smaller center after it and no larger one before it.
func selectNth[T Float, V Vector[T]](ds Dataset[T, V], begin, end, nth, axis int) {
	for end-begin > 1 {
		pivot := medianOfThree(
			ds.Center(begin, axis),
			ds.Center(begin+(end-begin)/2, axis),
			ds.Center(end-1, axis),
		)

		// three way partition: [begin, lt) < pivot, [lt, i) == pivot, (gt, end) > pivot
		lt, i, gt := begin, begin, end-1
		for i <= gt {
			c := ds.Center(i, axis)
			switch {
			case c < pivot:
				ds.Swap(lt, i)
				lt++
				i++
			case c > pivot:
				ds.Swap(i, gt)
				gt--
			default:
				i++
			}
		}

		switch {
		case nth < lt:
			end = lt
		case nth > gt:
			begin = gt + 1
		default:
			return
		}
	}
}

func medianOfThree[T Float](a, b, c T) T {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}
