package bvh

const noChild = -1

type node[T Float, V Vector[T]] struct {
	box Box[T, V]
	// left and right are node indices for inner nodes and noChild for leaves.
	left, right int
	// begin and end delimit the dataset range of a leaf.
	begin, end int
}

// Tree is a binary bounding volume hierarchy over the indices of a Dataset. Every node box contains the
// boxes of all elements below it; leaves own contiguous, non-overlapping index ranges which together
// cover the whole dataset.
//
// A Tree holds indices only. It is immutable once built and safe for concurrent reads.
type Tree[T Float, V Vector[T]] struct {
	nodes []node[T, V]
	depth int
}

// Root returns the index of the root node, or -1 for an empty tree.
func (t *Tree[T, V]) Root() int {
	if t.IsEmpty() {
		return -1
	}
	return 0
}

// IsEmpty reports whether the tree has no root.
func (t *Tree[T, V]) IsEmpty() bool {
	return t == nil || len(t.nodes) == 0
}

// Len returns the number of nodes.
func (t *Tree[T, V]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Depth returns the number of levels below the root; a tree made of a single leaf has depth 0.
func (t *Tree[T, V]) Depth() int {
	if t == nil {
		return 0
	}
	return t.depth
}

// Leaves returns the number of leaf nodes.
func (t *Tree[T, V]) Leaves() int {
	if t == nil {
		return 0
	}
	count := 0
	for i := range t.nodes {
		if t.nodes[i].left == noChild {
			count++
		}
	}
	return count
}

// IsLeaf reports whether node n is a leaf.
func (t *Tree[T, V]) IsLeaf(n int) bool {
	return t.nodes[n].left == noChild
}

// Box returns the aggregate box of node n.
func (t *Tree[T, V]) Box(n int) Box[T, V] {
	return t.nodes[n].box
}

// Children returns the child node indices of inner node n, or (-1, -1) for a leaf.
func (t *Tree[T, V]) Children(n int) (int, int) {
	return t.nodes[n].left, t.nodes[n].right
}

// Range returns the dataset index range [begin, end) of leaf n. Inner nodes report the range covered by
// their descendants.
func (t *Tree[T, V]) Range(n int) (int, int) {
	return t.nodes[n].begin, t.nodes[n].end
}
