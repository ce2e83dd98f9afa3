package bvh

// NodeVisitor drives a single tree traversal. RejectNode prunes subtrees whose aggregate box cannot hold
// anything of interest; Accept is called with the dataset index of every element of every leaf that was
// not rejected.
type NodeVisitor[T Float, V Vector[T]] interface {
	RejectNode(box Box[T, V]) bool
	Accept(index int)
}

// Ranker is an optional NodeVisitor extension. When a visitor implements it, the child with the lower
// rank is descended into first, which lets nearest-first searches shrink their radius early.
type Ranker[T Float, V Vector[T]] interface {
	Rank(box Box[T, V]) T
}

// Stopper is an optional visitor extension that ends a traversal early once Stop reports true. It is
// checked before every node visit.
type Stopper interface {
	Stop() bool
}

// Traverse walks the tree depth-first, pruning with visitor.RejectNode, and returns the number of
// elements accepted. Leaf elements are passed to Accept in dataset order, and every index is accepted at
// most once.
func (t *Tree[T, V]) Traverse(visitor NodeVisitor[T, V]) int {
	if t.IsEmpty() {
		return 0
	}
	ranker, ranked := visitor.(Ranker[T, V])
	stopper, stoppable := visitor.(Stopper)

	accepted := 0
	stack := make([]int, 0, 2*t.depth+2)
	stack = append(stack, t.Root())
	for len(stack) > 0 {
		if stoppable && stopper.Stop() {
			break
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &t.nodes[n]
		if visitor.RejectNode(nd.box) {
			continue
		}
		if nd.left == noChild {
			for i := nd.begin; i < nd.end; i++ {
				visitor.Accept(i)
				accepted++
			}
			continue
		}

		first, second := nd.left, nd.right
		if ranked && ranker.Rank(t.nodes[second].box) < ranker.Rank(t.nodes[first].box) {
			first, second = second, first
		}
		// pushed last, popped first
		stack = append(stack, second, first)
	}
	return accepted
}
