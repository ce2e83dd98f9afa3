package bvh

// PairVisitor drives a dual tree traversal. RejectNode prunes pairs of subtrees, RejectElement filters
// individual pairs of elements from two leaves, and Accept receives every pair that passed both.
type PairVisitor[T Float, V Vector[T]] interface {
	RejectNode(box1, box2 Box[T, V]) bool
	RejectElement(index1, index2 int) bool
	Accept(index1, index2 int)
}

// SameTreeVisitor is an optional PairVisitor extension. When IsSame reports true and both sides of the
// traversal are the same tree, the traversal only visits each unordered pair of subtrees once.
type SameTreeVisitor interface {
	IsSame() bool
}

type nodePair struct {
	n1, n2 int
}

// TraversePairs walks this tree against other and returns the number of accepted element pairs. Indices
// passed to the visitor refer to this tree's dataset first and other's second. The traversal may be
// stopped early with a visitor implementing Stopper.
func (t *Tree[T, V]) TraversePairs(other *Tree[T, V], visitor PairVisitor[T, V]) int {
	if t.IsEmpty() || other.IsEmpty() {
		return 0
	}
	stopper, stoppable := visitor.(Stopper)
	same := false
	if sv, ok := visitor.(SameTreeVisitor); ok && sv.IsSame() && t == other {
		same = true
	}

	accepted := 0
	stack := make([]nodePair, 0, 4*(t.depth+other.depth)+4)
	stack = append(stack, nodePair{t.Root(), other.Root()})
	for len(stack) > 0 {
		if stoppable && stopper.Stop() {
			break
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd1, nd2 := &t.nodes[p.n1], &other.nodes[p.n2]
		if visitor.RejectNode(nd1.box, nd2.box) {
			continue
		}

		leaf1, leaf2 := nd1.left == noChild, nd2.left == noChild
		switch {
		case leaf1 && leaf2:
			for i := nd1.begin; i < nd1.end; i++ {
				for j := nd2.begin; j < nd2.end; j++ {
					if visitor.RejectElement(i, j) {
						continue
					}
					visitor.Accept(i, j)
					accepted++
				}
			}
		case same && p.n1 == p.n2:
			// a node against itself: the mirrored (right, left) pair is implied by (left, right)
			stack = append(stack,
				nodePair{nd1.right, nd1.right},
				nodePair{nd1.left, nd1.right},
				nodePair{nd1.left, nd1.left},
			)
		case leaf1:
			stack = append(stack, nodePair{p.n1, nd2.right}, nodePair{p.n1, nd2.left})
		case leaf2:
			stack = append(stack, nodePair{nd1.right, p.n2}, nodePair{nd1.left, p.n2})
		default:
			stack = append(stack,
				nodePair{nd1.right, nd2.right},
				nodePair{nd1.right, nd2.left},
				nodePair{nd1.left, nd2.right},
				nodePair{nd1.left, nd2.left},
			)
		}
	}
	return accepted
}
