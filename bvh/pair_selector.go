package bvh

import "sort"

// TreeSet is an ElementSet that owns the tree built over it.
type TreeSet[E any, T Float, V Vector[T]] interface {
	ElementSet[E, T, V]
	Build() *Tree[T, V]
}

// Pair is a candidate pair of elements whose boxes overlap. The indices refer to the dataset order of
// each set at the time the pair was selected.
type Pair[E1, E2 any] struct {
	First       E1
	Second      E2
	FirstIndex  int
	SecondIndex int
}

// PairSelector collects every pair of elements from two sets whose boxes overlap. It is the PairVisitor
// it hands to TraversePairs.
//
// In same mode the selector intersects a set against itself: pairs are reported with FirstIndex strictly
// below SecondIndex, so each unordered pair appears once and no element is paired with itself. Same mode
// has no effect when the two sets are distinct.
type PairSelector[E1, E2 any, T Float, V Vector[T]] struct {
	set1  TreeSet[E1, T, V]
	set2  TreeSet[E2, T, V]
	same  bool
	pairs []Pair[E1, E2]

	// selfTree is set during Select when same mode is on and both sides share one tree.
	selfTree bool
}

// NewPairSelector returns a selector intersecting set1 against set2.
func NewPairSelector[E1, E2 any, T Float, V Vector[T]](set1 TreeSet[E1, T, V], set2 TreeSet[E2, T, V]) *PairSelector[E1, E2, T, V] {
	return &PairSelector[E1, E2, T, V]{set1: set1, set2: set2}
}

// NewSelfPairSelector returns a selector intersecting set against itself in same mode.
func NewSelfPairSelector[E any, T Float, V Vector[T]](set TreeSet[E, T, V]) *PairSelector[E, E, T, V] {
	return &PairSelector[E, E, T, V]{set1: set, set2: set, same: true}
}

// SetSame toggles same mode.
func (ps *PairSelector[E1, E2, T, V]) SetSame(same bool) {
	ps.same = same
}

// IsSame reports whether same mode is on.
func (ps *PairSelector[E1, E2, T, V]) IsSame() bool {
	return ps.same
}

// Select builds both sets if needed, traverses their trees and appends every overlapping pair to the
// accumulated results. It returns the number of pairs added.
func (ps *PairSelector[E1, E2, T, V]) Select() int {
	tree1 := ps.set1.Build()
	tree2 := ps.set2.Build()
	ps.selfTree = ps.same && tree1 == tree2
	return tree1.TraversePairs(tree2, ps)
}

// RejectNode rejects node pairs whose boxes do not overlap.
func (ps *PairSelector[E1, E2, T, V]) RejectNode(box1, box2 Box[T, V]) bool {
	return box1.IsOut(box2)
}

// RejectElement rejects element pairs whose exact boxes do not overlap, and in same mode every pair not
// ordered by index when both sides are one set.
func (ps *PairSelector[E1, E2, T, V]) RejectElement(index1, index2 int) bool {
	if ps.selfTree && index1 >= index2 {
		return true
	}
	return ps.set1.Box(index1).IsOut(ps.set2.Box(index2))
}

// Accept records the pair at the given indices.
func (ps *PairSelector[E1, E2, T, V]) Accept(index1, index2 int) {
	ps.pairs = append(ps.pairs, Pair[E1, E2]{
		First:       ps.set1.Element(index1),
		Second:      ps.set2.Element(index2),
		FirstIndex:  index1,
		SecondIndex: index2,
	})
}

// Pairs returns the accumulated pairs in insertion order, or index order after Sort.
func (ps *PairSelector[E1, E2, T, V]) Pairs() []Pair[E1, E2] {
	return ps.pairs
}

// Len returns the number of accumulated pairs.
func (ps *PairSelector[E1, E2, T, V]) Len() int {
	return len(ps.pairs)
}

// Sort orders the accumulated pairs by first index, then second index.
func (ps *PairSelector[E1, E2, T, V]) Sort() {
	sort.Slice(ps.pairs, func(i, j int) bool {
		if ps.pairs[i].FirstIndex != ps.pairs[j].FirstIndex {
			return ps.pairs[i].FirstIndex < ps.pairs[j].FirstIndex
		}
		return ps.pairs[i].SecondIndex < ps.pairs[j].SecondIndex
	})
}

// Clear drops the accumulated pairs. The trees are left as they are.
func (ps *PairSelector[E1, E2, T, V]) Clear() {
	ps.pairs = ps.pairs[:0]
}
