package bvh

// Dataset is the minimal view of a collection of bounded elements that a Builder needs. Indices range
// over [0, Size()).
//
// Builders physically reorder a Dataset through Swap, so the element stored at a given index is not
// stable across a build. Code that needs the caller's element after a build must resolve it through the
// dataset (see ElementSet) rather than remember raw indices from before the build.
type Dataset[T Float, V Vector[T]] interface {
	Size() int
	Box(i int) Box[T, V]
	Center(i, axis int) T
	Swap(i, j int)
}

// ElementSet is a Dataset that can resolve an index back to the caller's element.
type ElementSet[E any, T Float, V Vector[T]] interface {
	Dataset[T, V]
	Element(i int) E
}
