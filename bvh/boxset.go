package bvh

// BoxSet is an ElementSet owning parallel slices of elements and their boxes, with a lazily built tree
// over them. Elements are appended with Add and the tree is refreshed with Build; there is no removal
// of single elements.
//
// A BoxSet is not safe for concurrent mutation. Once built it may be read by any number of goroutines
// as long as nobody calls Add, Clear, SetBuilder or Build on a dirty set in the meantime.
type BoxSet[E any, T Float, V Vector[T]] struct {
	elements []E
	boxes    []Box[T, V]

	builder *Builder[T, V]
	tree    *Tree[T, V]
	dirty   bool
}

// NewBoxSet returns an empty BoxSet using the default builder.
func NewBoxSet[E any, T Float, V Vector[T]]() *BoxSet[E, T, V] {
	return &BoxSet[E, T, V]{
		builder: DefaultBuilder[T, V](),
		dirty:   true,
	}
}

// SetBuilder replaces the policy used to build the tree; nil restores the default. The set is marked
// dirty.
func (s *BoxSet[E, T, V]) SetBuilder(builder *Builder[T, V]) {
	s.builder = builder
	s.dirty = true
}

// SetSize reserves storage for n elements. It only affects allocation.
func (s *BoxSet[E, T, V]) SetSize(n int) {
	if n <= cap(s.elements) {
		return
	}
	elements := make([]E, len(s.elements), n)
	copy(elements, s.elements)
	s.elements = elements
	boxes := make([]Box[T, V], len(s.boxes), n)
	copy(boxes, s.boxes)
	s.boxes = boxes
}

// Add appends an element with its box and marks the set dirty. It never builds.
func (s *BoxSet[E, T, V]) Add(element E, box Box[T, V]) {
	s.elements = append(s.elements, element)
	s.boxes = append(s.boxes, box)
	s.dirty = true
}

// Clear removes all elements and invalidates the tree.
func (s *BoxSet[E, T, V]) Clear() {
	var zero E
	for i := range s.elements {
		s.elements[i] = zero
	}
	s.elements = s.elements[:0]
	s.boxes = s.boxes[:0]
	s.tree = nil
	s.dirty = true
}

// IsDirty reports whether the set changed since the last Build.
func (s *BoxSet[E, T, V]) IsDirty() bool {
	return s.dirty
}

// Build (re)builds the tree if the set changed since the last build and returns it. Building reorders
// the elements of the set.
func (s *BoxSet[E, T, V]) Build() *Tree[T, V] {
	if !s.dirty && s.tree != nil {
		return s.tree
	}
	if s.builder == nil {
		s.builder = DefaultBuilder[T, V]()
	}
	s.tree = s.builder.Build(s)
	s.dirty = false
	return s.tree
}

// Tree returns the tree from the last Build without building. It is nil, which reads as an empty tree,
// before the first Build, and it does not cover elements added since.
func (s *BoxSet[E, T, V]) Tree() *Tree[T, V] {
	return s.tree
}

// Bounds returns the union of all element boxes.
func (s *BoxSet[E, T, V]) Bounds() Box[T, V] {
	if !s.dirty && s.tree != nil && !s.tree.IsEmpty() {
		return s.tree.Box(s.tree.Root())
	}
	bounds := EmptyBox[T, V]()
	for _, b := range s.boxes {
		bounds.Extend(b)
	}
	return bounds
}

// Size returns the number of elements.
func (s *BoxSet[E, T, V]) Size() int {
	return len(s.elements)
}

// Box returns the box of the element at index i.
func (s *BoxSet[E, T, V]) Box(i int) Box[T, V] {
	return s.boxes[i]
}

// Center returns the center of the box at index i along axis.
func (s *BoxSet[E, T, V]) Center(i, axis int) T {
	return s.boxes[i].Center(axis)
}

// Element returns the element at index i.
func (s *BoxSet[E, T, V]) Element(i int) E {
	return s.elements[i]
}

// Elements returns the elements in their current order. The slice is owned by the set.
func (s *BoxSet[E, T, V]) Elements() []E {
	return s.elements
}

// Swap exchanges the elements, and their boxes, at indices i and j.
func (s *BoxSet[E, T, V]) Swap(i, j int) {
	s.elements[i], s.elements[j] = s.elements[j], s.elements[i]
	s.boxes[i], s.boxes[j] = s.boxes[j], s.boxes[i]
}
