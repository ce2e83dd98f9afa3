// Package bvh implements axis-aligned bounding boxes, a binary bounding volume hierarchy built over an
// arbitrary element dataset, and single and dual tree traversals over such hierarchies.
//
// Precision and dimensionality are type parameters: a Box[float32, [2]float32] is a 2D single precision
// box, a Box[float64, [3]float64] a 3D double precision one.
package bvh

import "math"

// Float is the set of floating point precisions a Box can be built over.
type Float interface {
	~float32 | ~float64
}

// Vector is a fixed size coordinate array in two or three dimensions.
type Vector[T Float] interface {
	~[2]T | ~[3]T
}

// Box is an axis-aligned bounding box. A box with Min greater than Max on any axis is empty and is
// ignored by unions and overlap tests.
type Box[T Float, V Vector[T]] struct {
	Min V
	Max V
}

// NewBox returns the box spanning the given corners.
func NewBox[T Float, V Vector[T]](minCorner, maxCorner V) Box[T, V] {
	return Box[T, V]{Min: minCorner, Max: maxCorner}
}

// EmptyBox returns a box that contains nothing and acts as the identity for Union and Extend.
func EmptyBox[T Float, V Vector[T]]() Box[T, V] {
	var b Box[T, V]
	inf := T(math.Inf(1))
	for i := 0; i < len(b.Min); i++ {
		b.Min[i] = inf
		b.Max[i] = -inf
	}
	return b
}

// Dim returns the number of axes of the box.
func (b Box[T, V]) Dim() int {
	return len(b.Min)
}

// IsEmpty reports whether the box has min > max on at least one axis.
func (b Box[T, V]) IsEmpty() bool {
	for i := 0; i < len(b.Min); i++ {
		if b.Min[i] > b.Max[i] {
			return true
		}
	}
	return false
}

// Union returns the smallest box containing both boxes.
func (b Box[T, V]) Union(other Box[T, V]) Box[T, V] {
	b.Extend(other)
	return b
}

// Extend grows the box in place so that it contains other.
func (b *Box[T, V]) Extend(other Box[T, V]) {
	if other.IsEmpty() {
		return
	}
	if b.IsEmpty() {
		*b = other
		return
	}
	for i := 0; i < len(b.Min); i++ {
		b.Min[i] = min(b.Min[i], other.Min[i])
		b.Max[i] = max(b.Max[i], other.Max[i])
	}
}

// AddPoint grows the box in place so that it contains p.
func (b *Box[T, V]) AddPoint(p V) {
	if b.IsEmpty() {
		b.Min, b.Max = p, p
		return
	}
	for i := 0; i < len(b.Min); i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// IsOut reports whether the two boxes do not intersect. Touching boxes intersect. An empty box is out of
// every box.
func (b Box[T, V]) IsOut(other Box[T, V]) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return true
	}
	for i := 0; i < len(b.Min); i++ {
		if b.Min[i] > other.Max[i] || b.Max[i] < other.Min[i] {
			return true
		}
	}
	return false
}

// IsOutPoint reports whether p lies outside the box.
func (b Box[T, V]) IsOutPoint(p V) bool {
	for i := 0; i < len(b.Min); i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return true
		}
	}
	return false
}

// Contains reports whether other lies entirely within the box.
func (b Box[T, V]) Contains(other Box[T, V]) bool {
	if other.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	for i := 0; i < len(b.Min); i++ {
		if other.Min[i] < b.Min[i] || other.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the box along axis.
func (b Box[T, V]) Center(axis int) T {
	return (b.Min[axis] + b.Max[axis]) * 0.5
}

// Extent returns the size of the box along axis, or 0 for an empty box.
func (b Box[T, V]) Extent(axis int) T {
	if b.Min[axis] > b.Max[axis] {
		return 0
	}
	return b.Max[axis] - b.Min[axis]
}

// LongestAxis returns the axis of greatest extent. Ties resolve to the lowest axis.
func (b Box[T, V]) LongestAxis() int {
	axis := 0
	for i := 1; i < len(b.Min); i++ {
		if b.Extent(i) > b.Extent(axis) {
			axis = i
		}
	}
	return axis
}

// SquareDistance returns the squared euclidean distance from p to the closest point of the box, which is
// 0 when p is inside. An empty box is infinitely far away.
func (b Box[T, V]) SquareDistance(p V) T {
	if b.IsEmpty() {
		return T(math.Inf(1))
	}
	var dist T
	for i := 0; i < len(b.Min); i++ {
		var d T
		switch {
		case p[i] < b.Min[i]:
			d = b.Min[i] - p[i]
		case p[i] > b.Max[i]:
			d = p[i] - b.Max[i]
		}
		dist += d * d
	}
	return dist
}
