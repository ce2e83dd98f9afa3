package bvh

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestEmptyBox(t *testing.T) {
	empty := EmptyBox[float64, [3]float64]()
	test.That(t, empty.IsEmpty(), test.ShouldBeTrue)
	test.That(t, empty.Dim(), test.ShouldEqual, 3)
	test.That(t, empty.Extent(0), test.ShouldEqual, 0.)
	test.That(t, math.IsInf(empty.SquareDistance([3]float64{}), 1), test.ShouldBeTrue)

	unit := NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1})
	test.That(t, unit.IsEmpty(), test.ShouldBeFalse)

	t.Run("empty is the identity of union", func(t *testing.T) {
		test.That(t, empty.Union(unit), test.ShouldResemble, unit)
		test.That(t, unit.Union(empty), test.ShouldResemble, unit)
	})

	t.Run("empty overlaps nothing", func(t *testing.T) {
		test.That(t, empty.IsOut(unit), test.ShouldBeTrue)
		test.That(t, unit.IsOut(empty), test.ShouldBeTrue)
		test.That(t, empty.IsOut(empty), test.ShouldBeTrue)
	})

	t.Run("anything contains empty", func(t *testing.T) {
		test.That(t, unit.Contains(empty), test.ShouldBeTrue)
		test.That(t, empty.Contains(unit), test.ShouldBeFalse)
	})

	t.Run("one inverted axis is empty", func(t *testing.T) {
		b := NewBox[float64]([3]float64{0, 2, 0}, [3]float64{1, 1, 1})
		test.That(t, b.IsEmpty(), test.ShouldBeTrue)
	})
}

func TestBoxOverlap(t *testing.T) {
	a := NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1})

	t.Run("separated on one axis", func(t *testing.T) {
		b := NewBox[float64]([3]float64{0, 0, 1.5}, [3]float64{1, 1, 2})
		test.That(t, a.IsOut(b), test.ShouldBeTrue)
		test.That(t, b.IsOut(a), test.ShouldBeTrue)
	})

	t.Run("touching faces overlap", func(t *testing.T) {
		b := NewBox[float64]([3]float64{1, 0, 0}, [3]float64{2, 1, 1})
		test.That(t, a.IsOut(b), test.ShouldBeFalse)
	})

	t.Run("touching corners overlap", func(t *testing.T) {
		b := NewBox[float64]([3]float64{1, 1, 1}, [3]float64{2, 2, 2})
		test.That(t, a.IsOut(b), test.ShouldBeFalse)
	})

	t.Run("nested", func(t *testing.T) {
		b := NewBox[float64]([3]float64{0.25, 0.25, 0.25}, [3]float64{0.5, 0.5, 0.5})
		test.That(t, a.IsOut(b), test.ShouldBeFalse)
		test.That(t, a.Contains(b), test.ShouldBeTrue)
		test.That(t, b.Contains(a), test.ShouldBeFalse)
	})

	t.Run("points", func(t *testing.T) {
		test.That(t, a.IsOutPoint([3]float64{0.5, 0.5, 0.5}), test.ShouldBeFalse)
		test.That(t, a.IsOutPoint([3]float64{1, 1, 1}), test.ShouldBeFalse)
		test.That(t, a.IsOutPoint([3]float64{1, 1, 1.01}), test.ShouldBeTrue)
	})
}

func TestBoxAccumulate(t *testing.T) {
	b := EmptyBox[float32, [2]float32]()
	b.AddPoint([2]float32{1, 2})
	test.That(t, b.IsEmpty(), test.ShouldBeFalse)
	test.That(t, b.Min, test.ShouldResemble, [2]float32{1, 2})
	test.That(t, b.Max, test.ShouldResemble, [2]float32{1, 2})

	b.AddPoint([2]float32{-1, 5})
	test.That(t, b.Min, test.ShouldResemble, [2]float32{-1, 2})
	test.That(t, b.Max, test.ShouldResemble, [2]float32{1, 5})

	b.Extend(NewBox[float32]([2]float32{0, 0}, [2]float32{4, 1}))
	test.That(t, b.Min, test.ShouldResemble, [2]float32{-1, 0})
	test.That(t, b.Max, test.ShouldResemble, [2]float32{4, 5})

	b.Extend(EmptyBox[float32, [2]float32]())
	test.That(t, b.Max, test.ShouldResemble, [2]float32{4, 5})

	test.That(t, b.Center(0), test.ShouldEqual, float32(1.5))
	test.That(t, b.Center(1), test.ShouldEqual, float32(2.5))
	test.That(t, b.Extent(0), test.ShouldEqual, float32(5))
	test.That(t, b.LongestAxis(), test.ShouldEqual, 0)
}

func TestBoxSquareDistance(t *testing.T) {
	b := NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1})
	test.That(t, b.SquareDistance([3]float64{0.5, 0.5, 0.5}), test.ShouldEqual, 0.)
	test.That(t, b.SquareDistance([3]float64{2, 0.5, 0.5}), test.ShouldAlmostEqual, 1.)
	test.That(t, b.SquareDistance([3]float64{2, 2, 0.5}), test.ShouldAlmostEqual, 2.)
	test.That(t, b.SquareDistance([3]float64{-1, -1, -1}), test.ShouldAlmostEqual, 3.)
}

func TestLongestAxisTies(t *testing.T) {
	b := NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 2, 2})
	test.That(t, b.LongestAxis(), test.ShouldEqual, 1)
}
