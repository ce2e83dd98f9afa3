package bvh

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

type intPair struct {
	a, b int
}

func bruteForcePairs(set1, set2 *BoxSet[int, float64, [3]float64]) map[intPair]bool {
	pairs := map[intPair]bool{}
	for i := 0; i < set1.Size(); i++ {
		for j := 0; j < set2.Size(); j++ {
			if !set1.Box(i).IsOut(set2.Box(j)) {
				pairs[intPair{set1.Element(i), set2.Element(j)}] = true
			}
		}
	}
	return pairs
}

func TestPairSelectorEmpty(t *testing.T) {
	empty1 := NewBoxSet[int, float64, [3]float64]()
	empty2 := NewBoxSet[int, float64, [3]float64]()
	ps := NewPairSelector[int, int, float64, [3]float64](empty1, empty2)
	test.That(t, ps.Select(), test.ShouldEqual, 0)
	test.That(t, ps.Pairs(), test.ShouldBeEmpty)

	full := randomBoxSet(rand.New(rand.NewSource(20)), 10, 1, 1)
	ps = NewPairSelector[int, int, float64, [3]float64](full, empty1)
	test.That(t, ps.Select(), test.ShouldEqual, 0)
	ps = NewPairSelector[int, int, float64, [3]float64](empty1, full)
	test.That(t, ps.Select(), test.ShouldEqual, 0)
	test.That(t, ps.Len(), test.ShouldEqual, 0)
}

func TestPairSelectorMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 30; trial++ {
		set1 := randomBoxSet(rng, 1+rng.Intn(50), 10, 3)
		set2 := randomBoxSet(rng, 1+rng.Intn(50), 10, 3)
		expected := bruteForcePairs(set1, set2)

		ps := NewPairSelector[int, int, float64, [3]float64](set1, set2)
		test.That(t, ps.IsSame(), test.ShouldBeFalse)
		added := ps.Select()
		test.That(t, added, test.ShouldEqual, ps.Len())

		got := map[intPair]bool{}
		for _, p := range ps.Pairs() {
			// no false positives
			test.That(t, set1.Box(p.FirstIndex).IsOut(set2.Box(p.SecondIndex)), test.ShouldBeFalse)
			test.That(t, set1.Element(p.FirstIndex), test.ShouldEqual, p.First)
			test.That(t, set2.Element(p.SecondIndex), test.ShouldEqual, p.Second)
			key := intPair{p.First, p.Second}
			test.That(t, got[key], test.ShouldBeFalse)
			got[key] = true
		}
		// no false negatives
		test.That(t, got, test.ShouldResemble, expected)
	}
}

func TestPairSelectorSame(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	for trial := 0; trial < 20; trial++ {
		set := randomBoxSet(rng, 2+rng.Intn(60), 5, 3)
		ps := NewSelfPairSelector[int, float64, [3]float64](set)
		test.That(t, ps.IsSame(), test.ShouldBeTrue)
		ps.Select()

		expected := map[intPair]bool{}
		for i := 0; i < set.Size(); i++ {
			for j := i + 1; j < set.Size(); j++ {
				if !set.Box(i).IsOut(set.Box(j)) {
					expected[intPair{i, j}] = true
				}
			}
		}

		seen := map[intPair]bool{}
		for _, p := range ps.Pairs() {
			test.That(t, p.FirstIndex, test.ShouldBeLessThan, p.SecondIndex)
			test.That(t, p.First, test.ShouldNotEqual, p.Second)
			unordered := intPair{min(p.First, p.Second), max(p.First, p.Second)}
			test.That(t, seen[unordered], test.ShouldBeFalse)
			seen[unordered] = true
		}
		test.That(t, len(ps.Pairs()), test.ShouldEqual, len(expected))
	}

	t.Run("all overlapping", func(t *testing.T) {
		set := NewBoxSet[int, float64, [3]float64]()
		for i := 0; i < 12; i++ {
			set.Add(i, NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
		}
		ps := NewSelfPairSelector[int, float64, [3]float64](set)
		test.That(t, ps.Select(), test.ShouldEqual, 12*11/2)
	})

	t.Run("same mode off reports both orders and self pairs", func(t *testing.T) {
		set := NewBoxSet[int, float64, [3]float64]()
		for i := 0; i < 5; i++ {
			set.Add(i, NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
		}
		ps := NewSelfPairSelector[int, float64, [3]float64](set)
		ps.SetSame(false)
		test.That(t, ps.Select(), test.ShouldEqual, 25)
	})

	t.Run("same mode over distinct sets keeps every pair", func(t *testing.T) {
		set1 := NewBoxSet[int, float64, [3]float64]()
		set2 := NewBoxSet[int, float64, [3]float64]()
		for i := 0; i < 5; i++ {
			set1.Add(i, NewBox[float64]([3]float64{0, 0, 0}, [3]float64{1, 1, 1}))
			set2.Add(i, NewBox[float64]([3]float64{0.5, 0.5, 0.5}, [3]float64{2, 2, 2}))
		}
		ps := NewPairSelector[int, int, float64, [3]float64](set1, set2)
		ps.SetSame(true)
		test.That(t, ps.Select(), test.ShouldEqual, 25)
	})
}

func TestPairSelectorSortAndClear(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	set1 := randomBoxSet(rng, 40, 5, 2)
	set2 := randomBoxSet(rng, 40, 5, 2)
	ps := NewPairSelector[int, int, float64, [3]float64](set1, set2)
	n := ps.Select()
	test.That(t, n, test.ShouldBeGreaterThan, 0)

	ps.Sort()
	pairs := ps.Pairs()
	for i := 1; i < len(pairs); i++ {
		prev, cur := pairs[i-1], pairs[i]
		ordered := prev.FirstIndex < cur.FirstIndex ||
			(prev.FirstIndex == cur.FirstIndex && prev.SecondIndex < cur.SecondIndex)
		test.That(t, ordered, test.ShouldBeTrue)
	}

	tree1 := set1.Tree()
	ps.Clear()
	test.That(t, ps.Len(), test.ShouldEqual, 0)
	test.That(t, set1.IsDirty(), test.ShouldBeFalse)
	test.That(t, set1.Tree(), test.ShouldEqual, tree1)

	// selecting again accumulates the same pairs
	test.That(t, ps.Select(), test.ShouldEqual, n)
	test.That(t, ps.Select(), test.ShouldEqual, n)
	test.That(t, ps.Len(), test.ShouldEqual, 2*n)
}

func TestPairSelector2D(t *testing.T) {
	walls := NewBoxSet[string, float32, [2]float32]()
	walls.Add("left", NewBox[float32]([2]float32{0, 0}, [2]float32{1, 10}))
	walls.Add("right", NewBox[float32]([2]float32{9, 0}, [2]float32{10, 10}))

	robots := NewBoxSet[int, float32, [2]float32]()
	robots.Add(1, NewBox[float32]([2]float32{0.5, 4}, [2]float32{1.5, 5}))
	robots.Add(2, NewBox[float32]([2]float32{4, 4}, [2]float32{5, 5}))
	robots.Add(3, NewBox[float32]([2]float32{8, 4}, [2]float32{9, 5}))

	ps := NewPairSelector[string, int, float32, [2]float32](walls, robots)
	test.That(t, ps.Select(), test.ShouldEqual, 2)
	got := map[string]int{}
	for _, p := range ps.Pairs() {
		got[p.First] = p.Second
	}
	test.That(t, got, test.ShouldResemble, map[string]int{"left": 1, "right": 3})
}
