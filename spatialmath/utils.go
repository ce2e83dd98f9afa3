package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/spatialaccel/bvh"
)

const floatEpsilon = 1e-9

// AABB is a 3D double precision axis-aligned box as used by meshes and distance fields.
type AABB = bvh.Box[float64, [3]float64]

// NewAABB returns the box spanning the given corners.
func NewAABB(minPt, maxPt r3.Vector) AABB {
	return bvh.NewBox[float64](toArray(minPt), toArray(maxPt))
}

// EmptyAABB returns a box containing nothing.
func EmptyAABB() AABB {
	return bvh.EmptyBox[float64, [3]float64]()
}

// AABBMin returns the min corner of b as a vector.
func AABBMin(b AABB) r3.Vector {
	return toVector(b.Min)
}

// AABBMax returns the max corner of b as a vector.
func AABBMax(b AABB) r3.Vector {
	return toVector(b.Max)
}

func toArray(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func toVector(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}

// PlaneNormal returns the unit normal of the plane through the three points, following the right hand
// rule from p0 to p1 to p2.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// ClosestPointSegmentPoint returns the point of the segment [segStart, segEnd] closest to pt.
func ClosestPointSegmentPoint(segStart, segEnd, pt r3.Vector) r3.Vector {
	seg := segEnd.Sub(segStart)
	denom := seg.Norm2()
	if denom < 1e-30 {
		return segStart
	}
	t := pt.Sub(segStart).Dot(seg) / denom
	t = math.Max(0, math.Min(1, t))
	return segStart.Add(seg.Mul(t))
}

// rayBox reports whether the ray from origin with the given inverse direction hits b at some t >= 0,
// using the slab method. Axes along which the ray is parallel carry an infinite inverse direction.
func rayBox(origin, invDir r3.Vector, b AABB) bool {
	if b.IsEmpty() {
		return false
	}
	tmin, tmax := 0.0, math.Inf(1)
	o := toArray(origin)
	inv := toArray(invDir)
	for axis := 0; axis < 3; axis++ {
		if math.IsInf(inv[axis], 0) {
			if o[axis] < b.Min[axis] || o[axis] > b.Max[axis] {
				return false
			}
			continue
		}
		t1 := (b.Min[axis] - o[axis]) * inv[axis]
		t2 := (b.Max[axis] - o[axis]) * inv[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

func inverseDirection(dir r3.Vector) r3.Vector {
	inv := func(x float64) float64 {
		if x == 0 {
			return math.Inf(1)
		}
		return 1 / x
	}
	return r3.Vector{X: inv(dir.X), Y: inv(dir.Y), Z: inv(dir.Z)}
}
