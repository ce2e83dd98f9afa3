package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is a triangle in 3D space with a cached unit normal.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle returns the triangle with the given vertices. Its normal follows the right hand rule.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the three vertices.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the mean of the vertices.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// Box returns the axis-aligned bounds of the triangle.
func (t *Triangle) Box() AABB {
	box := EmptyAABB()
	box.AddPoint(toArray(t.p0))
	box.AddPoint(toArray(t.p1))
	box.AddPoint(toArray(t.p2))
	return box
}

// Transform returns a new triangle with every vertex mapped through tf.
func (t *Triangle) Transform(tf *Transform) *Triangle {
	return NewTriangle(tf.Apply(t.p0), tf.Apply(t.p1), tf.Apply(t.p2))
}

// ClosestPointToPoint returns the point of the triangle closest to pt, found by locating the Voronoi
// region of pt among the vertices, edges and face (Ericson, "Real-Time Collision Detection").
func (t *Triangle) ClosestPointToPoint(pt r3.Vector) r3.Vector {
	a, b, c := t.p0, t.p1, t.p2
	ab := b.Sub(a)
	ac := c.Sub(a)

	ap := pt.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := pt.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := pt.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := va + vb + vc
	if denom == 0 {
		// degenerate triangle: fall back to the closest of its edges
		return t.closestEdgePoint(pt)
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

func (t *Triangle) closestEdgePoint(pt r3.Vector) r3.Vector {
	closest := ClosestPointSegmentPoint(t.p0, t.p1, pt)
	bestDist := pt.Sub(closest).Norm2()
	for _, edge := range [][2]r3.Vector{{t.p1, t.p2}, {t.p2, t.p0}} {
		candidate := ClosestPointSegmentPoint(edge[0], edge[1], pt)
		if d := pt.Sub(candidate).Norm2(); d < bestDist {
			closest, bestDist = candidate, d
		}
	}
	return closest
}

// DistanceToPoint returns the euclidean distance from pt to the triangle.
func (t *Triangle) DistanceToPoint(pt r3.Vector) float64 {
	return pt.Sub(t.ClosestPointToPoint(pt)).Norm()
}

// IntersectsRay returns the ray parameter at which the ray from origin along dir crosses the triangle,
// using the Möller-Trumbore test. Hits behind the origin, and rays parallel to the triangle, report false.
func (t *Triangle) IntersectsRay(origin, dir r3.Vector) (float64, bool) {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < floatEpsilon*math.Max(1, e1.Norm()*e2.Norm()*dir.Norm()) {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(t.p0)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist := inv * e2.Dot(q)
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
