package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/spatialaccel/bvh"
)

// Mesh is a set of triangles indexed by a bounding volume hierarchy. Triangles live in the mesh's own
// frame; queries take an optional transform placing the mesh in the world.
//
// Building the hierarchy reorders the triangles. Queries read the hierarchy from the last Build and never
// build it themselves, so a built mesh may be queried concurrently; triangles added since are not seen
// until the next Build.
type Mesh struct {
	triangles *bvh.BoxSet[*Triangle, float64, [3]float64]
}

// NewMesh returns a mesh over the given triangles. The hierarchy is built lazily.
func NewMesh(triangles []*Triangle) *Mesh {
	m := &Mesh{triangles: bvh.NewBoxSet[*Triangle, float64, [3]float64]()}
	m.triangles.SetSize(len(triangles))
	for _, tri := range triangles {
		m.Add(tri)
	}
	return m
}

// Add appends a triangle. The hierarchy is rebuilt on the next Build.
func (m *Mesh) Add(tri *Triangle) {
	m.triangles.Add(tri, tri.Box())
}

// SetBuilder replaces the policy used to build the hierarchy.
func (m *Mesh) SetBuilder(builder *bvh.Builder[float64, [3]float64]) {
	m.triangles.SetBuilder(builder)
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	return m.triangles.Size()
}

// Triangles returns the triangles in their current order.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles.Elements()
}

// Build builds the hierarchy if the mesh changed since the last build.
func (m *Mesh) Build() *bvh.Tree[float64, [3]float64] {
	return m.triangles.Build()
}

// IsDirty reports whether the mesh changed since the last Build.
func (m *Mesh) IsDirty() bool {
	return m.triangles.IsDirty()
}

// Bounds returns the bounds of the mesh in its own frame.
func (m *Mesh) Bounds() AABB {
	return m.triangles.Bounds()
}

// Transform returns a new mesh whose triangles are those of m mapped through tf.
func (m *Mesh) Transform(tf *Transform) *Mesh {
	return NewMesh(lo.Map(m.Triangles(), func(tri *Triangle, _ int) *Triangle {
		return tri.Transform(tf)
	}))
}

// ClosestPoint returns the point of the mesh, placed in the world by tf, closest to the world point pt
// and its distance. It reports false for an empty mesh. The mesh must have been built.
func (m *Mesh) ClosestPoint(pt r3.Vector, tf *Transform) (r3.Vector, float64, bool) {
	return m.ClosestPointWithin(pt, tf, math.Inf(1))
}

// ClosestPointWithin is like ClosestPoint but only considers the part of the mesh closer to pt than
// maxDist, which lets callers searching several meshes prune with their best distance so far. It
// reports false when nothing lies within maxDist.
func (m *Mesh) ClosestPointWithin(pt r3.Vector, tf *Transform, maxDist float64) (r3.Vector, float64, bool) {
	tree := m.triangles.Tree()
	if tree.IsEmpty() {
		return r3.Vector{}, math.Inf(1), false
	}
	v := &closestVisitor{set: m.triangles, point: pt, tf: tf, best: maxDist * maxDist}
	if tf.IsRigid() {
		// distances are preserved, so search in the mesh frame
		v.point = tf.ApplyInverse(pt)
		v.tf = nil
	}
	tree.Traverse(v)
	if !v.found {
		return r3.Vector{}, math.Inf(1), false
	}
	if v.tf == nil {
		return tf.Apply(v.closest), math.Sqrt(v.best), true
	}
	return v.closest, math.Sqrt(v.best), true
}

// Distance returns the distance from the world point pt to the mesh placed by tf, or +Inf for an empty
// mesh.
func (m *Mesh) Distance(pt r3.Vector, tf *Transform) float64 {
	_, dist, _ := m.ClosestPoint(pt, tf)
	return dist
}

// CountRayCrossings returns how many triangles of the mesh placed by tf the world ray from origin along
// dir crosses in front of its origin.
func (m *Mesh) CountRayCrossings(origin, dir r3.Vector, tf *Transform) int {
	tree := m.triangles.Tree()
	if tree.IsEmpty() {
		return 0
	}
	localDir := tf.ApplyInverseDirection(dir)
	v := &rayVisitor{
		set:    m.triangles,
		origin: tf.ApplyInverse(origin),
		dir:    localDir,
		invDir: inverseDirection(localDir),
	}
	tree.Traverse(v)
	return v.crossings
}

// CandidatePairs returns every pair of triangles, one from each mesh, whose bounds overlap. Both meshes
// are taken in their own frames.
func (m *Mesh) CandidatePairs(other *Mesh) []bvh.Pair[*Triangle, *Triangle] {
	ps := bvh.NewPairSelector[*Triangle, *Triangle, float64, [3]float64](m.triangles, other.triangles)
	ps.Select()
	return ps.Pairs()
}

// SelfCandidatePairs returns every unordered pair of distinct triangles of the mesh whose bounds overlap.
func (m *Mesh) SelfCandidatePairs() []bvh.Pair[*Triangle, *Triangle] {
	ps := bvh.NewSelfPairSelector[*Triangle, float64, [3]float64](m.triangles)
	ps.Select()
	ps.Sort()
	return ps.Pairs()
}

// closestVisitor searches for the nearest triangle, visiting nearer subtrees first. When tf is set, node
// boxes and triangles are mapped to the world as they are visited.
type closestVisitor struct {
	set     *bvh.BoxSet[*Triangle, float64, [3]float64]
	point   r3.Vector
	tf      *Transform
	best    float64
	closest r3.Vector
	found   bool
}

func (v *closestVisitor) Rank(box AABB) float64 {
	return v.tf.TransformBox(box).SquareDistance(toArray(v.point))
}

func (v *closestVisitor) RejectNode(box AABB) bool {
	return v.Rank(box) > v.best
}

func (v *closestVisitor) Accept(index int) {
	tri := v.set.Element(index)
	if v.tf != nil {
		tri = tri.Transform(v.tf)
	}
	closest := tri.ClosestPointToPoint(v.point)
	if d := closest.Sub(v.point).Norm2(); d < v.best {
		v.best = d
		v.closest = closest
		v.found = true
	}
}

type rayVisitor struct {
	set       *bvh.BoxSet[*Triangle, float64, [3]float64]
	origin    r3.Vector
	dir       r3.Vector
	invDir    r3.Vector
	crossings int
}

func (v *rayVisitor) RejectNode(box AABB) bool {
	return !rayBox(v.origin, v.invDir, box)
}

func (v *rayVisitor) Accept(index int) {
	if _, ok := v.set.Element(index).IntersectsRay(v.origin, v.dir); ok {
		v.crossings++
	}
}
