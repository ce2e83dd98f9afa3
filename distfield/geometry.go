package distfield

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/spatialaccel/bvh"
	"go.viam.com/spatialaccel/spatialmath"
	"go.viam.com/spatialaccel/utils"
)

// signRays are the directions cast from a sample point to decide whether it lies inside a mesh. They
// are slightly skewed off the axes so that they rarely graze shared triangle edges of axis aligned meshes.
var signRays = []r3.Vector{
	{X: 1, Y: 1e-4, Z: 2e-4},
	{X: 3e-4, Y: 1, Z: -1e-4},
	{X: -2e-4, Y: 4e-4, Z: 1},
}

// Object is a mesh placed in the world of a Geometry by an optional transform.
type Object struct {
	geometry *Geometry
	mesh     *spatialmath.Mesh
	tf       *spatialmath.Transform
	box      spatialmath.AABB
}

// Mesh returns the mesh of the object.
func (o *Object) Mesh() *spatialmath.Mesh {
	return o.mesh
}

// Transform returns the transform placing the object, nil meaning identity.
func (o *Object) Transform() *spatialmath.Transform {
	return o.tf
}

// SetTransform places the object with tf and marks the geometry dirty.
func (o *Object) SetTransform(tf *spatialmath.Transform) {
	o.tf = tf
	o.box = tf.TransformBox(o.mesh.Bounds())
	o.geometry.dirty = true
}

// Box returns the world bounds of the object.
func (o *Object) Box() spatialmath.AABB {
	return o.box
}

// Geometry is a set of transformed meshes queried as one. It keeps a top level hierarchy over the world
// bounds of its objects, each of which has its own hierarchy over triangles.
//
// Geometry must be built before it is queried; queries never build. A built geometry may be queried
// concurrently as long as none of its meshes is modified.
type Geometry struct {
	objects     []*Object
	top         *bvh.BoxSet[*Object, float64, [3]float64]
	treeBuilder *bvh.Builder[float64, [3]float64]
	dirty       bool
}

// NewGeometry returns an empty geometry.
func NewGeometry() *Geometry {
	return &Geometry{
		top:   bvh.NewBoxSet[*Object, float64, [3]float64](),
		dirty: true,
	}
}

// AddMesh adds mesh placed by tf, which may be nil, and returns the new object.
func (g *Geometry) AddMesh(mesh *spatialmath.Mesh, tf *spatialmath.Transform) *Object {
	obj := &Object{geometry: g, mesh: mesh}
	obj.SetTransform(tf)
	g.objects = append(g.objects, obj)
	return obj
}

// SetTreeBuilder replaces the policy used to build the hierarchy of every mesh on the next Build.
func (g *Geometry) SetTreeBuilder(builder *bvh.Builder[float64, [3]float64]) {
	g.treeBuilder = builder
	g.dirty = true
}

// Objects returns the objects in insertion order.
func (g *Geometry) Objects() []*Object {
	return g.objects
}

// TriangleCount returns the number of triangles over all objects.
func (g *Geometry) TriangleCount() int {
	return lo.SumBy(g.objects, func(obj *Object) int {
		return obj.mesh.Len()
	})
}

// IsEmpty reports whether the geometry has no triangles.
func (g *Geometry) IsEmpty() bool {
	return g.TriangleCount() == 0
}

// Build builds every mesh hierarchy, in parallel, and then the hierarchy over objects. It does nothing
// if neither the geometry nor any of its meshes changed since the last build.
func (g *Geometry) Build(ctx context.Context) error {
	if g.IsBuilt() {
		return nil
	}
	meshes := lo.Uniq(lo.Map(g.objects, func(obj *Object, _ int) *spatialmath.Mesh {
		return obj.mesh
	}))
	fs := make([]utils.SimpleFunc, 0, len(meshes))
	for _, mesh := range meshes {
		if g.treeBuilder != nil {
			mesh.SetBuilder(g.treeBuilder)
		}
		fs = append(fs, func(ctx context.Context) error {
			mesh.Build()
			return ctx.Err()
		})
	}
	if _, err := utils.RunInParallel(ctx, fs); err != nil {
		return err
	}

	g.top.Clear()
	g.top.SetSize(len(g.objects))
	for _, obj := range g.objects {
		// meshes may have grown since the object was placed
		obj.box = obj.tf.TransformBox(obj.mesh.Bounds())
		if obj.mesh.Len() > 0 {
			g.top.Add(obj, obj.box)
		}
	}
	g.top.Build()
	g.dirty = false
	return nil
}

// IsBuilt reports whether the geometry may be queried, which requires every mesh to be built as well.
func (g *Geometry) IsBuilt() bool {
	if g.dirty {
		return false
	}
	return !lo.SomeBy(g.objects, func(obj *Object) bool {
		return obj.mesh.IsDirty()
	})
}

// Bounds returns the world bounds of all objects.
func (g *Geometry) Bounds() spatialmath.AABB {
	bounds := spatialmath.EmptyAABB()
	for _, obj := range g.objects {
		if obj.mesh.Len() > 0 {
			bounds.Extend(obj.box)
		}
	}
	return bounds
}

// Distance returns the distance from the world point pt to the nearest triangle of any object, or +Inf
// for an empty geometry.
func (g *Geometry) Distance(pt r3.Vector) float64 {
	v := &nearestObjectVisitor{top: g.top, point: pt, best: math.Inf(1)}
	g.top.Tree().Traverse(v)
	return v.best
}

// Inside reports whether pt lies inside any object. Each object casts three rays from pt and counts the
// triangles they cross; pt is inside when the majority of rays cross an odd number of times. Meshes must
// be closed for the answer to be meaningful.
func (g *Geometry) Inside(pt r3.Vector) bool {
	v := &containingObjectVisitor{top: g.top, point: pt}
	g.top.Tree().Traverse(v)
	return v.inside
}

// OverlappingObjects returns every pair of distinct objects whose world bounds overlap.
func (g *Geometry) OverlappingObjects() [][2]*Object {
	ps := bvh.NewSelfPairSelector[*Object, float64, [3]float64](g.top)
	ps.Select()
	return lo.Map(ps.Pairs(), func(p bvh.Pair[*Object, *Object], _ int) [2]*Object {
		return [2]*Object{p.First, p.Second}
	})
}

func insideObject(obj *Object, pt r3.Vector) bool {
	odd := 0
	for _, dir := range signRays {
		if obj.mesh.CountRayCrossings(pt, dir, obj.tf)%2 == 1 {
			odd++
		}
	}
	return 2*odd > len(signRays)
}

type nearestObjectVisitor struct {
	top   *bvh.BoxSet[*Object, float64, [3]float64]
	point r3.Vector
	best  float64
}

func (v *nearestObjectVisitor) Rank(box spatialmath.AABB) float64 {
	return box.SquareDistance([3]float64{v.point.X, v.point.Y, v.point.Z})
}

func (v *nearestObjectVisitor) RejectNode(box spatialmath.AABB) bool {
	return v.Rank(box) > v.best*v.best
}

func (v *nearestObjectVisitor) Accept(index int) {
	obj := v.top.Element(index)
	if _, dist, ok := obj.mesh.ClosestPointWithin(v.point, obj.tf, v.best); ok {
		v.best = dist
	}
}

type containingObjectVisitor struct {
	top    *bvh.BoxSet[*Object, float64, [3]float64]
	point  r3.Vector
	inside bool
}

func (v *containingObjectVisitor) RejectNode(box spatialmath.AABB) bool {
	return box.IsOutPoint([3]float64{v.point.X, v.point.Y, v.point.Z})
}

func (v *containingObjectVisitor) Accept(index int) {
	if !v.inside && insideObject(v.top.Element(index), v.point) {
		v.inside = true
	}
}

func (v *containingObjectVisitor) Stop() bool {
	return v.inside
}
