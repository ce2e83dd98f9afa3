// Package distfield samples the distance from a set of transformed triangle meshes onto a dense voxel grid.
package distfield

import (
	"context"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/spatialaccel/bvh"
	"go.viam.com/spatialaccel/logging"
	"go.viam.com/spatialaccel/spatialmath"
	"go.viam.com/spatialaccel/utils"
)

var (
	// ErrEmptyGeometry is returned when a field is built over a geometry without triangles.
	ErrEmptyGeometry = errors.New("geometry has no triangles")
	// ErrDegenerateRegion is returned when the sampled region has no extent along some axis.
	ErrDegenerateRegion = errors.New("sampling region has zero volume")
)

// Builder samples a Geometry onto a regular grid whose longest axis has MaxResolution voxels. Each voxel
// holds the distance from its center to the nearest triangle, negated inside closed meshes when the
// builder is signed. Values are stored with precision T.
type Builder[T bvh.Float] struct {
	maxResolution int
	signed        bool
	parallel      bool
	margin        float64
	region        *spatialmath.AABB
	treeBuilder   *bvh.Builder[float64, [3]float64]
	logger        logging.Logger

	dims      [3]int
	voxelSize float64
	cornerMin r3.Vector
	cornerMax r3.Vector
	data      []T
}

// NewBuilder returns a parallel builder with the given resolution along the longest axis. A nil logger
// discards all output.
func NewBuilder[T bvh.Float](maxResolution int, signed bool, logger logging.Logger) *Builder[T] {
	if logger == nil {
		logger = logging.NewBlankLogger("distfield")
	}
	return &Builder[T]{
		maxResolution: maxResolution,
		signed:        signed,
		parallel:      true,
		logger:        logger,
	}
}

// NewBuilderFromConfig validates cfg and returns a builder configured by it.
func NewBuilderFromConfig[T bvh.Float](cfg *Config, logger logging.Logger) (*Builder[T], error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	treeBuilder, err := cfg.TreeBuilder()
	if err != nil {
		return nil, err
	}
	b := NewBuilder[T](cfg.MaxResolution, cfg.Signed, logger)
	b.SetParallel(!cfg.Serial)
	b.SetMargin(cfg.Margin)
	b.treeBuilder = treeBuilder
	return b, nil
}

// SetParallel selects whether Z slices are sampled by concurrent workers.
func (b *Builder[T]) SetParallel(parallel bool) {
	b.parallel = parallel
}

// IsParallel reports whether Z slices are sampled by concurrent workers.
func (b *Builder[T]) IsParallel() bool {
	return b.parallel
}

// IsSigned reports whether voxels inside closed meshes are negated.
func (b *Builder[T]) IsSigned() bool {
	return b.signed
}

// SetRegion fixes the sampled region. By default the region is the bounds of the geometry grown by the
// margin.
func (b *Builder[T]) SetRegion(region spatialmath.AABB) {
	b.region = &region
}

// SetMargin sets how far the default region extends past the geometry on every side.
func (b *Builder[T]) SetMargin(margin float64) {
	b.margin = margin
}

// Build samples geom, building its hierarchies first if needed. On failure every dimension is 0.
func (b *Builder[T]) Build(ctx context.Context, geom *Geometry) error {
	b.reset()
	if b.maxResolution < 1 {
		return errors.Errorf("max resolution must be at least 1, got %d", b.maxResolution)
	}
	if geom == nil || geom.IsEmpty() {
		return ErrEmptyGeometry
	}
	if b.treeBuilder != nil {
		geom.SetTreeBuilder(b.treeBuilder)
	}
	if err := geom.Build(ctx); err != nil {
		return errors.Wrap(err, "building geometry")
	}
	if err := b.setupGrid(b.samplingRegion(geom)); err != nil {
		return err
	}
	b.logger.Debugw("sampling distance field",
		"dims", b.dims, "voxel_size", b.voxelSize, "signed", b.signed, "parallel", b.parallel,
		"objects", len(geom.Objects()), "triangles", geom.TriangleCount())

	start := time.Now()
	stopSlowLogger := utils.SlowLogger(ctx, "still sampling distance field", "voxels", len(b.data), b.logger)
	defer stopSlowLogger()
	var err error
	if b.parallel {
		err = utils.GroupWorkParallel(ctx, b.dims[2], func(ctx context.Context, groupNum, from, to int) error {
			b.logger.Debugw("sampling slices", "group", groupNum, "from", from, "to", to)
			return b.buildSlices(ctx, geom, from, to)
		})
	} else {
		err = b.buildSlices(ctx, geom, 0, b.dims[2])
	}
	if err != nil {
		b.reset()
		return err
	}
	b.logger.Debugw("sampled distance field", "voxels", len(b.data), "elapsed", time.Since(start))
	return nil
}

// BuildSlices resamples the Z slices [startZ, finalZ) of a grid laid out by a previous Build. Calls over
// disjoint ranges may run concurrently.
func (b *Builder[T]) BuildSlices(geom *Geometry, startZ, finalZ int) error {
	if len(b.data) == 0 {
		return errors.New("distance field has not been built")
	}
	if startZ < 0 || finalZ > b.dims[2] || startZ > finalZ {
		return errors.Errorf("slice range [%d, %d) outside of [0, %d)", startZ, finalZ, b.dims[2])
	}
	if !geom.IsBuilt() {
		return errors.New("geometry has not been built")
	}
	return b.buildSlices(context.Background(), geom, startZ, finalZ)
}

func (b *Builder[T]) buildSlices(ctx context.Context, geom *Geometry, startZ, finalZ int) error {
	for z := startZ; z < finalZ; z++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for y := 0; y < b.dims[1]; y++ {
			for x := 0; x < b.dims[0]; x++ {
				center := b.VoxelCenter(x, y, z)
				dist := geom.Distance(center)
				if b.signed && geom.Inside(center) {
					dist = -dist
				}
				b.data[b.Index(x, y, z)] = T(dist)
			}
		}
	}
	return nil
}

func (b *Builder[T]) samplingRegion(geom *Geometry) spatialmath.AABB {
	if b.region != nil {
		return *b.region
	}
	region := geom.Bounds()
	for axis := 0; axis < 3; axis++ {
		region.Min[axis] -= b.margin
		region.Max[axis] += b.margin
	}
	return region
}

func (b *Builder[T]) setupGrid(region spatialmath.AABB) error {
	if region.IsEmpty() {
		return ErrDegenerateRegion
	}
	for axis := 0; axis < 3; axis++ {
		if region.Extent(axis) <= 0 {
			return errors.Wrapf(ErrDegenerateRegion, "axis %d", axis)
		}
	}
	longest := region.LongestAxis()
	voxelSize := region.Extent(longest) / float64(b.maxResolution)

	var dims [3]int
	for axis := 0; axis < 3; axis++ {
		if axis == longest {
			dims[axis] = b.maxResolution
			continue
		}
		dims[axis] = min(max(utils.CeilToInt(region.Extent(axis)/voxelSize, 1e-9), 1), b.maxResolution)
	}

	b.dims = dims
	b.voxelSize = voxelSize
	b.cornerMin = spatialmath.AABBMin(region)
	b.cornerMax = b.cornerMin.Add(r3.Vector{X: float64(dims[0]), Y: float64(dims[1]), Z: float64(dims[2])}.Mul(voxelSize))
	b.data = make([]T, dims[0]*dims[1]*dims[2])
	return nil
}

func (b *Builder[T]) reset() {
	b.dims = [3]int{}
	b.voxelSize = 0
	b.cornerMin = r3.Vector{}
	b.cornerMax = r3.Vector{}
	b.data = nil
}

// DimensionX returns the number of voxels along X.
func (b *Builder[T]) DimensionX() int {
	return b.dims[0]
}

// DimensionY returns the number of voxels along Y.
func (b *Builder[T]) DimensionY() int {
	return b.dims[1]
}

// DimensionZ returns the number of voxels along Z.
func (b *Builder[T]) DimensionZ() int {
	return b.dims[2]
}

// VoxelSize returns the edge length of a voxel.
func (b *Builder[T]) VoxelSize() float64 {
	return b.voxelSize
}

// CornerMin returns the min corner of the grid.
func (b *Builder[T]) CornerMin() r3.Vector {
	return b.cornerMin
}

// CornerMax returns the max corner of the grid, which may lie past the sampled region on the shorter axes.
func (b *Builder[T]) CornerMax() r3.Vector {
	return b.cornerMax
}

// Index returns the position of voxel (x, y, z) in Data.
func (b *Builder[T]) Index(x, y, z int) int {
	return x + (y+z*b.dims[1])*b.dims[0]
}

// Voxel returns the value of voxel (x, y, z).
func (b *Builder[T]) Voxel(x, y, z int) T {
	return b.data[b.Index(x, y, z)]
}

// VoxelCenter returns the world position of the center of voxel (x, y, z).
func (b *Builder[T]) VoxelCenter(x, y, z int) r3.Vector {
	return r3.Vector{
		X: b.cornerMin.X + (float64(x)+0.5)*b.voxelSize,
		Y: b.cornerMin.Y + (float64(y)+0.5)*b.voxelSize,
		Z: b.cornerMin.Z + (float64(z)+0.5)*b.voxelSize,
	}
}

// Data returns the packed voxel values, X varying fastest.
func (b *Builder[T]) Data() []T {
	return b.data
}

// Interpolate samples the field at pt by trilinear interpolation between voxel centers. Points between
// the outermost centers and the grid faces take the value of the nearest face layer. It reports false
// when pt lies outside the grid.
func (b *Builder[T]) Interpolate(pt r3.Vector) (T, bool) {
	if len(b.data) == 0 {
		return 0, false
	}
	p := [3]float64{pt.X, pt.Y, pt.Z}
	lower := [3]float64{b.cornerMin.X, b.cornerMin.Y, b.cornerMin.Z}
	upper := [3]float64{b.cornerMax.X, b.cornerMax.Y, b.cornerMax.Z}

	var idx [3]int
	var frac [3]float64
	for axis := 0; axis < 3; axis++ {
		if p[axis] < lower[axis] || p[axis] > upper[axis] {
			return 0, false
		}
		u := (p[axis]-lower[axis])/b.voxelSize - 0.5
		u = math.Max(0, math.Min(u, float64(b.dims[axis]-1)))
		i := min(int(u), max(b.dims[axis]-2, 0))
		idx[axis] = i
		frac[axis] = u - float64(i)
	}

	sample := func(dx, dy, dz int) float64 {
		x := min(idx[0]+dx, b.dims[0]-1)
		y := min(idx[1]+dy, b.dims[1]-1)
		z := min(idx[2]+dz, b.dims[2]-1)
		return float64(b.Voxel(x, y, z))
	}
	c00 := utils.Lerp(sample(0, 0, 0), sample(1, 0, 0), frac[0])
	c10 := utils.Lerp(sample(0, 1, 0), sample(1, 1, 0), frac[0])
	c01 := utils.Lerp(sample(0, 0, 1), sample(1, 0, 1), frac[0])
	c11 := utils.Lerp(sample(0, 1, 1), sample(1, 1, 1), frac[0])
	c0 := utils.Lerp(c00, c10, frac[1])
	c1 := utils.Lerp(c01, c11, frac[1])
	return T(utils.Lerp(c0, c1, frac[2])), true
}
