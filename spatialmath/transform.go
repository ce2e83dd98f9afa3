package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularTransform is returned when a transform has no inverse.
var ErrSingularTransform = errors.New("transform is not invertible")

// Transform is an invertible affine map of 3D space, stored as the top three rows of a 4x4 homogeneous
// matrix together with its inverse. A nil *Transform is the identity.
type Transform struct {
	fwd   [12]float64
	inv   [12]float64
	rigid bool
}

// NewTransformFromMatrix returns the transform described by the 4x4 homogeneous matrix m. The bottom row
// of m is ignored.
func NewTransformFromMatrix(m mat.Matrix) (*Transform, error) {
	rows, cols := m.Dims()
	if rows != 4 || cols != 4 {
		return nil, errors.Errorf("transform matrix must be 4x4, got %dx%d", rows, cols)
	}
	homogeneous := mat.NewDense(4, 4, nil)
	homogeneous.Copy(m)
	for j := 0; j < 3; j++ {
		homogeneous.Set(3, j, 0)
	}
	homogeneous.Set(3, 3, 1)

	var inverse mat.Dense
	if err := inverse.Inverse(homogeneous); err != nil {
		return nil, errors.Wrap(ErrSingularTransform, err.Error())
	}

	tf := &Transform{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			tf.fwd[i*4+j] = homogeneous.At(i, j)
			tf.inv[i*4+j] = inverse.At(i, j)
		}
	}
	tf.rigid = isOrthonormal(homogeneous.Slice(0, 3, 0, 3))
	return tf, nil
}

// NewTranslation returns the transform moving every point by offset.
func NewTranslation(offset r3.Vector) *Transform {
	tf, err := NewTransform(mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), offset)
	if err != nil {
		panic(err)
	}
	return tf
}

// NewRotation returns the rotation by theta radians about axis, followed by a translation.
func NewRotation(axis r3.Vector, theta float64, translation r3.Vector) (*Transform, error) {
	if axis.Norm2() == 0 {
		return nil, errors.New("rotation axis must be non-zero")
	}
	k := axis.Normalize()
	c, s := math.Cos(theta), math.Sin(theta)
	v := 1 - c
	rot := mat.NewDense(3, 3, []float64{
		c + k.X*k.X*v, k.X*k.Y*v - k.Z*s, k.X*k.Z*v + k.Y*s,
		k.Y*k.X*v + k.Z*s, c + k.Y*k.Y*v, k.Y*k.Z*v - k.X*s,
		k.Z*k.X*v - k.Y*s, k.Z*k.Y*v + k.X*s, c + k.Z*k.Z*v,
	})
	return NewTransform(rot, translation)
}

// NewScale returns the transform scaling each axis by the matching component of factors.
func NewScale(factors r3.Vector) (*Transform, error) {
	return NewTransform(mat.NewDense(3, 3, []float64{factors.X, 0, 0, 0, factors.Y, 0, 0, 0, factors.Z}), r3.Vector{})
}

// NewTransform returns the transform applying the 3x3 linear part linear, then adding translation.
func NewTransform(linear mat.Matrix, translation r3.Vector) (*Transform, error) {
	rows, cols := linear.Dims()
	if rows != 3 || cols != 3 {
		return nil, errors.Errorf("linear part must be 3x3, got %dx%d", rows, cols)
	}
	homogeneous := mat.NewDense(4, 4, nil)
	homogeneous.Slice(0, 3, 0, 3).(*mat.Dense).Copy(linear)
	homogeneous.Set(0, 3, translation.X)
	homogeneous.Set(1, 3, translation.Y)
	homogeneous.Set(2, 3, translation.Z)
	homogeneous.Set(3, 3, 1)
	return NewTransformFromMatrix(homogeneous)
}

// Matrix returns the 4x4 homogeneous matrix of the transform.
func (tf *Transform) Matrix() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	m.Set(3, 3, 1)
	if tf == nil {
		m.Set(0, 0, 1)
		m.Set(1, 1, 1)
		m.Set(2, 2, 1)
		return m
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, tf.fwd[i*4+j])
		}
	}
	return m
}

// Inverse returns the inverse transform.
func (tf *Transform) Inverse() *Transform {
	if tf == nil {
		return nil
	}
	return &Transform{fwd: tf.inv, inv: tf.fwd, rigid: tf.rigid}
}

// Compose returns the transform applying other first, then tf.
func (tf *Transform) Compose(other *Transform) *Transform {
	switch {
	case tf == nil:
		return other
	case other == nil:
		return tf
	}
	var fwd, inv mat.Dense
	fwd.Mul(tf.Matrix(), other.Matrix())
	inv.Mul(other.Inverse().Matrix(), tf.Inverse().Matrix())

	out := &Transform{rigid: tf.rigid && other.rigid}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			out.fwd[i*4+j] = fwd.At(i, j)
			out.inv[i*4+j] = inv.At(i, j)
		}
	}
	return out
}

// IsRigid reports whether the transform preserves distances.
func (tf *Transform) IsRigid() bool {
	return tf == nil || tf.rigid
}

// Apply maps a point.
func (tf *Transform) Apply(p r3.Vector) r3.Vector {
	if tf == nil {
		return p
	}
	return applyAffine(&tf.fwd, p, 1)
}

// ApplyInverse maps a point through the inverse transform.
func (tf *Transform) ApplyInverse(p r3.Vector) r3.Vector {
	if tf == nil {
		return p
	}
	return applyAffine(&tf.inv, p, 1)
}

// ApplyDirection maps a direction, ignoring translation.
func (tf *Transform) ApplyDirection(d r3.Vector) r3.Vector {
	if tf == nil {
		return d
	}
	return applyAffine(&tf.fwd, d, 0)
}

// ApplyInverseDirection maps a direction through the inverse transform, ignoring translation.
func (tf *Transform) ApplyInverseDirection(d r3.Vector) r3.Vector {
	if tf == nil {
		return d
	}
	return applyAffine(&tf.inv, d, 0)
}

// TransformBox returns the axis-aligned bounds of b after mapping all eight of its corners through tf.
func (tf *Transform) TransformBox(b AABB) AABB {
	if tf == nil || b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := r3.Vector{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]}
		if i&1 != 0 {
			corner.X = b.Max[0]
		}
		if i&2 != 0 {
			corner.Y = b.Max[1]
		}
		if i&4 != 0 {
			corner.Z = b.Max[2]
		}
		out.AddPoint(toArray(tf.Apply(corner)))
	}
	return out
}

func applyAffine(m *[12]float64, p r3.Vector, w float64) r3.Vector {
	return r3.Vector{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]*w,
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]*w,
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]*w,
	}
}

func isOrthonormal(linear mat.Matrix) bool {
	var prod mat.Dense
	prod.Mul(linear.T(), linear)
	return mat.EqualApprox(&prod, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-9)
}
