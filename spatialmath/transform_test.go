package spatialmath

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func vectorsClose(t *testing.T, got, expected r3.Vector) {
	t.Helper()
	test.That(t, got.Sub(expected).Norm(), test.ShouldBeLessThan, 1e-9)
}

func TestIdentityTransform(t *testing.T) {
	var tf *Transform
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, tf.Apply(p), test.ShouldResemble, p)
	test.That(t, tf.ApplyInverse(p), test.ShouldResemble, p)
	test.That(t, tf.IsRigid(), test.ShouldBeTrue)
	test.That(t, mat.Equal(tf.Matrix(), mat.NewDiagDense(4, []float64{1, 1, 1, 1})), test.ShouldBeTrue)
	box := NewAABB(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, tf.TransformBox(box), test.ShouldResemble, box)
}

func TestRotation(t *testing.T) {
	tf, err := NewRotation(r3.Vector{Z: 1}, math.Pi/2, r3.Vector{X: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tf.IsRigid(), test.ShouldBeTrue)

	vectorsClose(t, tf.Apply(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 1})
	vectorsClose(t, tf.ApplyDirection(r3.Vector{X: 1}), r3.Vector{Y: 1})
	vectorsClose(t, tf.ApplyInverse(r3.Vector{X: 1, Y: 1}), r3.Vector{X: 1})
	vectorsClose(t, tf.ApplyInverseDirection(r3.Vector{Y: 1}), r3.Vector{X: 1})

	_, err = NewRotation(r3.Vector{}, 1, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestScaleIsNotRigid(t *testing.T) {
	tf, err := NewScale(r3.Vector{X: 2, Y: 1, Z: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tf.IsRigid(), test.ShouldBeFalse)
	vectorsClose(t, tf.Apply(r3.Vector{X: 1, Y: 1, Z: 1}), r3.Vector{X: 2, Y: 1, Z: 1})
	vectorsClose(t, tf.ApplyInverse(r3.Vector{X: 2, Y: 1, Z: 1}), r3.Vector{X: 1, Y: 1, Z: 1})

	_, err = NewScale(r3.Vector{Y: 1, Z: 1})
	test.That(t, errors.Is(err, ErrSingularTransform), test.ShouldBeTrue)
}

func TestTransformFromMatrix(t *testing.T) {
	_, err := NewTransformFromMatrix(mat.NewDense(3, 3, nil))
	test.That(t, err, test.ShouldNotBeNil)

	m := mat.NewDense(4, 4, []float64{
		0, -1, 0, 5,
		1, 0, 0, 6,
		0, 0, 1, 7,
		9, 9, 9, 9,
	})
	tf, err := NewTransformFromMatrix(m)
	test.That(t, err, test.ShouldBeNil)
	vectorsClose(t, tf.Apply(r3.Vector{X: 1}), r3.Vector{X: 5, Y: 7, Z: 7})
	test.That(t, tf.Matrix().At(3, 0), test.ShouldEqual, 0.)
	test.That(t, tf.Matrix().At(3, 3), test.ShouldEqual, 1.)
}

func TestCompose(t *testing.T) {
	rot, err := NewRotation(r3.Vector{Z: 1}, math.Pi/2, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	move := NewTranslation(r3.Vector{X: 1})

	// rotate, then move
	tf := move.Compose(rot)
	vectorsClose(t, tf.Apply(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 1})
	vectorsClose(t, tf.ApplyInverse(r3.Vector{X: 1, Y: 1}), r3.Vector{X: 1})
	test.That(t, tf.IsRigid(), test.ShouldBeTrue)

	var identity *Transform
	test.That(t, identity.Compose(move), test.ShouldEqual, move)
	test.That(t, move.Compose(nil), test.ShouldEqual, move)

	inv := tf.Inverse()
	vectorsClose(t, inv.Apply(tf.Apply(r3.Vector{X: 3, Y: -2, Z: 5})), r3.Vector{X: 3, Y: -2, Z: 5})
}

func TestTransformBox(t *testing.T) {
	rot, err := NewRotation(r3.Vector{Z: 1}, math.Pi/4, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	box := rot.TransformBox(NewAABB(r3.Vector{X: -1, Y: -1}, r3.Vector{X: 1, Y: 1, Z: 1}))
	vectorsClose(t, AABBMin(box), r3.Vector{X: -math.Sqrt2, Y: -math.Sqrt2})
	vectorsClose(t, AABBMax(box), r3.Vector{X: math.Sqrt2, Y: math.Sqrt2, Z: 1})

	test.That(t, rot.TransformBox(EmptyAABB()).IsEmpty(), test.ShouldBeTrue)
}
