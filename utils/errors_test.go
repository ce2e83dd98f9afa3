package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("distance_field", "max_resolution")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "distance_field")
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_resolution")

	err = NewConfigValidationOutOfRangeError("distance_field", "margin", -1., 0)
	test.That(t, err.Error(), test.ShouldContainSubstring, "distance_field")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"margin" must be at least 0, got -1`)
}

func TestMathHelpers(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-9), test.ShouldBeFalse)
	test.That(t, Lerp(2, 4, 0.25), test.ShouldEqual, 2.5)
	test.That(t, CeilToInt(2.0000000001, 1e-9), test.ShouldEqual, 2)
	test.That(t, CeilToInt(2.1, 1e-9), test.ShouldEqual, 3)
	test.That(t, CeilToInt(3, 1e-9), test.ShouldEqual, 3)
}
