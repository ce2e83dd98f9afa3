package utils

import (
	"math"
)

// Float64AlmostEqual reports whether a and b differ by at most epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Lerp linearly interpolates between a and b, returning a at t = 0 and b at t = 1.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// CeilToInt returns the smallest integer not below x, treating values within epsilon above an integer as
// that integer.
func CeilToInt(x, epsilon float64) int {
	return int(math.Ceil(x - epsilon))
}
