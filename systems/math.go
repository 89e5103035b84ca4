package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clamp functions for common value ranges

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// Vector helpers

// defaultAxis replaces the direction of a zero-length vector.
var defaultAxis = r2.Vec{X: 1}

// unitOr returns the unit vector of v, or fallback when v has zero length.
func unitOr(v, fallback r2.Vec) r2.Vec {
	if v.X == 0 && v.Y == 0 {
		return fallback
	}
	return r2.Unit(v)
}

// distanceSq returns the squared distance between two points.
func distanceSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// isFinite reports whether both components are finite.
func isFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// sigmoid is a logistic curve from lower to upper; sign selects its direction.
func sigmoid(x, sign, upper, lower, slope, shift float64) float64 {
	return lower + (upper-lower)*((1-sign)/2+sign/(1+slope*math.Exp(x-1+shift)))
}
