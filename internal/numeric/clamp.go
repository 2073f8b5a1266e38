// Package numeric holds the clamping helpers shared by the propagation model.
package numeric

import "math"

// Clamp01 bounds v to [0,1]. NaN collapses to 0.
func Clamp01(v float64) float64 {
	return ClampRange(v, 0, 1)
}

// ClampRange bounds v to [lo,hi]. NaN collapses to lo.
func ClampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b for t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
