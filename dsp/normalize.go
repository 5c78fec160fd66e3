package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Epsilon keeps the normalization denominator away from zero when every
// sample in a frame has the same value.
const Epsilon = 1e-10

// Normalize rescales src into [0, 1] using its own minimum and maximum and
// writes the result to dst. A constant frame maps to values near 0.
func Normalize(dst, src []float64) []float64 {
	dst = grow(dst, len(src))
	if len(src) == 0 {
		return dst
	}

	lo := floats.Min(src)
	hi := floats.Max(src)
	span := hi - lo + Epsilon

	for idx, v := range src {
		dst[idx] = (v - lo) / span
	}

	return dst
}

// HasNaN reports whether any value in buf is NaN.
func HasNaN(buf []float64) bool {
	for _, v := range buf {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
