package dsp

import "gonum.org/v1/gonum/floats"

// Segment returns the half-open range [lo, hi) covered by bar idx when a frame
// of size values is split into count contiguous bars. Bar sizes differ by at
// most one and the earlier bars take the remainder.
func Segment(size, count, idx int) (lo, hi int) {
	base, extra := size/count, size%count

	lo = idx*base + minInt(idx, extra)
	hi = lo + base
	if idx < extra {
		hi++
	}

	return lo, hi
}

// Aggregate splits frame into numBars contiguous segments and writes the mean
// of each into dst. An empty segment has a mean of 0.
func Aggregate(dst, frame []float64, numBars int) []float64 {
	if numBars < 1 {
		return dst[:0]
	}

	dst = grow(dst, numBars)

	for xBar := range dst {
		lo, hi := Segment(len(frame), numBars, xBar)
		if lo == hi {
			dst[xBar] = 0
			continue
		}

		dst[xBar] = floats.Sum(frame[lo:hi]) / float64(hi-lo)
	}

	return dst
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
