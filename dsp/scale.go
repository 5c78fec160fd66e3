package dsp

import "math"

// Scale converts bar values into integer heights in [0, maxHeight], relative
// to the largest value in this frame. Non-finite values count as 0. When no
// bar is above 0 the reference peak is 1, so an all-zero frame scales to all
// zeros. Heights are truncated, not rounded.
func Scale(dst []int, bars []float64, maxHeight int) []int {
	if cap(dst) < len(bars) {
		dst = make([]int, len(bars))
	}
	dst = dst[:len(bars)]

	if maxHeight < 0 {
		maxHeight = 0
	}

	peak := 0.0
	for _, v := range bars {
		if v = clean(v); v > peak {
			peak = v
		}
	}

	if peak <= 0 {
		peak = 1
	}

	for xBar, v := range bars {
		h := int(clean(v) / peak * float64(maxHeight))

		switch {
		case h < 0:
			h = 0
		case h > maxHeight:
			h = maxHeight
		}

		dst[xBar] = h
	}

	return dst
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
