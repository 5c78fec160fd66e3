package dsp

import (
	"encoding/binary"

	"github.com/noriah/ampvis/input/utils/endian"
	"github.com/pkg/errors"
)

// SampleBytes is the width of one signed 16-bit sample.
const SampleBytes = 2

// ErrEmptyBuffer is returned when there is no data to decode.
var ErrEmptyBuffer = errors.New("empty buffer")

// hostOrder is the byte order drivers hand us samples in.
var hostOrder = endian.Order()

// Decode reads raw as host-order signed 16-bit samples and widens them into
// dst. One value is produced per sample; channels stay interleaved. dst is
// reused if it has room. A trailing odd byte is ignored.
func Decode(dst []float64, raw []byte) ([]float64, error) {
	return DecodeOrder(dst, raw, hostOrder)
}

// DecodeOrder is Decode with an explicit byte order.
func DecodeOrder(dst []float64, raw []byte, order binary.ByteOrder) ([]float64, error) {
	count := len(raw) / SampleBytes
	if count == 0 {
		return dst[:0], ErrEmptyBuffer
	}

	dst = grow(dst, count)

	for xSmpl := range dst {
		dst[xSmpl] = float64(int16(order.Uint16(raw[xSmpl*SampleBytes:])))
	}

	return dst, nil
}

// Widen is Decode for drivers that already hand over typed samples.
func Widen(dst []float64, samples []int16) ([]float64, error) {
	if len(samples) == 0 {
		return dst[:0], ErrEmptyBuffer
	}

	dst = grow(dst, len(samples))

	for xSmpl, v := range samples {
		dst[xSmpl] = float64(v)
	}

	return dst, nil
}

func grow(buf []float64, size int) []float64 {
	if cap(buf) < size {
		return make([]float64, size)
	}
	return buf[:size]
}
