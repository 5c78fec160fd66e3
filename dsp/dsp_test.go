package dsp

import (
	"encoding/binary"
	"math"
	"testing"
)

const tolerance = 1e-9

func encode(order binary.ByteOrder, samples ...int16) []byte {
	raw := make([]byte, len(samples)*SampleBytes)
	for i, v := range samples {
		order.PutUint16(raw[i*SampleBytes:], uint16(v))
	}
	return raw
}

func alternating(pairs int, lo, hi int16) []int16 {
	out := make([]int16, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		out = append(out, lo, hi)
	}
	return out
}

func TestDecode(t *testing.T) {
	raw := encode(hostOrder, 0, 1000, -1, math.MaxInt16, math.MinInt16)

	got, err := Decode(nil, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []float64{0, 1000, -1, math.MaxInt16, math.MinInt16}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeOrder(t *testing.T) {
	raw := []byte{0x01, 0x02}

	le, _ := DecodeOrder(nil, raw, binary.LittleEndian)
	be, _ := DecodeOrder(nil, raw, binary.BigEndian)

	if le[0] != 0x0201 {
		t.Errorf("little endian: got %v", le[0])
	}

	if be[0] != 0x0102 {
		t.Errorf("big endian: got %v", be[0])
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, {0x7f}} {
		if _, err := Decode(nil, raw); err != ErrEmptyBuffer {
			t.Errorf("len %d: got %v, want ErrEmptyBuffer", len(raw), err)
		}
	}
}

func TestDecodeOddTrailingByte(t *testing.T) {
	raw := append(encode(hostOrder, 7, 9), 0xff)

	got, err := Decode(nil, raw)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
}

func TestDecodeReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 64)

	got, err := Decode(buf, encode(hostOrder, 1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}

	if &got[0] != &buf[:1][0] {
		t.Error("expected dst to be reused")
	}
}

func TestWiden(t *testing.T) {
	got, err := Widen(nil, []int16{-5, 0, 5})
	if err != nil {
		t.Fatal(err)
	}

	if got[0] != -5 || got[1] != 0 || got[2] != 5 {
		t.Errorf("got %v", got)
	}

	if _, err := Widen(nil, nil); err != ErrEmptyBuffer {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}

func TestNormalizeRange(t *testing.T) {
	frames := [][]float64{
		{0, 1000},
		{-32768, 32767, 0, 12, -4},
		{3, 1, 4, 1, 5, 9, 2, 6},
		{-7, -3},
	}

	for _, frame := range frames {
		out := Normalize(nil, frame)
		if len(out) != len(frame) {
			t.Fatalf("got length %d, want %d", len(out), len(frame))
		}

		for i, v := range out {
			if v < -tolerance || v > 1+tolerance {
				t.Errorf("frame %v idx %d: %v outside [0, 1]", frame, i, v)
			}
		}
	}
}

func TestNormalizeConstant(t *testing.T) {
	frame, err := Decode(nil, encode(hostOrder, 1000, 1000, 1000, 1000))
	if err != nil {
		t.Fatal(err)
	}

	out := Normalize(nil, frame)
	if HasNaN(out) {
		t.Fatal("constant frame produced NaN")
	}

	for i, v := range out {
		if math.IsInf(v, 0) {
			t.Fatalf("idx %d: infinite value", i)
		}

		if math.Abs(v) > tolerance {
			t.Errorf("idx %d: got %v, want ~0", i, v)
		}
	}
}

func TestHasNaN(t *testing.T) {
	if HasNaN([]float64{0, 1, math.Inf(1)}) {
		t.Error("no NaN expected")
	}

	if !HasNaN([]float64{0, math.NaN()}) {
		t.Error("NaN expected")
	}
}

func TestSegment(t *testing.T) {
	sizes := []int{3, 2, 2, 2, 2, 2, 2, 2}

	next := 0
	for idx, want := range sizes {
		lo, hi := Segment(17, 8, idx)
		if lo != next {
			t.Errorf("bar %d: starts at %d, want %d", idx, lo, next)
		}

		if hi-lo != want {
			t.Errorf("bar %d: size %d, want %d", idx, hi-lo, want)
		}

		next = hi
	}

	if next != 17 {
		t.Errorf("segments cover %d values, want 17", next)
	}
}

func TestAggregateLength(t *testing.T) {
	tests := []struct {
		size, bars int
	}{
		{17, 8},
		{16, 8},
		{2048, 8},
		{3, 8},
		{0, 8},
		{9, 1},
	}

	for _, test := range tests {
		frame := make([]float64, test.size)
		for i := range frame {
			frame[i] = 1
		}

		out := Aggregate(nil, frame, test.bars)
		if len(out) != test.bars {
			t.Errorf("size %d: got %d bars, want %d", test.size, len(out), test.bars)
		}

		for i, v := range out {
			if math.IsNaN(v) {
				t.Errorf("size %d bar %d: NaN", test.size, i)
			}
		}
	}
}

func TestAggregateUneven(t *testing.T) {
	frame := make([]float64, 17)
	for i := range frame {
		frame[i] = float64(i)
	}

	out := Aggregate(nil, frame, 8)

	// [0 1 2] [3 4] [5 6] ... [15 16]
	want := []float64{1, 3.5, 5.5, 7.5, 9.5, 11.5, 13.5, 15.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > tolerance {
			t.Errorf("bar %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestAggregateEmptySegments(t *testing.T) {
	out := Aggregate(nil, []float64{1, 1, 1}, 8)

	want := []float64{1, 1, 1, 0, 0, 0, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("bar %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestAggregateNoBars(t *testing.T) {
	if out := Aggregate(nil, []float64{1, 2}, 0); len(out) != 0 {
		t.Errorf("got %v, want empty", out)
	}
}

func TestScaleExample(t *testing.T) {
	bars := []float64{0.1, 0.4, 0.2, 0.8, math.NaN(), 0.0, 0.3, 0.05}
	want := []int{2, 10, 5, 20, 0, 0, 7, 1}

	got := Scale(nil, bars, 20)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bar %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScaleBounds(t *testing.T) {
	tests := []struct {
		name string
		bars []float64
	}{
		{"zeros", []float64{0, 0, 0, 0}},
		{"large", []float64{5, 40, 12, 0.5}},
		{"negative", []float64{-1, 0.5, -0.25, 0.25}},
		{"inf", []float64{math.Inf(1), 0.5, math.Inf(-1), 1}},
		{"nan", []float64{math.NaN(), math.NaN()}},
		{"small", []float64{0.001, 0.002, 0.0005}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Scale(nil, test.bars, 20)
			if len(got) != len(test.bars) {
				t.Fatalf("got %d heights, want %d", len(got), len(test.bars))
			}

			peak, top := 0.0, 0
			for i, h := range got {
				if h < 0 || h > 20 {
					t.Errorf("bar %d: height %d outside [0, 20]", i, h)
				}

				if v := clean(test.bars[i]); v > peak {
					peak = v
				}

				if h > top {
					top = h
				}
			}

			switch {
			case peak > 0 && top != 20:
				t.Errorf("largest bar scaled to %d, want 20", top)
			case peak == 0 && top != 0:
				t.Errorf("all-zero frame scaled to %d, want 0", top)
			}
		})
	}
}

func TestPipelineStagesAlternating(t *testing.T) {
	raw := encode(hostOrder, alternating(8, 0, 1000)...)

	frame, err := Decode(nil, raw)
	if err != nil {
		t.Fatal(err)
	}

	if len(frame) != 16 {
		t.Fatalf("got %d samples, want 16", len(frame))
	}

	norm := Normalize(nil, frame)
	for i, v := range norm {
		want := 0.0
		if i%2 == 1 {
			want = 1.0
		}

		if math.Abs(v-want) > tolerance {
			t.Errorf("normalized %d: got %v, want %v", i, v, want)
		}
	}

	// Each bar covers one (0, 1000) pair.
	bars := Aggregate(nil, norm, 8)
	for i, v := range bars {
		if math.Abs(v-0.5) > tolerance {
			t.Errorf("bar %d: got %v, want 0.5", i, v)
		}
	}

	for i, h := range Scale(nil, bars, 20) {
		if h != 20 {
			t.Errorf("height %d: got %d, want 20", i, h)
		}
	}
}

func BenchmarkStages(b *testing.B) {
	raw := encode(hostOrder, alternating(1024, -12000, 9000)...)

	var (
		frame []float64
		norm  []float64
		bars  []float64
		out   []int
	)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		frame, _ = Decode(frame, raw)
		norm = Normalize(norm, frame)
		bars = Aggregate(bars, norm, 8)
		out = Scale(out, bars, 20)
	}
}
