package rechunk

import (
	"bytes"
	"testing"
)

type recorder struct {
	frames [][]byte
}

func (r *recorder) Process(raw []byte) error {
	r.frames = append(r.frames, append([]byte(nil), raw...))
	return nil
}

func TestChunkerUnevenWrites(t *testing.T) {
	rec := &recorder{}
	c := New(256, rec)

	data := make([]byte, 900)
	for i := range data {
		data[i] = byte(i % 251)
	}

	for off := 0; off < len(data); off += 300 {
		if n, err := c.Write(data[off : off+300]); n != 300 || err != nil {
			t.Fatalf("write: n=%d err=%v", n, err)
		}
	}

	if len(rec.frames) != 3 {
		t.Fatalf("got %d buffers, want 3", len(rec.frames))
	}

	for i, frame := range rec.frames {
		if !bytes.Equal(frame, data[i*256:(i+1)*256]) {
			t.Errorf("buffer %d out of order", i)
		}
	}

	if c.Pending() != 900-3*256 {
		t.Errorf("pending: got %d, want %d", c.Pending(), 900-3*256)
	}

	c.Reset()
	if c.Pending() != 0 {
		t.Errorf("pending after reset: %d", c.Pending())
	}
}

func TestChunkerLargeWrite(t *testing.T) {
	rec := &recorder{}
	c := New(16, rec)

	// larger than the ring itself
	data := make([]byte, 16*ringBuffers*3)
	for i := range data {
		data[i] = byte(i)
	}

	c.Write(data)

	if len(rec.frames) != ringBuffers*3 {
		t.Fatalf("got %d buffers, want %d", len(rec.frames), ringBuffers*3)
	}

	for i, frame := range rec.frames {
		if !bytes.Equal(frame, data[i*16:(i+1)*16]) {
			t.Errorf("buffer %d mismatch", i)
		}
	}
}
