package wavfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/ampvis/input"
)

type recorder struct {
	buffers [][]int16
}

func (r *recorder) Process(raw []byte) error {
	panic("typed processors should get samples")
}

func (r *recorder) ProcessSamples(samples []int16) error {
	r.buffers = append(r.buffers, append([]int16(nil), samples...))
	return nil
}

func writeWav(t *testing.T, path string, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 40000, 16, channels, 1)
	err = enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: 40000},
		SourceBitDepth: 16,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSessionReadsBuffers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	data := make([]int, 20)
	for i := range data {
		data[i] = (i % 2) * 1000
	}
	writeWav(t, path, 2, data)

	cfg := input.SessionConfig{FrameSize: 2, SampleSize: 4, SampleRate: 40000}

	sess, err := NewSession(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	sess.Pace = 0

	rec := &recorder{}
	if err := sess.Start(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	// 20 samples in buffers of 8: two full, one partial
	if len(rec.buffers) != 3 {
		t.Fatalf("got %d buffers, want 3", len(rec.buffers))
	}

	if len(rec.buffers[2]) != 4 {
		t.Errorf("last buffer: got %d samples, want 4", len(rec.buffers[2]))
	}

	if rec.buffers[0][1] != 1000 || rec.buffers[0][0] != 0 {
		t.Errorf("unexpected samples %v", rec.buffers[0])
	}
}

func TestSessionChannelMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWav(t, path, 1, make([]int, 8))

	cfg := input.SessionConfig{FrameSize: 2, SampleSize: 4, SampleRate: 40000}
	if _, err := NewSession(path, cfg); err == nil {
		t.Fatal("expected a channel count error")
	}
}

func TestSessionRateMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWav(t, path, 2, make([]int, 8))

	cfg := input.SessionConfig{FrameSize: 2, SampleSize: 4, SampleRate: 44100}
	if _, err := NewSession(path, cfg); err == nil {
		t.Fatal("expected a sample rate error")
	}
}

func TestSessionCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.wav")
	writeWav(t, path, 2, make([]int, 4000))

	cfg := input.SessionConfig{FrameSize: 2, SampleSize: 4, SampleRate: 40000}

	sess, err := NewSession(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	sess.Pace = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	if err := sess.Start(ctx, rec); err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	if len(rec.buffers) != 1 {
		t.Errorf("got %d buffers after cancel, want 1", len(rec.buffers))
	}
}
