package input

import (
	"context"
	"time"
)

// SampleBytes is the width of one captured sample. Sessions always deliver
// signed 16-bit samples in host byte order.
const SampleBytes = 2

// Device is an audio source exposed by a backend.
type Device interface {
	String() string
}

// SessionConfig describes the stream a backend should open.
type SessionConfig struct {
	Device     Device  // device to capture from
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per buffer
	SampleRate float64 // sample rate
}

// BufferBytes is the size of one raw buffer.
func (cfg SessionConfig) BufferBytes() int {
	return cfg.SampleSize * cfg.FrameSize * SampleBytes
}

// Period is the real time covered by one buffer. Processing a buffer has to
// finish within it.
func (cfg SessionConfig) Period() time.Duration {
	if cfg.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) * float64(cfg.SampleSize) / cfg.SampleRate)
}

// Processor is called once per captured buffer on the session's capture
// thread. raw holds interleaved host-order int16 samples and must not be
// retained after the call returns. A nil or empty raw means no data arrived.
type Processor interface {
	Process(raw []byte) error
}

// SampleProcessor is implemented by processors that can take typed samples
// directly, for drivers that hand over []int16.
type SampleProcessor interface {
	Processor
	ProcessSamples(samples []int16) error
}

// Session is an open capture stream.
type Session interface {
	// Start begins capture and calls proc for every buffer. It blocks until
	// ctx is done or the stream fails, and stops capture before returning.
	// In-flight calls to proc have returned by the time Start returns.
	Start(ctx context.Context, proc Processor) error
	// Close releases the stream.
	Close() error
}
