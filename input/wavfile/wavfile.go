// Package wavfile plays a 16-bit PCM WAV file through the pipeline at the
// pace a live device would deliver it.
package wavfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/utils/endian"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("wavfile", Backend{})
}

// Backend lists the WAV files in the working directory.
type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	paths, err := filepath.Glob("*.wav")
	if err != nil {
		return nil, errors.Wrap(err, "failed to glob *.wav")
	}

	devices := make([]input.Device, len(paths))
	for i, path := range paths {
		devices[i] = File(path)
	}

	return devices, nil
}

// DefaultDevice is the first WAV file in the working directory.
func (b Backend) DefaultDevice() (input.Device, error) {
	devices, err := b.Devices()
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, errors.New("no .wav files in the working directory")
	}

	return devices[0], nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(File)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(string(dv), cfg)
}

// File is the path to a WAV file.
type File string

func (f File) String() string {
	return string(f)
}

// Session reads one buffer per period from a WAV file.
type Session struct {
	file *os.File
	dec  *wav.Decoder
	cfg  input.SessionConfig

	// Pace is the delay between buffers. It defaults to the buffer period;
	// zero reads as fast as the processor allows.
	Pace time.Duration
}

// NewSession opens path and checks that its format matches cfg.
func NewSession(path string, cfg input.SessionConfig) (*Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open wav file")
	}

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("%s: not a valid wav file", path)
	}

	switch {
	case dec.BitDepth != 16:
		file.Close()
		return nil, fmt.Errorf("%s: %d-bit samples, only 16-bit is supported", path, dec.BitDepth)

	case int(dec.NumChans) != cfg.FrameSize:
		file.Close()
		return nil, fmt.Errorf("%s: %d channels, expected %d", path, dec.NumChans, cfg.FrameSize)

	// the processing budget is derived from the configured rate
	case float64(dec.SampleRate) != cfg.SampleRate:
		file.Close()
		return nil, fmt.Errorf("%s: sampled at %d Hz, expected %.0f Hz (set --rate)",
			path, dec.SampleRate, cfg.SampleRate)
	}

	return &Session{
		file: file,
		dec:  dec,
		cfg:  cfg,
		Pace: cfg.Period(),
	}, nil
}

// Start feeds the file to proc until it ends or ctx is done. Reaching the
// end of the file is not an error.
func (s *Session) Start(ctx context.Context, proc input.Processor) error {
	size := s.cfg.SampleSize * s.cfg.FrameSize

	buf := &audio.IntBuffer{
		Data: make([]int, size),
		Format: &audio.Format{
			NumChannels: s.cfg.FrameSize,
			SampleRate:  int(s.cfg.SampleRate),
		},
		SourceBitDepth: 16,
	}

	samples := make([]int16, size)
	sampleProc, typed := proc.(input.SampleProcessor)

	var tick <-chan time.Time
	if s.Pace > 0 {
		ticker := time.NewTicker(s.Pace)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		n, err := s.dec.PCMBuffer(buf)
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "failed to read wav data")
		}

		if n == 0 {
			return nil
		}

		for i, v := range buf.Data[:n] {
			samples[i] = int16(v)
		}

		if typed {
			sampleProc.ProcessSamples(samples[:n])
		} else {
			proc.Process(endian.Bytes(samples[:n]))
		}

		if tick == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

func (s *Session) Close() error {
	return s.file.Close()
}
