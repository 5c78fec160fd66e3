// Package ampvis captures audio and draws the amplitude of every buffer as a
// handful of bars.
package ampvis

import (
	"context"
	"log"
	"os"

	"github.com/noriah/ampvis/graphic"
	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/processor"
	"github.com/pkg/errors"
)

// StatusLine receives user facing lifecycle messages.
type StatusLine interface {
	Error(msg string)
	Warn(msg string)
	Success(msg string)
}

// Config is the full set of parameters for a run.
type Config struct {
	// Backend is the backend name from list-backends. Empty picks the
	// platform default.
	Backend string
	// Device is a device index or name from list-devices. Empty picks the
	// backend default.
	Device string
	// SampleRate is the rate at which samples are read
	SampleRate float64
	// SampleSize is the number of frames per buffer
	SampleSize int
	// ChannelCount is the number of interleaved channels
	ChannelCount int
	// NumBars is the number of bars drawn per frame
	NumBars int
	// MaxHeight is the length of the tallest bar
	MaxHeight int
	// WindowSize is how many buffers the timing statistics cover
	WindowSize int

	// SetupFunc is called after the stream is opened, before capture
	SetupFunc func() error
	// StartFunc may wrap the run context, e.g. to stop on a key press
	StartFunc func(ctx context.Context) (context.Context, error)
	// CleanupFunc is called after capture stops
	CleanupFunc func() error

	Output processor.Output
	Status StatusLine
}

// NewZeroConfig returns the default configuration: 16-bit stereo at 40 kHz,
// 1024 frames per buffer, 8 bars of up to 20 cells.
func NewZeroConfig() Config {
	return Config{
		SampleRate:   40000,
		SampleSize:   1024,
		ChannelCount: 2,
		NumBars:      8,
		MaxHeight:    20,
		WindowSize:   64,
	}
}

// Sanitize validates cfg and fills in defaults.
func (cfg *Config) Sanitize() error {
	if cfg.Backend == "" {
		if cfg.Backend = input.DefaultBackend(); cfg.Backend == "" {
			return errors.New("no usable backend; check list-backends")
		}
	}

	if cfg.SampleSize < 1 {
		return errors.New("sample size too small (1+ required)")
	}

	if cfg.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	switch {
	case cfg.ChannelCount > 2:
		return errors.New("too many channels (2 max)")

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")
	}

	if cfg.NumBars < 1 {
		return errors.New("too few bars (1 min)")
	}

	if cfg.MaxHeight < 1 {
		return errors.New("max height too small (1 min)")
	}

	if cfg.WindowSize < 1 {
		cfg.WindowSize = 64
	}

	if cfg.Output == nil {
		cfg.Output = graphic.NewConsole(os.Stdout)
	}

	if cfg.Status == nil {
		cfg.Status = graphic.NewStatus(os.Stdout)
	}

	return nil
}

// Run opens the configured device and draws until ctx is done or the stream
// ends. The audio device is released on every return path.
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Sanitize(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}

	defer func() {
		if err := backend.Close(); err != nil {
			log.Println("failed to release audio backend:", err)
			return
		}
		cfg.Status.Success("Audio device released.")
	}()

	sessConfig := input.SessionConfig{
		FrameSize:  cfg.ChannelCount,
		SampleSize: cfg.SampleSize,
		SampleRate: cfg.SampleRate,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	session, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}
	defer session.Close()

	proc := processor.New(processor.Config{
		SampleRate:   cfg.SampleRate,
		SampleSize:   cfg.SampleSize,
		ChannelCount: cfg.ChannelCount,
		NumBars:      cfg.NumBars,
		MaxHeight:    cfg.MaxHeight,
		WindowSize:   cfg.WindowSize,
		Output:       cfg.Output,
		Status:       cfg.Status,
	})

	var started bool

	// registered before CleanupFunc so it prints once the display has given
	// the terminal back
	defer func() {
		if started {
			cfg.Status.Error("Audio stream stopped!")
			logStats(proc.Stats())
		}
	}()

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return err
		}
	}

	cfg.Status.Warn("Audio stream started!")
	started = true

	err = session.Start(ctx, proc)

	// a cancelled context is the normal way out
	if err != nil && !errors.Is(err, ctx.Err()) {
		return errors.Wrap(err, "failed to run input session")
	}

	return nil
}

func logStats(s processor.Stats) {
	log.Printf("%d frames drawn, %d dropped, %d over the %v budget (mean %v, stddev %v)",
		s.Frames, s.Dropped, s.Overruns, s.Budget, s.Mean, s.StdDev)
}
