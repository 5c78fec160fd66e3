// Package portaudio captures through PortAudio's callback API.
package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/utils/endian"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("portaudio", &Backend{})
}

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	initialized bool
	devices     []*portaudio.DeviceInfo
}

func (b *Backend) Init() error {
	if b.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize portaudio")
	}

	b.initialized = true
	return nil
}

func (b *Backend) Close() error {
	if !b.initialized {
		return nil
	}

	b.initialized = false
	b.devices = nil
	return portaudio.Terminate()
}

// Devices returns every device PortAudio knows about, in PortAudio's index
// order, so a device index means the same thing here as in other PortAudio
// tools.
func (b *Backend) Devices() ([]input.Device, error) {
	if b.devices == nil {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		b.devices = devices
	}

	gDevices := make([]input.Device, len(b.devices))
	for i, device := range b.devices {
		gDevices[i] = Device{device}
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "no default input device found")
	}

	return Device{device}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from Portaudio.
type Session struct {
	stream *portaudio.Stream
	proc   input.Processor
	sproc  input.SampleProcessor
}

// NewSession opens an input-only stream on the configured device.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, fmt.Errorf("device is on unknown type %T", cfg.Device)
	}

	if dv.MaxInputChannels < cfg.FrameSize {
		return nil, errors.Errorf("device %q has %d input channels, %d required",
			dv.Name, dv.MaxInputChannels, cfg.FrameSize)
	}

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dv.DeviceInfo,
			Latency:  dv.DefaultLowInputLatency,
			Channels: cfg.FrameSize,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.SampleSize,
	}

	s := &Session{}

	stream, err := portaudio.OpenStream(param, s.callback)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stream")
	}

	s.stream = stream
	return s, nil
}

// callback runs on PortAudio's capture thread.
func (s *Session) callback(in []int16) {
	if s.sproc != nil {
		s.sproc.ProcessSamples(in)
		return
	}

	s.proc.Process(endian.Bytes(in))
}

// Start sets the processor, starts the stream and waits for ctx.
func (s *Session) Start(ctx context.Context, proc input.Processor) error {
	// The callback does not run before stream.Start, so these are set
	// before PortAudio's thread can read them.
	s.proc = proc
	s.sproc, _ = proc.(input.SampleProcessor)

	if err := s.stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}

	<-ctx.Done()

	// Stop waits for a running callback to return.
	if err := s.stream.Stop(); err != nil {
		return errors.Wrap(err, "failed to stop stream")
	}

	return ctx.Err()
}

// Close closes the stream.
func (s *Session) Close() error {
	return s.stream.Close()
}
