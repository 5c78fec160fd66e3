// Package malgo captures through miniaudio.
package malgo

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/common/rechunk"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("malgo", &Backend{})
}

// Backend owns the miniaudio context. A zero-value instance is a valid
// instance.
type Backend struct {
	ctx *malgo.AllocatedContext
}

func (b *Backend) Init() error {
	if b.ctx != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return errors.Wrap(err, "failed to initialize miniaudio context")
	}

	b.ctx = ctx
	return nil
}

func (b *Backend) Close() error {
	if b.ctx == nil {
		return nil
	}

	err := b.ctx.Uninit()
	b.ctx.Free()
	b.ctx = nil

	return err
}

func (b *Backend) Devices() ([]input.Device, error) {
	if b.ctx == nil {
		return nil, errors.New("backend not initialized")
	}

	infos, err := b.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get capture devices")
	}

	devices := make([]input.Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{info: info}
	}

	return devices, nil
}

// DefaultDevice lets miniaudio pick the capture device.
func (b *Backend) DefaultDevice() (input.Device, error) {
	return Device{isDefault: true}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	if b.ctx == nil {
		return nil, errors.New("backend not initialized")
	}

	return NewSession(b.ctx, cfg)
}

// Device is a miniaudio capture device.
type Device struct {
	info      malgo.DeviceInfo
	isDefault bool
}

func (d Device) String() string {
	if d.isDefault {
		return "default"
	}
	return d.info.Name()
}

// Session is a miniaudio capture device.
type Session struct {
	device  *malgo.Device
	chunker *rechunk.Chunker
	size    int
}

// NewSession initializes a capture device for cfg.
func NewSession(ctx *malgo.AllocatedContext, cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	devConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	devConfig.Capture.Format = malgo.FormatS16
	devConfig.Capture.Channels = uint32(cfg.FrameSize)
	devConfig.SampleRate = uint32(cfg.SampleRate)
	devConfig.PeriodSizeInFrames = uint32(cfg.SampleSize)
	devConfig.Alsa.NoMMap = 1

	if !dv.isDefault {
		devConfig.Capture.DeviceID = dv.info.ID.Pointer()
	}

	s := &Session{size: cfg.BufferBytes()}

	device, err := malgo.InitDevice(ctx.Context, devConfig, malgo.DeviceCallbacks{
		Data: s.onData,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize capture device")
	}

	s.device = device
	return s, nil
}

// onData runs on miniaudio's capture thread.
func (s *Session) onData(_, in []byte, _ uint32) {
	s.chunker.Write(in)
}

func (s *Session) Start(ctx context.Context, proc input.Processor) error {
	// set before the device starts delivering
	s.chunker = rechunk.New(s.size, proc)

	if err := s.device.Start(); err != nil {
		return errors.Wrap(err, "failed to start capture device")
	}

	<-ctx.Done()

	if err := s.device.Stop(); err != nil {
		return errors.Wrap(err, "failed to stop capture device")
	}

	return ctx.Err()
}

// Close releases the device.
func (s *Session) Close() error {
	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}
	return nil
}
