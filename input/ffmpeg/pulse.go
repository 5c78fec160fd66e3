package ffmpeg

import (
	"fmt"

	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/parec"
)

func init() {
	input.RegisterBackend("ffmpeg-pulse", Pulse{})
}

// Pulse captures a PulseAudio source through ffmpeg instead of parec. Device
// listing is shared with the parec backend.
type Pulse struct {
	parec.Backend
}

func (p Pulse) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(parec.PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize > 2 {
		return nil, fmt.Errorf("pulse: %d channels not supported, mono/stereo only", cfg.FrameSize)
	}

	return NewSession(dv, cfg)
}
