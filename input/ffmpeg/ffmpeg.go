// Package ffmpeg captures through an ffmpeg child process.
package ffmpeg

import (
	"fmt"

	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/common/execread"
	"github.com/noriah/ampvis/input/utils/endian"
)

type FFmpegBackend interface {
	InputArgs() []string
}

// OutputArgs asks ffmpeg for raw host order s16 on stdout.
func OutputArgs(cfg input.SessionConfig) []string {
	return []string{
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", fmt.Sprintf("%d", cfg.FrameSize),
		"-f", "s16" + endian.Suffix(),
		"-",
	}
}

func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs()...)
	args = append(args, OutputArgs(cfg)...)

	return execread.NewSession(args, cfg), nil
}
