// Package stdinput reads raw host order s16 samples from standard input, for
// feeding recorded or generated audio through the visualizer:
//
//	sox song.flac -t raw -e signed -b 16 -c 2 -r 40000 - | ampvis -b stdin
package stdinput

import (
	"context"
	"os"

	"github.com/noriah/ampvis/input"
	"github.com/noriah/ampvis/input/common/execread"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdInputDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdInputDevice{}, nil
}

func (b StdinBackend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewStdinSession(cfg), nil
}

type StdInputDevice struct{}

func (d StdInputDevice) String() string {
	return "stdin"
}

type Session struct {
	cfg  input.SessionConfig
	file *os.File
}

// NewStdinSession reads from a non-blocking copy of standard input so that
// cancelling the session interrupts a read on a stalled pipe.
func NewStdinSession(cfg input.SessionConfig) *Session {
	file, err := openPollable(os.Stdin.Fd(), "/dev/stdin")
	if err != nil {
		file = os.Stdin
	}

	return &Session{
		cfg:  cfg,
		file: file,
	}
}

// Start reads until standard input is closed or ctx is done.
func (s *Session) Start(ctx context.Context, proc input.Processor) error {
	return execread.Pump(ctx, s.file, s.cfg, proc)
}

// Close leaves standard input open for the rest of the process, but in
// blocking mode again.
func (s *Session) Close() error {
	restoreBlocking(s.file.Fd())
	return nil
}
