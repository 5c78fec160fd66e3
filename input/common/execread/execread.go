// Package execread provides a shared struct that wraps around cmd.
package execread

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/noriah/ampvis/input"
	"github.com/pkg/errors"
)

// deadlineSlack is how many buffer periods a read may take before the
// processor is told that no data arrived.
const deadlineSlack = 6

// Session is a session that reads raw 16-bit audio from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// prevents cmd.Stderr from poiting to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig
}

// NewSession creates a new execread session. The command must write host
// order s16 samples to stdout.
func NewSession(argv []string, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv: argv,
		cfg:  cfg,
	}
}

// Argv returns the command line the session runs.
func (s *Session) Argv() []string {
	return s.argv
}

func (s *Session) Start(ctx context.Context, proc input.Processor) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	return Pump(ctx, o, s.cfg, proc)
}

// Close does nothing; the command is reaped when Start returns.
func (s *Session) Close() error {
	return nil
}

type deadlineReader interface {
	SetReadDeadline(time.Time) error
}

// Pump reads fixed size buffers from r and hands each one to proc until r is
// exhausted or ctx is done. If r supports read deadlines and no full buffer
// arrives within a few buffer periods, proc is called with nil and the bytes
// read so far are kept for the next buffer. Readers without deadline support
// only see a cancelled ctx once a read returns.
func Pump(ctx context.Context, r io.Reader, cfg input.SessionConfig, proc input.Processor) error {
	raw := make([]byte, cfg.BufferBytes())
	if len(raw) == 0 {
		return errors.New("invalid buffer size")
	}

	dr, _ := r.(deadlineReader)
	timeout := cfg.Period() * deadlineSlack

	if wake := dr; wake != nil {
		// wake a read that is waiting on a silent source
		stop := context.AfterFunc(ctx, func() {
			wake.SetReadDeadline(time.Now())
		})
		defer stop()
	}

	var fill int

	for {
		if dr != nil && timeout > 0 {
			if err := dr.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				// not every file supports deadlines (regular files, some ttys)
				dr = nil
			}
		}

		// checked after the deadline is set so a cancel cannot be overwritten
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(r, raw[fill:])
		fill += n

		switch {
		case err == nil:
			proc.Process(raw)
			fill = 0

		case errors.Is(err, os.ErrDeadlineExceeded):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			proc.Process(nil)

		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil

		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "failed to read samples")
		}
	}
}
