//go:build unix

package stdinput

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/noriah/ampvis/input"
)

func TestSessionStopsOnStalledBlockingPipe(t *testing.T) {
	fds := make([]int, 2)
	if err := syscall.Pipe(fds); err != nil {
		t.Fatal(err)
	}

	// the writer stays open and silent
	w := os.NewFile(uintptr(fds[1]), "w")
	defer w.Close()

	r, err := openPollable(uintptr(fds[0]), "r")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// one buffer period is 8s, so only the cancel can end the read
	cfg := input.SessionConfig{
		Device:     StdInputDevice{},
		FrameSize:  2,
		SampleSize: 8,
		SampleRate: 1,
	}

	sess := &Session{cfg: cfg, file: r}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sess.Start(ctx, &counter{})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("got %v, want context.DeadlineExceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session still reading after the context was done")
	}
}
