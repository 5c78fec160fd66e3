//go:build unix

package stdinput

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// openPollable switches fd to non-blocking mode and wraps it again, so the
// runtime poller owns it and reads honor deadlines. A blocking stdin would
// otherwise keep a read waiting until the writer sends data.
func openPollable(fd uintptr, name string) (*os.File, error) {
	if err := syscall.SetNonblock(int(fd), true); err != nil {
		return nil, errors.Wrap(err, "failed to set non-blocking mode")
	}

	return os.NewFile(fd, name), nil
}

// restoreBlocking puts fd back into blocking mode. Standard input is shared
// with the parent shell.
func restoreBlocking(fd uintptr) {
	syscall.SetNonblock(int(fd), false)
}
