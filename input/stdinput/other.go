//go:build !unix

package stdinput

import "os"

func openPollable(fd uintptr, name string) (*os.File, error) {
	return os.NewFile(fd, name), nil
}

func restoreBlocking(fd uintptr) {}
