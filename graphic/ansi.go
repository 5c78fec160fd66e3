package graphic

import (
	"fmt"
	"io"
	"sync"
)

// ANSI escape sequences.
const (
	ColorRed    = "\033[91m"
	ColorYellow = "\033[93m"
	ColorGreen  = "\033[92m"
	ColorReset  = "\033[0m"

	// ClearScreen moves the cursor home and clears to the end of the screen.
	ClearScreen = "\033[H\033[J"
)

// Status prints colored one-line messages. It is safe for concurrent use;
// the capture thread reports dropped frames while the main goroutine reports
// lifecycle changes.
type Status struct {
	// NoColor disables escape sequences.
	NoColor bool

	mu sync.Mutex
	w  io.Writer
}

func NewStatus(w io.Writer) *Status {
	return &Status{w: w}
}

// Error prints msg in red.
func (s *Status) Error(msg string) {
	s.print(ColorRed, msg)
}

// Warn prints msg in yellow.
func (s *Status) Warn(msg string) {
	s.print(ColorYellow, msg)
}

// Success prints msg in green.
func (s *Status) Success(msg string) {
	s.print(ColorGreen, msg)
}

func (s *Status) print(color, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.NoColor {
		fmt.Fprintln(s.w, msg)
		return
	}

	fmt.Fprintf(s.w, "%s%s%s\n", color, msg, ColorReset)
}
