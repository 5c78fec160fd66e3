package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around TERM/TERMINFO combinations that termbox
// cannot load, mostly seen inside tmux.
//
// The returned function restores the original environment.
func normalizeTerminal() (func(), error) {
	prevTERMINFO, hadTERMINFO := os.LookupEnv("TERMINFO")

	if hadTERMINFO && strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if hadTERMINFO {
			os.Setenv("TERMINFO", prevTERMINFO)
		}
	}

	return restore, nil
}
