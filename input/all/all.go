// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/ampvis/input/ffmpeg"
	_ "github.com/noriah/ampvis/input/malgo"
	_ "github.com/noriah/ampvis/input/parec"
	_ "github.com/noriah/ampvis/input/portaudio"
	_ "github.com/noriah/ampvis/input/stdinput"
	_ "github.com/noriah/ampvis/input/wavfile"
)
