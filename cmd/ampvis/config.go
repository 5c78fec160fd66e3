package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/noriah/ampvis"
	"github.com/pkg/errors"
)

// Output names accepted by --output.
const (
	outputConsole = "console"
	outputNumbers = "numbers"
	outputTermbox = "termbox"
)

// config holds what the command line can change
type config struct {
	// backend is the backend name from list-backends
	backend string
	// device is a device index or name from list-devices
	device string
	// sampleRate is the rate at which samples are read
	sampleRate float64
	// sampleSize is the number of frames per buffer
	sampleSize int
	// channelCount is the number of interleaved channels
	channelCount int
	// numBars is the number of bars drawn
	numBars int
	// maxHeight is the length of the tallest bar
	maxHeight int
	// output is the renderer name
	output string
	// noColor disables colored status lines
	noColor bool
}

// newZeroConfig returns the defaults from ampvis.NewZeroConfig.
func newZeroConfig() config {
	def := ampvis.NewZeroConfig()

	return config{
		sampleRate:   def.SampleRate,
		sampleSize:   def.SampleSize,
		channelCount: def.ChannelCount,
		numBars:      def.NumBars,
		maxHeight:    def.MaxHeight,
		output:       outputConsole,
	}
}

// loadEnv reads an optional .env file and applies the AMPVIS_ variables.
// Flags parsed afterwards take precedence.
func (cfg *config) loadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrap(err, "failed to load .env")
	}

	if v, ok := os.LookupEnv("AMPVIS_BACKEND"); ok {
		cfg.backend = v
	}

	if v, ok := os.LookupEnv("AMPVIS_DEVICE"); ok {
		cfg.device = v
	}

	if v, ok := os.LookupEnv("AMPVIS_OUTPUT"); ok {
		cfg.output = v
	}

	return nil
}

func (cfg *config) validate() error {
	switch cfg.output {
	case outputConsole, outputNumbers, outputTermbox:
	default:
		return errors.Errorf("unknown output %q (console, numbers, termbox)", cfg.output)
	}

	if cfg.channelCount < 1 || cfg.channelCount > 2 {
		return errors.New("channel count must be 1 or 2")
	}

	if cfg.numBars < 1 {
		return errors.New("too few bars (1 min)")
	}

	if cfg.maxHeight < 1 {
		return errors.New("max height too small (1 min)")
	}

	return nil
}
