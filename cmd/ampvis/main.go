package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/noriah/ampvis"
	"github.com/noriah/ampvis/graphic"
	"github.com/noriah/ampvis/input"

	_ "github.com/noriah/ampvis/input/all"

	"github.com/integrii/flaggy"
)

// AppName is the app name
const AppName = "ampvis"

// AppDesc is the app description
const AppDesc = "Audio amplitude bars in the terminal"

// AppSite is the app website
const AppSite = "https://github.com/noriah/ampvis"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	chk(cfg.loadEnv(), "failed to read environment")

	if doFlags(&cfg) {
		return
	}

	chk(cfg.validate(), "invalid config")

	runCfg := ampvis.Config{
		Backend:      cfg.backend,
		Device:       cfg.device,
		SampleRate:   cfg.sampleRate,
		SampleSize:   cfg.sampleSize,
		ChannelCount: cfg.channelCount,
		NumBars:      cfg.numBars,
		MaxHeight:    cfg.maxHeight,
	}

	status := graphic.NewStatus(os.Stdout)
	status.NoColor = cfg.noColor

	switch cfg.output {
	case outputNumbers:
		runCfg.Output = graphic.NewNumbers(os.Stdout)

	case outputTermbox:
		// termbox owns stdout while it runs
		status = graphic.NewStatus(os.Stderr)
		status.NoColor = cfg.noColor

		display := graphic.NewTermbox()
		runCfg.Output = display
		runCfg.SetupFunc = display.Init
		runCfg.StartFunc = func(ctx context.Context) (context.Context, error) {
			return display.Start(ctx), nil
		}
		runCfg.CleanupFunc = func() error {
			display.Stop()
			return display.Close()
		}

	default:
		runCfg.Output = graphic.NewConsole(os.Stdout)
	}

	runCfg.Status = status

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(ampvis.Run(ctx, &runCfg), "failed to run ampvis")
}

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nselect a device by its index or its name",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	parser.String(&cfg.backend, "b", "backend", "backend name")
	parser.String(&cfg.device, "d", "device", "device index or name")
	parser.Float64(&cfg.sampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.sampleSize, "n", "samples", "frames per buffer")
	parser.Int(&cfg.channelCount, "ch", "channels", "channel count (1 or 2)")
	parser.Int(&cfg.numBars, "nb", "bars", "number of bars")
	parser.Int(&cfg.maxHeight, "mh", "height", "length of the tallest bar")
	parser.String(&cfg.output, "o", "output", "output (console, numbers, termbox)")
	parser.Bool(&cfg.noColor, "nc", "no-color", "disable colored status lines")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		def := input.DefaultBackend()

		for _, backend := range input.Backends {
			star := ' '
			if backend.Name == def {
				star = '*'
			}

			fmt.Printf("- %s %c\n", backend.Name, star)
		}

		return true

	case listDevicesCmd.Used:
		if cfg.backend == "" {
			cfg.backend = input.DefaultBackend()
		}

		backend, err := input.InitBackend(cfg.backend)
		chk(err, "failed to init backend")
		defer backend.Close()

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.backend)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("%3d %c %v\n", idx, star, devices[idx])
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
