package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/noriah/ampvis/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

// Devices lists the capture capable PCMs in /proc/asound/pcm.
func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	return parsePCMList(f)
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// parsePCMList reads lines such as
//
//	00-01: ALC257 Alt Analog : ALC257 Alt Analog : capture 1
//
// and keeps the PCMs that can capture.
func parsePCMList(r io.Reader) ([]input.Device, error) {
	var devices []input.Device

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "capture") {
			continue
		}

		prefix := strings.SplitN(line, ":", 2)[0]

		d, err := ParseALSADevice(prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse device %q", prefix)
		}

		devices = append(devices, d)
	}

	return devices, scanner.Err()
}

// ALSADevice is an ALSA PCM name such as hw:0,1.
type ALSADevice string

// ParseALSADevice turns a /proc/asound/pcm prefix (card-device, e.g. 00-01)
// into an ALSA hw name.
func ParseALSADevice(hwString string) (ALSADevice, error) {
	parts := strings.Split(strings.TrimSpace(hwString), "-")
	if len(parts) != 2 {
		return "", errors.Errorf("mismatch alsa format %q", hwString)
	}

	card, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", errors.Wrap(err, "bad card number")
	}

	device, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", errors.Wrap(err, "bad device number")
	}

	return ALSADevice(fmt.Sprintf("hw:%d,%d", card, device)), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}
