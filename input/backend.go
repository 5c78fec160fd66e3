package input

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

// ErrBadDevice is returned when a requested device cannot be resolved.
var ErrBadDevice = errors.New("device not found")

type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

type NamedBackend struct {
	Name string
	Backend
}

var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// Get all installed backend names.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks a backend for this platform. Native audio APIs come
// first, then the command based backends if their tools are installed.
func DefaultBackend() string {
	for _, name := range []string{"portaudio", "malgo"} {
		if HasBackend(name) {
			return name
		}
	}

	if runtime.GOOS == "linux" {
		if path, _ := exec.LookPath("parec"); path != "" {
			if HasBackend("parec") {
				return "parec"
			}
		}

		if HasBackend("ffmpeg-alsa") {
			return "ffmpeg-alsa"
		}
	}

	return ""
}

// FindBackend is a helper function that finds a backend. It returns nil if the
// backend is not found.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend
		}
	}
	return nil
}

func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

func InitBackend(bknd string) (Backend, error) {
	backend := FindBackend(bknd)
	if backend == nil {
		return nil, fmt.Errorf("backend not found: %q; check list-backends", bknd)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice resolves a device for backend. An empty device selects the
// backend default, a number is an index into Devices, and anything else is
// matched against device names. There is no fallback: a device that cannot
// be resolved is an error.
func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	if idx, err := strconv.Atoi(device); err == nil {
		if idx < 0 || idx >= len(devices) {
			return nil, errors.Wrapf(ErrBadDevice,
				"index %d out of range [0, %d); check list-devices", idx, len(devices))
		}
		return devices[idx], nil
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Wrapf(ErrBadDevice, "%q; check list-devices", device)
}
