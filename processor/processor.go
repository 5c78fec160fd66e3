// Package processor runs the per-buffer amplitude pipeline: decode, normalize,
// aggregate into bars, scale and hand the heights to an Output.
package processor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/ampvis/dsp"
	"github.com/noriah/ampvis/util"
	"github.com/pkg/errors"
)

// ErrNaN is returned when a frame normalizes to a NaN value. The frame is
// dropped and nothing is rendered.
var ErrNaN = errors.New("NaN detected")

// Output receives the scaled bar heights for one frame. heights is only valid
// for the duration of the call.
type Output interface {
	Write(heights []int, maxHeight int) error
}

// Status receives user facing messages about dropped frames.
type Status interface {
	Error(msg string)
}

type Config struct {
	SampleRate   float64 // rate at which samples are read
	SampleSize   int     // number of frames per buffer
	ChannelCount int     // number of interleaved channels
	NumBars      int     // number of bars per frame
	MaxHeight    int     // tallest bar, in cells
	WindowSize   int     // number of invocations the budget monitor averages
	Output       Output  // data output
	Status       Status  // optional status line
}

// Stats describes how the processor has kept up with the driver.
type Stats struct {
	Frames   uint64        // frames rendered
	Dropped  uint64        // frames skipped (empty or NaN)
	Overruns uint64        // invocations that took longer than Budget
	Budget   time.Duration // one buffer period
	Mean     time.Duration // mean invocation time over the window
	StdDev   time.Duration // standard deviation of invocation time
}

// Processor is safe for one invocation at a time, which is what audio drivers
// guarantee for a single stream. Its scratch slices are fully overwritten on
// every invocation.
type Processor struct {
	// 64-bit aligned for atomic access on 32-bit platforms
	frames   uint64
	dropped  uint64
	overruns uint64

	numBars   int
	maxHeight int

	frame   []float64
	norm    []float64
	bars    []float64
	heights []int

	out    Output
	status Status

	budget time.Duration

	mu     sync.Mutex
	window *util.MovingWindow
}

func New(cfg Config) *Processor {
	samples := cfg.SampleSize * cfg.ChannelCount

	proc := &Processor{
		numBars:   cfg.NumBars,
		maxHeight: cfg.MaxHeight,
		frame:     make([]float64, 0, samples),
		norm:      make([]float64, 0, samples),
		bars:      make([]float64, 0, cfg.NumBars),
		heights:   make([]int, 0, cfg.NumBars),
		out:       cfg.Output,
		status:    cfg.Status,
		window:    util.NewMovingWindow(cfg.WindowSize),
	}

	if cfg.SampleRate > 0 {
		proc.budget = time.Duration(
			float64(time.Second) * float64(cfg.SampleSize) / cfg.SampleRate)
	}

	return proc
}

// Process runs the pipeline on one raw buffer of host-order 16-bit samples.
// An empty buffer returns dsp.ErrEmptyBuffer without touching the output.
func (p *Processor) Process(raw []byte) error {
	start := time.Now()

	var err error
	if p.frame, err = dsp.Decode(p.frame, raw); err == nil {
		err = p.render(p.frame)
	}

	p.observe(start, err)
	return err
}

// ProcessSamples is Process for drivers that deliver typed samples.
func (p *Processor) ProcessSamples(samples []int16) error {
	start := time.Now()

	var err error
	if p.frame, err = dsp.Widen(p.frame, samples); err == nil {
		err = p.render(p.frame)
	}

	p.observe(start, err)
	return err
}

// ProcessFrame runs the pipeline on already widened samples.
func (p *Processor) ProcessFrame(frame []float64) error {
	start := time.Now()

	err := dsp.ErrEmptyBuffer
	if len(frame) > 0 {
		err = p.render(frame)
	}

	p.observe(start, err)
	return err
}

func (p *Processor) render(frame []float64) error {
	p.norm = dsp.Normalize(p.norm, frame)

	if dsp.HasNaN(p.norm) {
		if p.status != nil {
			p.status.Error("NaN detected!")
		}
		return ErrNaN
	}

	p.bars = dsp.Aggregate(p.bars, p.norm, p.numBars)
	p.heights = dsp.Scale(p.heights, p.bars, p.maxHeight)

	if p.out == nil {
		return nil
	}

	if err := p.out.Write(p.heights, p.maxHeight); err != nil {
		return errors.Wrap(err, "failed to write frame")
	}

	return nil
}

func (p *Processor) observe(start time.Time, err error) {
	elapsed := time.Since(start)

	switch err {
	case nil:
		atomic.AddUint64(&p.frames, 1)
	case dsp.ErrEmptyBuffer, ErrNaN:
		atomic.AddUint64(&p.dropped, 1)
	}

	if p.budget > 0 && elapsed > p.budget {
		atomic.AddUint64(&p.overruns, 1)
	}

	p.mu.Lock()
	p.window.Update(elapsed.Seconds())
	p.mu.Unlock()
}

// Stats returns a snapshot of the processing statistics.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	mean, sd := p.window.Stats()
	p.mu.Unlock()

	return Stats{
		Frames:   atomic.LoadUint64(&p.frames),
		Dropped:  atomic.LoadUint64(&p.dropped),
		Overruns: atomic.LoadUint64(&p.overruns),
		Budget:   p.budget,
		Mean:     time.Duration(mean * float64(time.Second)),
		StdDev:   time.Duration(sd * float64(time.Second)),
	}
}
