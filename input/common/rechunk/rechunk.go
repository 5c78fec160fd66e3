// Package rechunk turns driver periods of any length into fixed size buffers.
//
// Some drivers (miniaudio among them) treat the requested period size as a
// hint and deliver whatever they have. The pipeline expects one fixed length
// buffer per call, so bytes are staged in a ring and handed on once a full
// buffer is available.
package rechunk

import (
	"github.com/noriah/ampvis/input"
	"github.com/smallnest/ringbuffer"
)

// ringBuffers is how many full buffers the ring can stage.
const ringBuffers = 4

// Chunker is not safe for concurrent use. Drivers call it from their single
// capture thread.
type Chunker struct {
	ring *ringbuffer.RingBuffer
	buf  []byte
	proc input.Processor
}

// New returns a Chunker that calls proc with buffers of exactly size bytes.
func New(size int, proc input.Processor) *Chunker {
	return &Chunker{
		ring: ringbuffer.New(size * ringBuffers),
		buf:  make([]byte, size),
		proc: proc,
	}
}

// Write stages p and calls the processor once per complete buffer. It never
// blocks and always consumes all of p.
func (c *Chunker) Write(p []byte) (int, error) {
	total := len(p)

	for len(p) > 0 {
		n, _ := c.ring.Write(p)
		p = p[n:]

		c.drain()
	}

	return total, nil
}

// Pending returns the number of staged bytes that do not yet fill a buffer.
func (c *Chunker) Pending() int {
	return c.ring.Length()
}

// Reset drops any staged bytes.
func (c *Chunker) Reset() {
	c.ring.Reset()
}

func (c *Chunker) drain() {
	for c.ring.Length() >= len(c.buf) {
		if _, err := c.ring.Read(c.buf); err != nil {
			return
		}

		c.proc.Process(c.buf)
	}
}
