package graphic

import (
	"bytes"
	"io"
)

// DefaultMarker is the character bars are drawn with.
const DefaultMarker = '*'

// Console draws one text line per bar. Each frame starts with a screen clear
// so frames overwrite each other instead of scrolling, and goes out in a
// single write.
type Console struct {
	Marker byte

	w   io.Writer
	buf bytes.Buffer
}

func NewConsole(w io.Writer) *Console {
	return &Console{
		Marker: DefaultMarker,
		w:      w,
	}
}

// Write draws heights, each line padded with spaces to maxHeight.
func (c *Console) Write(heights []int, maxHeight int) error {
	c.buf.Reset()
	c.buf.WriteString(ClearScreen)

	for _, h := range heights {
		if h < 0 {
			h = 0
		}

		for x := 0; x < h; x++ {
			c.buf.WriteByte(c.Marker)
		}

		for x := h; x < maxHeight; x++ {
			c.buf.WriteByte(' ')
		}

		c.buf.WriteByte('\n')
	}

	_, err := c.w.Write(c.buf.Bytes())
	return err
}
