package graphic

import (
	"io"
	"strconv"
)

// Numbers writes each frame as one line of space separated heights, for
// logs and pipes.
type Numbers struct {
	w   io.Writer
	buf []byte
}

func NewNumbers(w io.Writer) *Numbers {
	return &Numbers{w: w}
}

func (n *Numbers) Write(heights []int, maxHeight int) error {
	n.buf = n.buf[:0]

	for i, h := range heights {
		if i > 0 {
			n.buf = append(n.buf, ' ')
		}
		n.buf = strconv.AppendInt(n.buf, int64(h), 10)
	}

	n.buf = append(n.buf, '\n')

	_, err := n.w.Write(n.buf)
	return err
}
