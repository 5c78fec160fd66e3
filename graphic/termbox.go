package graphic

import (
	"context"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

// DisplayBar is the block we use for bars
const DisplayBar rune = '█'

// Termbox draws bars as rows of block characters with termbox. Termbox puts
// the terminal in raw mode, so Ctrl-C arrives as a key event and not as a
// signal; Start watches for it.
type Termbox struct {
	restore func()
	fg, bg  termbox.Attribute
}

func NewTermbox() *Termbox {
	return &Termbox{
		fg: termbox.ColorGreen,
		bg: termbox.ColorDefault,
	}
}

// Init sets up the terminal. Close must be called afterwards.
func (d *Termbox) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}

	if err := termbox.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to initialize termbox")
	}

	termbox.HideCursor()
	d.restore = restore

	return nil
}

// Start watches for quit keys and returns a context that is cancelled when
// one is pressed.
func (d *Termbox) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel)
	return dispCtx
}

// Stop unblocks the event poller.
func (d *Termbox) Stop() {
	termbox.Interrupt()
}

// Close will stop display and clean up the terminal
func (d *Termbox) Close() error {
	termbox.Close()

	if d.restore != nil {
		d.restore()
		d.restore = nil
	}

	return nil
}

// Write draws one row per bar. Rows are cut at the screen edge.
func (d *Termbox) Write(heights []int, maxHeight int) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	width, rows := termbox.Size()

	for xRow, h := range heights {
		if xRow >= rows {
			break
		}

		for xCol := 0; xCol < h && xCol < width; xCol++ {
			termbox.SetCell(xCol, xRow, DisplayBar, d.fg, d.bg)
		}
	}

	return termbox.Flush()
}

func eventPoller(ctx context.Context, fn context.CancelFunc) {
	defer fn()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := termbox.PollEvent()

		switch ev.Type {
		case termbox.EventKey:
			if isQuitKey(ev) {
				return
			}

		case termbox.EventInterrupt, termbox.EventError:
			return
		}
	}
}

func isQuitKey(ev termbox.Event) bool {
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return true
	}

	return ev.Ch == 'q' || ev.Ch == 'Q'
}
