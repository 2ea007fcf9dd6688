package display

import (
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/session"
	"gocv.io/x/gocv"
)

// DefaultTitle is the preview window title.
const DefaultTitle = "It Watches Until It Trusts You"

// Window shows frames in an OpenCV window. Pressing q or Esc quits.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window titled title.
func NewWindow(title string) *Window {
	if title == "" {
		title = DefaultTitle
	}
	return &Window{win: gocv.NewWindow(title)}
}

// Show implements session.Sink.
func (w *Window) Show(f frame.Frame) error {
	m, err := matOf(f)
	if err != nil {
		return err
	}
	w.win.IMShow(m)
	switch w.win.WaitKey(1) & 0xFF {
	case 'q', 27:
		return session.ErrQuit
	}
	return nil
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

var _ session.Sink = (*Window)(nil)
