// Package display shows or records composed frames.
package display

import (
	"errors"
	"fmt"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/session"
	"gocv.io/x/gocv"
)

// ErrUnsupportedFrame is returned for frames without an OpenCV matrix.
var ErrUnsupportedFrame = errors.New("display: unsupported frame type")

func matOf(f frame.Frame) (gocv.Mat, error) {
	m, ok := f.(*frame.Mat)
	if !ok {
		return gocv.Mat{}, fmt.Errorf("%w: %T", ErrUnsupportedFrame, f)
	}
	return m.Mat(), nil
}

// Multi fans every frame out to several sinks. The first ErrQuit wins; other
// errors are joined.
type Multi []session.Sink

// Show implements session.Sink.
func (m Multi) Show(f frame.Frame) error {
	var errs []error
	for _, s := range m {
		err := s.Show(f)
		if errors.Is(err, session.ErrQuit) {
			return err
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ session.Sink = Multi(nil)
