// Package capture provides the frame sources the overlay reads from.
package capture

import (
	"context"
	"errors"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

// Source yields one frame per call. The caller owns returned frames and must
// Close them.
type Source interface {
	// Next blocks until the next frame is available.
	// It returns ErrFrameUnavailable when the source is exhausted or lost.
	Next(ctx context.Context) (frame.Frame, error)

	// Close releases the capture device. Safe to call more than once.
	Close() error
}

var (
	// ErrFrameUnavailable is returned when no more frames can be read.
	// It ends a session.
	ErrFrameUnavailable = errors.New("capture: frame unavailable")

	// ErrOpen is returned when a capture target cannot be opened.
	ErrOpen = errors.New("capture: cannot open source")
)
