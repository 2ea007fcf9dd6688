package capture

import (
	"context"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

// Static replays a fixed list of frames, each returned as a fresh clone.
// It is used for dry runs and tests.
type Static struct {
	frames []frame.Frame
	loops  int // 0 plays once, <0 forever

	mu     sync.Mutex
	pos    int
	played int
	closed bool
	reads  int
}

// NewStatic creates a source over frames. loops is the number of extra passes
// after the first; negative repeats forever.
func NewStatic(loops int, frames ...frame.Frame) *Static {
	return &Static{frames: frames, loops: loops}
}

// Next returns a clone of the next frame.
func (s *Static) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.frames) == 0 {
		return nil, ErrFrameUnavailable
	}
	if s.pos == len(s.frames) {
		if s.loops >= 0 && s.played >= s.loops {
			return nil, ErrFrameUnavailable
		}
		s.pos = 0
		s.played++
	}

	f := s.frames[s.pos]
	s.pos++
	s.reads++
	return f.Clone()
}

// Reads returns how many frames have been handed out.
func (s *Static) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Closed reports whether Close was called.
func (s *Static) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the source. The template frames are closed too.
func (s *Static) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, f := range s.frames {
		f.Close()
	}
	return nil
}

var _ Source = (*Static)(nil)
