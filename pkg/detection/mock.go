package detection

import (
	"context"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

// Mock implements Classifier for testing.
type Mock struct {
	// ClassifyFunc is called when Classify is invoked.
	ClassifyFunc func(ctx context.Context, f frame.Frame) Result

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock that never finds a face.
func NewMock() *Mock {
	return &Mock{
		ClassifyFunc: func(ctx context.Context, f frame.Frame) Result {
			return NoFaceResult()
		},
	}
}

// NewScripted creates a mock that returns results in order and then repeats
// the last one.
func NewScripted(results ...Result) *Mock {
	m := &Mock{}
	i := 0
	m.ClassifyFunc = func(ctx context.Context, f frame.Frame) Result {
		if len(results) == 0 {
			return NoFaceResult()
		}
		r := results[min(i, len(results)-1)]
		i++
		return r
	}
	return m
}

// Classify implements Classifier.
func (m *Mock) Classify(ctx context.Context, f frame.Frame) Result {
	m.mu.Lock()
	m.calls++
	fn := m.ClassifyFunc
	m.mu.Unlock()

	if fn == nil {
		return NoFaceResult()
	}
	return fn(ctx, f)
}

// Close implements Classifier.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns how many times Classify was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ Classifier = (*Mock)(nil)
