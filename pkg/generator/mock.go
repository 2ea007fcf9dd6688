package generator

import (
	"context"
	"sync"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Mock implements Generator for testing.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	GenerateFunc func(ctx context.Context, emotion emotions.Label, maxLen int) Result

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Generate invocation.
type MockCall struct {
	Emotion emotions.Label
	MaxLen  int
}

// NewMock creates a mock that echoes the emotion name.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, emotion emotions.Label, maxLen int) Result {
			return TextResult("mock " + emotion.String())
		},
	}
}

// WithResult creates a mock that always returns res.
func WithResult(res Result) *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, emotion emotions.Label, maxLen int) Result {
			return res
		},
	}
}

// Generate implements Generator.
func (m *Mock) Generate(ctx context.Context, emotion emotions.Label, maxLen int) Result {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Emotion: emotion, MaxLen: maxLen})
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn == nil {
		return EmptyResult()
	}
	return fn(ctx, emotion, maxLen)
}

// Calls returns all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ Generator = (*Mock)(nil)
