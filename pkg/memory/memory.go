// Package memory keeps the population of text fragments currently on screen.
//
// Every fragment fades and drifts independently. The memory is advanced exactly
// once per rendered frame; calling AdvanceAndPrune more or less often changes
// how fast fragments fade. Fragments may overlap freely.
package memory

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Rand is the source of randomness for placement and drift.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Fragment is one decaying, drifting text object.
type Fragment struct {
	ID      uuid.UUID
	Text    string
	X, Y    int
	Alpha   int // Decay counter, MaxAlpha at creation
	Drift   int // Vertical pixels per frame, fixed for the fragment's life
	Emotion emotions.Label

	CreatedAt time.Time
}

// Origin returns the text baseline position.
func (f Fragment) Origin() image.Point {
	return image.Pt(f.X, f.Y)
}

// Insets are the margins kept free when placing a new fragment.
// Right is wide so that long lines still fit on screen.
type Insets struct {
	Left, Right, Top, Bottom int
}

// Config holds fragment memory parameters.
type Config struct {
	MaxAlpha  int    // Alpha of a new fragment
	DecayStep int    // Alpha lost per frame
	MaxLive   int    // Live fragment cap; inserting beyond it evicts the oldest
	Drifts    []int  // Drift is chosen uniformly from these
	Insets    Insets // Placement margins
}

// DefaultConfig returns the default memory configuration.
func DefaultConfig() Config {
	return Config{
		MaxAlpha:  255,
		DecayStep: 1,
		MaxLive:   48,
		Drifts:    []int{-1, 0, 1},
		Insets:    Insets{Left: 40, Right: 400, Top: 80, Bottom: 40},
	}
}

// Memory is the ordered collection of live fragments, oldest first.
// It is not safe for concurrent use; the session loop owns it.
type Memory struct {
	cfg       Config
	rng       Rand
	now       func() time.Time
	fragments []Fragment
	evicted   int
}

// New creates an empty memory.
func New(cfg Config, rng Rand) *Memory {
	if cfg.MaxAlpha <= 0 {
		cfg.MaxAlpha = 255
	}
	if cfg.DecayStep <= 0 {
		cfg.DecayStep = 1
	}
	if len(cfg.Drifts) == 0 {
		cfg.Drifts = []int{0}
	}
	return &Memory{
		cfg: cfg,
		rng: rng,
		now: time.Now,
	}
}

// Insert places a new fragment at full alpha inside bounds and returns it.
// At capacity the oldest fragment is evicted first.
func (m *Memory) Insert(text string, emotion emotions.Label, bounds image.Rectangle) Fragment {
	x, y := m.place(bounds)

	f := Fragment{
		ID:        uuid.New(),
		Text:      text,
		X:         x,
		Y:         y,
		Alpha:     m.cfg.MaxAlpha,
		Drift:     m.cfg.Drifts[m.rng.IntN(len(m.cfg.Drifts))],
		Emotion:   emotion,
		CreatedAt: m.now(),
	}

	if m.cfg.MaxLive > 0 {
		for len(m.fragments) >= m.cfg.MaxLive {
			m.fragments = m.fragments[1:]
			m.evicted++
		}
	}

	m.fragments = append(m.fragments, f)
	return f
}

// place picks a uniform position inside the inset area of bounds.
// When the frame is too small for the insets the range collapses to its low end.
func (m *Memory) place(bounds image.Rectangle) (int, int) {
	in := m.cfg.Insets
	x := uniform(m.rng, bounds.Min.X+in.Left, bounds.Max.X-in.Right)
	y := uniform(m.rng, bounds.Min.Y+in.Top, bounds.Max.Y-in.Bottom)
	return x, y
}

// uniform returns a value in [lo, hi], or lo when the range is empty.
func uniform(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// AdvanceAndPrune moves every fragment one frame forward: alpha drops by
// DecayStep and y moves by drift. Fragments whose alpha reaches zero are
// removed. It returns the live fragments in creation order.
//
// The returned slice is a copy and may be kept by the caller.
func (m *Memory) AdvanceAndPrune() []Fragment {
	live := m.fragments[:0]
	for _, f := range m.fragments {
		f.Alpha -= m.cfg.DecayStep
		f.Y += f.Drift
		if f.Alpha <= 0 {
			continue
		}
		live = append(live, f)
	}
	m.fragments = live

	out := make([]Fragment, len(live))
	copy(out, live)
	return out
}

// SetClock replaces the time source used to stamp new fragments.
func (m *Memory) SetClock(now func() time.Time) {
	m.now = now
}

// Len returns the number of live fragments.
func (m *Memory) Len() int {
	return len(m.fragments)
}

// Evicted returns how many fragments were dropped by the MaxLive cap.
func (m *Memory) Evicted() int {
	return m.evicted
}

// Snapshot returns a copy of the live fragments without advancing them.
func (m *Memory) Snapshot() []Fragment {
	out := make([]Fragment, len(m.fragments))
	copy(out, m.fragments)
	return out
}
