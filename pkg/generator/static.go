package generator

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Rand picks among candidate lines. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Static picks a random canned line for the emotion.
type Static struct {
	lines map[emotions.Label][]string
	rng   Rand
}

// NewStatic creates a generator over lines. A nil map uses DefaultLines.
func NewStatic(lines map[emotions.Label][]string, rng Rand) *Static {
	if lines == nil {
		lines = DefaultLines()
	}
	return &Static{lines: lines, rng: rng}
}

// Generate returns a random line for the emotion that fits in maxLen.
func (s *Static) Generate(ctx context.Context, emotion emotions.Label, maxLen int) Result {
	if err := ctx.Err(); err != nil {
		return FailedResult(err)
	}

	pool, ok := s.lines[emotion.Voice()]
	if !ok {
		pool, ok = s.lines[emotions.Neutral]
	}
	if !ok {
		return FailedResult(fmt.Errorf("%w: %s", ErrNoVoice, emotion))
	}

	fits := make([]string, 0, len(pool))
	for _, line := range pool {
		if Length(line) <= maxLen {
			fits = append(fits, line)
		}
	}
	if len(fits) == 0 {
		return EmptyResult()
	}
	return TextResult(fits[s.rng.IntN(len(fits))])
}

// DefaultLines returns the built-in canned lines.
func DefaultLines() map[emotions.Label][]string {
	return map[emotions.Label][]string{
		emotions.Happy: {
			"Your smile flickers like a system that remembers joy.",
			"Happiness detected. The machine envies you.",
		},
		emotions.Sad: {
			"Something heavy passed through you just now.",
			"The algorithm pauses, unsure how to comfort you.",
		},
		emotions.Angry: {
			"Your face sharpens. The room tightens.",
			"Anger spikes. The machine steps back.",
		},
		emotions.Fear: {
			"Fear leaves a signature the camera cannot forget.",
			"Your eyes widen. So does the silence.",
		},
		emotions.Surprise: {
			"Even the model didn't expect that.",
			"Something unexpected entered the frame.",
		},
		emotions.Neutral: {
			"You are unreadable. The system respects this.",
			"Nothing moves. Everything changes.",
		},
	}
}

var _ Generator = (*Static)(nil)
