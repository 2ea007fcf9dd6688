package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/pacing"
)

// State is the observation state of one session. Only the debouncer and the
// scheduler mutate it, and only from the frame loop.
type State struct {
	ID uuid.UUID

	emotions.Track
	pacing.Timeline
}

// NewState starts a session at start.
func NewState(start time.Time) *State {
	return &State{
		ID:       uuid.New(),
		Timeline: pacing.Timeline{Start: start},
	}
}
