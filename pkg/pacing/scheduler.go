package pacing

import "time"

// Timeline is the time-keeping part of a session's state.
type Timeline struct {
	// Start is when the session began. Set once.
	Start time.Time

	// LastGeneration is when the last fragment was produced. Zero if never.
	LastGeneration time.Time
}

// Watch returns the trust time at now.
func (tl *Timeline) Watch(now time.Time) time.Duration {
	if d := now.Sub(tl.Start); d > 0 {
		return d
	}
	return 0
}

// Scheduler decides, once per frame, whether a new fragment is due.
type Scheduler struct {
	cfg Config
}

// NewScheduler creates a scheduler from cfg.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Cooldown returns the minimum gap between generations after watch of trust.
// It never increases with watch and never drops below MinCooldown.
func (s *Scheduler) Cooldown(watch time.Duration) time.Duration {
	c := s.cfg.BaseCooldown - time.Duration(steps(watch, s.cfg.RampDivisor))*s.cfg.RampStep
	if c < s.cfg.MinCooldown {
		return s.cfg.MinCooldown
	}
	return c
}

// Due reports whether a fragment should be generated at now and, if so,
// records now as the last generation time in tl.
//
// With TriggerTransition only a stable-emotion change (transitioned) makes a
// generation due. With TriggerCadence it is due once more than the cooldown
// has passed since the last one; a timeline that never generated is due.
func (s *Scheduler) Due(now time.Time, tl *Timeline, transitioned bool) bool {
	var due bool

	switch s.cfg.Trigger {
	case TriggerTransition:
		due = transitioned
	default:
		due = tl.LastGeneration.IsZero() ||
			now.Sub(tl.LastGeneration) > s.Cooldown(tl.Watch(now))
	}

	if due {
		tl.LastGeneration = now
	}
	return due
}
