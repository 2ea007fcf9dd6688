package pacing

import "time"

// Budgeter computes how long a generated fragment may be.
// Closer subjects get longer text; trust adds a capped bonus.
type Budgeter struct {
	cfg Config
}

// NewBudgeter creates a budgeter from cfg.
func NewBudgeter(cfg Config) Budgeter {
	return Budgeter{cfg: cfg}
}

// Base returns the distance tier length for distance.
func (b Budgeter) Base(distance int) int {
	switch {
	case distance < b.cfg.NearDistance:
		return b.cfg.NearLength
	case distance < b.cfg.MidDistance:
		return b.cfg.MidLength
	default:
		return b.cfg.FarLength
	}
}

// Bonus returns the trust bonus for watch, capped at MaxBonus.
func (b Budgeter) Bonus(watch time.Duration) int {
	n := steps(watch, b.cfg.BonusDivisor)
	if n > int64(b.cfg.MaxBonus) {
		return b.cfg.MaxBonus
	}
	return int(n)
}

// MaxLength returns the character ceiling passed to the text generator.
// The result is always at least 1.
func (b Budgeter) MaxLength(distance int, watch time.Duration) int {
	n := b.Base(distance) + b.Bonus(watch)
	if n < 1 {
		return 1
	}
	return n
}
