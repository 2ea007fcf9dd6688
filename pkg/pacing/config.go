// Package pacing decides when the overlay speaks and how much it may say.
//
// Three pieces live here, all driven by elapsed session time ("trust"):
//   - Scheduler: whether a new fragment is due, with a cooldown that shrinks as trust grows
//   - Budgeter: the maximum fragment length for a subject distance and trust
//   - TrustGate: whether the face decoration is still drawn
package pacing

import (
	"fmt"
	"time"
)

// Trigger selects what makes a generation due.
type Trigger string

const (
	// TriggerCadence generates whenever the trust-dependent cooldown has elapsed.
	TriggerCadence Trigger = "cadence"

	// TriggerTransition generates only when the stable emotion changes.
	TriggerTransition Trigger = "transition"
)

// Config holds all tunable pacing parameters.
type Config struct {
	// Cadence
	Trigger      Trigger
	BaseCooldown time.Duration // Cooldown at the start of a session
	MinCooldown  time.Duration // Floor the cooldown never goes below
	RampDivisor  time.Duration // Every RampDivisor of trust...
	RampStep     time.Duration // ...takes RampStep off the cooldown

	// Length budget, distances in the units of detection.FaceRegion.Distance
	NearDistance int // distance < NearDistance uses NearLength
	MidDistance  int // distance < MidDistance uses MidLength
	NearLength   int
	MidLength    int
	FarLength    int
	MaxBonus     int           // Cap on the trust bonus, in characters
	BonusDivisor time.Duration // One bonus character per BonusDivisor of trust

	// Trust gate
	TrustThreshold time.Duration // Face decoration shown while trust < threshold
}

// DefaultConfig returns the rich "watching until it trusts you" pacing.
func DefaultConfig() Config {
	return Config{
		Trigger:      TriggerCadence,
		BaseCooldown: 8 * time.Second,
		MinCooldown:  3 * time.Second,
		RampDivisor:  10 * time.Second,
		RampStep:     time.Second,

		NearDistance: 120,
		MidDistance:  200,
		NearLength:   140,
		MidLength:    90,
		FarLength:    50,
		MaxBonus:     30,
		BonusDivisor: 15 * time.Second,

		TrustThreshold: 25 * time.Second,
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() []string {
	var errs []string

	switch c.Trigger {
	case TriggerCadence, TriggerTransition:
	default:
		errs = append(errs, fmt.Sprintf("trigger must be %q or %q, got %q",
			TriggerCadence, TriggerTransition, c.Trigger))
	}

	if c.MinCooldown <= 0 {
		errs = append(errs, "min_cooldown must be positive")
	}
	if c.BaseCooldown < c.MinCooldown {
		errs = append(errs, "base_cooldown must be >= min_cooldown")
	}
	if c.RampDivisor <= 0 {
		errs = append(errs, "ramp_divisor must be positive")
	}
	if c.RampStep < 0 {
		errs = append(errs, "ramp_step must not be negative")
	}

	if c.NearDistance <= 0 || c.MidDistance <= c.NearDistance {
		errs = append(errs, "distances must satisfy 0 < near < mid")
	}
	if c.FarLength <= 0 || c.MidLength < c.FarLength || c.NearLength < c.MidLength {
		errs = append(errs, "lengths must satisfy 0 < far <= mid <= near")
	}
	if c.MaxBonus < 0 {
		errs = append(errs, "max_bonus must not be negative")
	}
	if c.BonusDivisor <= 0 {
		errs = append(errs, "bonus_divisor must be positive")
	}

	return errs
}

// steps returns floor(watch / div), treating negative watch time as zero.
func steps(watch, div time.Duration) int64 {
	if watch <= 0 || div <= 0 {
		return 0
	}
	return int64(watch / div)
}
