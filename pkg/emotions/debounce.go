package emotions

import "time"

// DefaultMinInterval is the dwell time required between two accepted changes.
const DefaultMinInterval = 2 * time.Second

// Track is the debounced emotion state of one session.
type Track struct {
	// Stable is the last accepted label. None until the first observation.
	Stable Label

	// LastTransition is when Stable last changed.
	LastTransition time.Time
}

// Current returns the stable label, Neutral before the first observation.
func (t *Track) Current() Label {
	return t.Stable.OrNeutral()
}

// Debouncer suppresses label flicker by requiring MinInterval between changes.
// It holds no state of its own; the state lives in the Track passed to Update.
type Debouncer struct {
	MinInterval time.Duration
}

// NewDebouncer creates a debouncer. A non-positive interval uses the default.
func NewDebouncer(minInterval time.Duration) Debouncer {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return Debouncer{MinInterval: minInterval}
}

// Update feeds one raw label observed at now into t.
//
// A missing label counts as Neutral. The change is accepted when the label
// differs from the stable one and more than MinInterval has passed since the
// last accepted change; the first observation of a track is always accepted.
// It returns the stable label after the update and whether it changed.
func (d Debouncer) Update(t *Track, raw Label, now time.Time) (Label, bool) {
	raw = raw.OrNeutral()

	if t.Stable == None {
		t.Stable = raw
		t.LastTransition = now
		return raw, true
	}

	if raw != t.Stable && now.Sub(t.LastTransition) > d.MinInterval {
		t.Stable = raw
		t.LastTransition = now
		return raw, true
	}

	return t.Stable, false
}
