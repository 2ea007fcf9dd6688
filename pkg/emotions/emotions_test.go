package emotions

import (
	"errors"
	"testing"
	"time"
)

func at(sec float64) time.Time {
	return time.Unix(1_700_000_000, 0).Add(time.Duration(sec * float64(time.Second)))
}

func TestDebouncer_Scenario(t *testing.T) {
	d := NewDebouncer(2 * time.Second)
	var tr Track

	steps := []struct {
		t           float64
		raw         Label
		wantStable  Label
		wantChanged bool
	}{
		{0, Happy, Happy, true},
		{0.5, Happy, Happy, false},
		{3.0, Sad, Sad, true},
	}

	for _, s := range steps {
		got, changed := d.Update(&tr, s.raw, at(s.t))
		if got != s.wantStable || changed != s.wantChanged {
			t.Errorf("t=%.1f raw=%s: got (%s, %v), want (%s, %v)",
				s.t, s.raw, got, changed, s.wantStable, s.wantChanged)
		}
	}
}

func TestDebouncer_FastStreamNeverChanges(t *testing.T) {
	d := NewDebouncer(2 * time.Second)
	var tr Track
	d.Update(&tr, Neutral, at(0))

	// Alternating labels every 0.3s for 1.9s: nothing may pass.
	labels := []Label{Angry, Sad, Fear, Happy, Surprise, Angry}
	for i, l := range labels {
		got, changed := d.Update(&tr, l, at(0.3*float64(i+1)))
		if changed || got != Neutral {
			t.Fatalf("step %d: stable changed to %s", i, got)
		}
	}
}

func TestDebouncer_ExactIntervalIsNotEnough(t *testing.T) {
	d := NewDebouncer(2 * time.Second)
	var tr Track
	d.Update(&tr, Happy, at(0))

	if _, changed := d.Update(&tr, Sad, at(2)); changed {
		t.Error("change at exactly MinInterval should be rejected")
	}
	if got, changed := d.Update(&tr, Sad, at(2.01)); !changed || got != Sad {
		t.Errorf("change after MinInterval should be accepted, got (%s, %v)", got, changed)
	}
}

func TestDebouncer_MissingLabelIsNeutral(t *testing.T) {
	d := NewDebouncer(time.Second)
	var tr Track

	got, changed := d.Update(&tr, None, at(0))
	if got != Neutral || !changed {
		t.Errorf("first None: got (%s, %v), want (neutral, true)", got, changed)
	}

	d.Update(&tr, Angry, at(5))
	if got, changed := d.Update(&tr, None, at(5.5)); changed || got != Angry {
		t.Errorf("None inside window should be debounced, got (%s, %v)", got, changed)
	}
	if got, changed := d.Update(&tr, None, at(7)); !changed || got != Neutral {
		t.Errorf("None after window should fall back to neutral, got (%s, %v)", got, changed)
	}
}

func TestDebouncer_SameLabelDoesNotMoveTransitionTime(t *testing.T) {
	d := NewDebouncer(2 * time.Second)
	var tr Track
	d.Update(&tr, Happy, at(0))
	d.Update(&tr, Happy, at(1.5))

	if !tr.LastTransition.Equal(at(0)) {
		t.Errorf("LastTransition moved to %v", tr.LastTransition)
	}
}

func TestNewDebouncer_Default(t *testing.T) {
	if d := NewDebouncer(0); d.MinInterval != DefaultMinInterval {
		t.Errorf("MinInterval = %v, want %v", d.MinInterval, DefaultMinInterval)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{"happy", Happy},
		{" Happiness ", Happy},
		{"anger", Angry},
		{"surprised", Surprise},
		{"", None},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("bored"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Parse(bored) error = %v, want ErrUnknownLabel", err)
	}
}

func TestLabel_Voice(t *testing.T) {
	tests := map[Label]Label{
		Disgust:  Angry,
		Contempt: Neutral,
		None:     Neutral,
		Fear:     Fear,
	}
	for in, want := range tests {
		if got := in.Voice(); got != want {
			t.Errorf("%q.Voice() = %q, want %q", in, got, want)
		}
	}

	if got := None.Upper(); got != "NEUTRAL" {
		t.Errorf("None.Upper() = %q", got)
	}
}
