package pacing

import "time"

// TrustGate hides the face decoration once enough trust has built up.
// It is a pure function of trust time; once closed it stays closed.
type TrustGate struct {
	Threshold time.Duration
}

// NewTrustGate creates a gate from cfg.
func NewTrustGate(cfg Config) TrustGate {
	return TrustGate{Threshold: cfg.TrustThreshold}
}

// ShowFaceDecoration reports whether the face box and label are drawn.
// A non-positive threshold never shows them.
func (g TrustGate) ShowFaceDecoration(watch time.Duration) bool {
	return watch < g.Threshold
}
