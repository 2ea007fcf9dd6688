package config

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-palimpsest/pkg/capture"
	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/generator"
	"github.com/teslashibe/go-palimpsest/pkg/memory"
	"github.com/teslashibe/go-palimpsest/pkg/pacing"
	"github.com/teslashibe/go-palimpsest/pkg/render"
	"github.com/teslashibe/go-palimpsest/pkg/session"
)

// Validate checks the whole configuration and returns every problem found.
func (c *Config) Validate() []string {
	var errs []string

	if c.Capture.Target == "" {
		errs = append(errs, "capture.target is required")
	}

	switch c.Generator.Kind {
	case GeneratorMarkov, GeneratorStatic:
	default:
		errs = append(errs, fmt.Sprintf("generator.kind must be %q or %q, got %q",
			GeneratorMarkov, GeneratorStatic, c.Generator.Kind))
	}
	for name := range c.Generator.Fallbacks {
		if _, err := emotions.Parse(name); err != nil {
			errs = append(errs, fmt.Sprintf("generator.fallbacks: unknown emotion %q", name))
		}
	}
	for name := range c.Generator.Lines {
		if _, err := emotions.Parse(name); err != nil {
			errs = append(errs, fmt.Sprintf("generator.lines: unknown emotion %q", name))
		}
	}

	for _, e := range c.SessionParams(nil).Validate() {
		errs = append(errs, "session: "+e)
	}

	m := c.Memory
	if m.MaxAlpha <= 0 || m.DecayStep <= 0 {
		errs = append(errs, "memory.max_alpha and memory.decay_step must be positive")
	}
	if m.MaxLive < 0 {
		errs = append(errs, "memory.max_live must not be negative")
	}
	if len(m.Drifts) == 0 {
		errs = append(errs, "memory.drifts must not be empty")
	}

	rc, err := c.RenderParams()
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		for _, e := range rc.Validate() {
			errs = append(errs, "render: "+e)
		}
	}

	return errs
}

// PacingParams converts the pacing section.
func (c *Config) PacingParams() pacing.Config {
	p := c.Pacing
	return pacing.Config{
		Trigger:        pacing.Trigger(p.Trigger),
		BaseCooldown:   p.BaseCooldown,
		MinCooldown:    p.MinCooldown,
		RampDivisor:    p.RampDivisor,
		RampStep:       p.RampStep,
		NearDistance:   p.NearDistance,
		MidDistance:    p.MidDistance,
		NearLength:     p.NearLength,
		MidLength:      p.MidLength,
		FarLength:      p.FarLength,
		MaxBonus:       p.MaxBonus,
		BonusDivisor:   p.BonusDivisor,
		TrustThreshold: p.TrustThreshold,
	}
}

// SessionParams builds the session configuration.
func (c *Config) SessionParams(logger *slog.Logger) session.Config {
	return session.Config{
		Debounce:        c.Pacing.Debounce,
		Pacing:          c.PacingParams(),
		DistanceScale:   c.Classifier.DistanceScale,
		DefaultDistance: c.Classifier.DefaultDistance,
		Fallbacks:       c.Fallbacks(),
		AsyncClassify:   c.Classifier.Async,
		Logger:          logger,
	}
}

// Fallbacks converts the fallback lines. Unknown emotion names are skipped;
// Validate reports them.
func (c *Config) Fallbacks() generator.Fallbacks {
	out := make(generator.Fallbacks, len(c.Generator.Fallbacks))
	for name, line := range c.Generator.Fallbacks {
		if l, err := emotions.Parse(name); err == nil {
			out[l] = line
		}
	}
	return out
}

// StaticLines converts the static generator lines, nil when none are set.
func (c *Config) StaticLines() map[emotions.Label][]string {
	if len(c.Generator.Lines) == 0 {
		return nil
	}
	out := make(map[emotions.Label][]string, len(c.Generator.Lines))
	for name, lines := range c.Generator.Lines {
		if l, err := emotions.Parse(name); err == nil {
			out[l] = lines
		}
	}
	return out
}

// MarkovParams builds the Markov generator configuration.
func (c *Config) MarkovParams(logger *slog.Logger) generator.MarkovConfig {
	mc := generator.DefaultMarkovConfig()
	if c.Generator.Order > 0 {
		mc.Order = c.Generator.Order
	}
	if c.Generator.Tries > 0 {
		mc.Tries = c.Generator.Tries
	}
	if logger != nil {
		mc.Logger = logger
	}
	return mc
}

// MemoryParams converts the memory section.
func (c *Config) MemoryParams() memory.Config {
	m := c.Memory
	return memory.Config{
		MaxAlpha:  m.MaxAlpha,
		DecayStep: m.DecayStep,
		MaxLive:   m.MaxLive,
		Drifts:    append([]int(nil), m.Drifts...),
		Insets: memory.Insets{
			Left:   m.Insets.Left,
			Right:  m.Insets.Right,
			Top:    m.Insets.Top,
			Bottom: m.Insets.Bottom,
		},
	}
}

// RenderParams converts the render section. It fails on unknown font or
// emotion names.
func (c *Config) RenderParams() (render.Config, error) {
	r := c.Render
	rc := render.DefaultConfig()
	rc.JitterPasses = r.JitterPasses
	rc.DefaultJitter = r.DefaultJitter
	rc.BoxColor = frame.Gray(r.BoxGray)
	rc.LabelOffset = r.LabelOffset
	rc.OverlayWeight = r.OverlayWeight
	rc.BaseWeight = r.BaseWeight
	rc.Banner.Enabled = r.Banner

	rc.Jitter = make(map[emotions.Label]int, len(r.Jitter))
	for name, j := range r.Jitter {
		l, err := emotions.Parse(name)
		if err != nil {
			return rc, fmt.Errorf("render.jitter: %w", err)
		}
		rc.Jitter[l] = j
	}

	def, err := r.DefaultStyle.textStyle()
	if err != nil {
		return rc, fmt.Errorf("render.default_style: %w", err)
	}
	rc.DefaultStyle = def

	rc.Styles = make(map[emotions.Label]frame.TextStyle, len(r.Styles))
	for name, s := range r.Styles {
		l, err := emotions.Parse(name)
		if err != nil {
			return rc, fmt.Errorf("render.styles: %w", err)
		}
		ts, err := s.textStyle()
		if err != nil {
			return rc, fmt.Errorf("render.styles.%s: %w", name, err)
		}
		rc.Styles[l] = ts
	}
	return rc, nil
}

func (s StyleConfig) textStyle() (frame.TextStyle, error) {
	f, err := frame.ParseFont(s.Font)
	if err != nil {
		return frame.TextStyle{}, fmt.Errorf("%w: %q", err, s.Font)
	}
	return frame.TextStyle{Font: f, Scale: s.Scale, Thickness: s.Thickness}, nil
}

// CaptureParams builds the capture device configuration.
func (c *Config) CaptureParams(logger *slog.Logger) capture.Config {
	return capture.Config{
		Target: c.Capture.Target,
		Width:  c.Capture.Width,
		Height: c.Capture.Height,
		FPS:    c.Capture.FPS,
		Logger: logger,
	}
}

// DetectionParams builds the ONNX classifier configuration.
func (c *Config) DetectionParams(logger *slog.Logger) detection.Config {
	dc := detection.DefaultConfig()
	dc.FaceModel = c.Classifier.FaceModel
	dc.EmotionModel = c.Classifier.EmotionModel
	if c.Classifier.ConfidenceThresh > 0 {
		dc.ConfidenceThresh = c.Classifier.ConfidenceThresh
	}
	if logger != nil {
		dc.Logger = logger
	}
	return dc
}
