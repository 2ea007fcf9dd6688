package config

import (
	"errors"
	"fmt"
	"time"
)

// Preset names
const (
	PresetTrust = "trust"
	PresetPoem  = "poem"
)

// ErrUnknownPreset is returned for preset names not in Presets.
var ErrUnknownPreset = errors.New("config: unknown preset")

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetTrust: TrustConfig(),
		PresetPoem:  PoemConfig(),
	}
}

// PresetNames returns the preset names in display order.
func PresetNames() []string {
	return []string{PresetTrust, PresetPoem}
}

// PresetDescription returns a one-line summary of a preset.
func PresetDescription(name string) string {
	switch name {
	case PresetTrust:
		return "Markov voices on a trust-driven cadence; the face box fades after 25s"
	case PresetPoem:
		return "One canned line per emotion change under a corner label"
	default:
		return ""
	}
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, PresetNames())
	}
	return &cfg, nil
}

// TrustConfig is the full engine: the overlay watches until it trusts you.
// Generation speeds up with trust, lengthens as the subject comes closer, and
// the fractured face box disappears once trust is earned.
func TrustConfig() Config {
	cfg := Config{
		Preset:   PresetTrust,
		LogLevel: "info",
		Capture: CaptureConfig{
			Target: "0",
			Width:  640,
			Height: 480,
		},
		Classifier: ClassifierConfig{
			FaceModel:        "models/face_detection_yunet.onnx",
			EmotionModel:     "models/emotion-ferplus-8.onnx",
			ConfidenceThresh: 0.5,
			DistanceScale:    100000,
			DefaultDistance:  250,
		},
		Generator: GeneratorConfig{
			Kind:  GeneratorMarkov,
			Order: 2,
			Tries: 120,
			Fallbacks: map[string]string{
				"sad":      "The machine carries the weight quietly.",
				"angry":    "The system tightens.",
				"fear":     "Something moves too quickly to hold.",
				"happy":    "A brief warmth passes through the frame.",
				"surprise": "This was not anticipated.",
				"neutral":  "Nothing resolves.",
			},
		},
		Pacing: PacingConfig{
			Trigger:        "cadence",
			Debounce:       2 * time.Second,
			BaseCooldown:   8 * time.Second,
			MinCooldown:    3 * time.Second,
			RampDivisor:    10 * time.Second,
			RampStep:       time.Second,
			NearDistance:   120,
			MidDistance:    200,
			NearLength:     140,
			MidLength:      90,
			FarLength:      50,
			MaxBonus:       30,
			BonusDivisor:   15 * time.Second,
			TrustThreshold: 25 * time.Second,
		},
		Memory: MemoryConfig{
			MaxAlpha:  255,
			DecayStep: 1,
			MaxLive:   48,
			Drifts:    []int{-1, 0, 1},
		},
		Render: RenderConfig{
			JitterPasses: 4,
			Jitter: map[string]int{
				"angry":   6,
				"fear":    4,
				"sad":     2,
				"happy":   1,
				"neutral": 0,
			},
			DefaultJitter: 1,
			BoxGray:       200,
			LabelOffset:   20,
			Styles: map[string]StyleConfig{
				"sad":     {Font: "simplex", Scale: 0.6, Thickness: 1},
				"angry":   {Font: "duplex", Scale: 0.7, Thickness: 2},
				"fear":    {Font: "plain", Scale: 0.8, Thickness: 1},
				"happy":   {Font: "complex", Scale: 0.6, Thickness: 1},
				"neutral": {Font: "simplex", Scale: 0.5, Thickness: 1},
			},
			DefaultStyle:  StyleConfig{Font: "simplex", Scale: 0.5, Thickness: 1},
			OverlayWeight: 0.85,
			BaseWeight:    0.15,
		},
		Output: OutputConfig{
			Window:    true,
			Title:     "It Watches Until It Trusts You",
			Codec:     "MJPG",
			RecordFPS: 20,
		},
	}
	cfg.Memory.Insets.Left = 40
	cfg.Memory.Insets.Right = 400
	cfg.Memory.Insets.Top = 80
	cfg.Memory.Insets.Bottom = 40
	return cfg
}

// PoemConfig is the plain machine that feels you: the stable emotion is
// printed in the corner and every accepted change writes one canned line
// beneath it, which fades out.
func PoemConfig() Config {
	cfg := TrustConfig()
	cfg.Preset = PresetPoem

	cfg.Generator.Kind = GeneratorStatic
	cfg.Pacing.Trigger = "transition"
	cfg.Pacing.TrustThreshold = 0

	cfg.Memory.MaxLive = 1
	cfg.Memory.DecayStep = 4
	cfg.Memory.Drifts = []int{0}
	// Insets wider than any frame pin every line to (30, 80).
	cfg.Memory.Insets.Left = 30
	cfg.Memory.Insets.Top = 80
	cfg.Memory.Insets.Right = 1 << 20
	cfg.Memory.Insets.Bottom = 1 << 20

	cfg.Render.Banner = true
	cfg.Render.Styles = map[string]StyleConfig{}
	cfg.Render.DefaultStyle = StyleConfig{Font: "simplex", Scale: 0.6, Thickness: 1}

	cfg.Output.Title = "The Machine That Feels You"
	return cfg
}
