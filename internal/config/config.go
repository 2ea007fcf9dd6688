// Package config loads the palimpsest run configuration.
//
// Values are layered: a named preset supplies every default, a YAML file
// overrides any subset of it, then PALIMPSEST_* environment variables, then
// command-line flags (applied by the CLI).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvCamera    = "PALIMPSEST_CAMERA"
	EnvLogLevel  = "PALIMPSEST_LOG_LEVEL"
	EnvCorpusDir = "PALIMPSEST_CORPUS_DIR"
)

// Config is the full run configuration.
type Config struct {
	Preset   string `yaml:"preset"`
	LogLevel string `yaml:"log_level"`
	Seed     uint64 `yaml:"seed"` // 0 seeds from the runtime

	Capture    CaptureConfig    `yaml:"capture"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Memory     MemoryConfig     `yaml:"memory"`
	Render     RenderConfig     `yaml:"render"`
	Output     OutputConfig     `yaml:"output"`
}

// CaptureConfig selects the video source.
type CaptureConfig struct {
	Target string `yaml:"target"` // Camera index, file path or stream URL
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
}

// ClassifierConfig selects the emotion models.
type ClassifierConfig struct {
	FaceModel        string  `yaml:"face_model"`
	EmotionModel     string  `yaml:"emotion_model"`
	ConfidenceThresh float64 `yaml:"confidence_thresh"`
	Async            bool    `yaml:"async"`
	DistanceScale    int     `yaml:"distance_scale"`
	DefaultDistance  int     `yaml:"default_distance"`
}

// Generator kinds.
const (
	GeneratorMarkov = "markov"
	GeneratorStatic = "static"
)

// GeneratorConfig selects and tunes the text generator.
type GeneratorConfig struct {
	Kind      string              `yaml:"kind"`       // markov | static
	CorpusDir string              `yaml:"corpus_dir"` // Empty uses the built-in corpora
	Order     int                 `yaml:"order"`
	Tries     int                 `yaml:"tries"`
	Lines     map[string][]string `yaml:"lines"`     // Static lines per emotion; empty uses the built-in ones
	Fallbacks map[string]string   `yaml:"fallbacks"` // Per emotion
}

// PacingConfig tunes debounce, cadence, length budget and trust.
type PacingConfig struct {
	Trigger        string        `yaml:"trigger"` // cadence | transition
	Debounce       time.Duration `yaml:"debounce"`
	BaseCooldown   time.Duration `yaml:"base_cooldown"`
	MinCooldown    time.Duration `yaml:"min_cooldown"`
	RampDivisor    time.Duration `yaml:"ramp_divisor"`
	RampStep       time.Duration `yaml:"ramp_step"`
	NearDistance   int           `yaml:"near_distance"`
	MidDistance    int           `yaml:"mid_distance"`
	NearLength     int           `yaml:"near_length"`
	MidLength      int           `yaml:"mid_length"`
	FarLength      int           `yaml:"far_length"`
	MaxBonus       int           `yaml:"max_bonus"`
	BonusDivisor   time.Duration `yaml:"bonus_divisor"`
	TrustThreshold time.Duration `yaml:"trust_threshold"`
}

// MemoryConfig tunes fragment lifetime and placement.
type MemoryConfig struct {
	MaxAlpha  int   `yaml:"max_alpha"`
	DecayStep int   `yaml:"decay_step"`
	MaxLive   int   `yaml:"max_live"`
	Drifts    []int `yaml:"drifts"`
	Insets    struct {
		Left   int `yaml:"left"`
		Right  int `yaml:"right"`
		Top    int `yaml:"top"`
		Bottom int `yaml:"bottom"`
	} `yaml:"insets"`
}

// StyleConfig is the typography of one emotion.
type StyleConfig struct {
	Font      string  `yaml:"font"`
	Scale     float64 `yaml:"scale"`
	Thickness int     `yaml:"thickness"`
}

// RenderConfig tunes the face decoration and the fragment layer.
type RenderConfig struct {
	JitterPasses  int                    `yaml:"jitter_passes"`
	Jitter        map[string]int         `yaml:"jitter"`
	DefaultJitter int                    `yaml:"default_jitter"`
	BoxGray       int                    `yaml:"box_gray"`
	LabelOffset   int                    `yaml:"label_offset"`
	Styles        map[string]StyleConfig `yaml:"styles"`
	DefaultStyle  StyleConfig            `yaml:"default_style"`
	OverlayWeight float64                `yaml:"overlay_weight"`
	BaseWeight    float64                `yaml:"base_weight"`
	Banner        bool                   `yaml:"banner"` // Emotion label in the top-left corner
}

// OutputConfig selects where composed frames go.
type OutputConfig struct {
	Window      bool    `yaml:"window"`
	Title       string  `yaml:"title"`
	Record      string  `yaml:"record"` // Video file path; empty disables recording
	Codec       string  `yaml:"codec"`
	RecordFPS   float64 `yaml:"record_fps"`
	MetricsFile string  `yaml:"metrics_file"`
}

// Load builds the configuration from a preset, an optional YAML file and the
// environment. A non-empty preset argument overrides the file's preset key.
func Load(path, preset string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	name := preset
	if name == "" {
		var head struct {
			Preset string `yaml:"preset"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		name = head.Preset
	}
	if name == "" {
		name = PresetTrust
	}

	cfg, err := GetPreset(name)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Preset = name

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from PALIMPSEST_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCamera); v != "" {
		c.Capture.Target = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCorpusDir); v != "" {
		c.Generator.CorpusDir = v
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
