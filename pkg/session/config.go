package session

import (
	"log/slog"
	"time"

	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/generator"
	"github.com/teslashibe/go-palimpsest/pkg/pacing"
)

// DefaultDistance is used when no face was found on a frame. It falls in the
// far tier of the default length budget.
const DefaultDistance = 250

// Config holds session parameters.
type Config struct {
	// Debounce is the minimum dwell between stable emotion changes.
	Debounce time.Duration

	Pacing pacing.Config

	// DistanceScale converts face area to distance; see detection.FaceRegion.Distance.
	DistanceScale int

	// DefaultDistance is assumed when there is no face.
	DefaultDistance int

	// Fallbacks replace empty or failed generations.
	Fallbacks generator.Fallbacks

	// AsyncClassify runs the classifier off the frame loop and uses its most
	// recent completed result.
	AsyncClassify bool

	Logger *slog.Logger
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Debounce:        emotions.DefaultMinInterval,
		Pacing:          pacing.DefaultConfig(),
		DistanceScale:   detection.DefaultDistanceScale,
		DefaultDistance: DefaultDistance,
		Fallbacks:       generator.DefaultFallbacks(),
		Logger:          slog.Default(),
	}
}

// Validate checks the configuration and returns a list of problems.
func (c Config) Validate() []string {
	var errs []string
	if c.Debounce <= 0 {
		errs = append(errs, "debounce must be positive")
	}
	if c.DistanceScale <= 0 {
		errs = append(errs, "distance_scale must be positive")
	}
	if c.DefaultDistance < 0 {
		errs = append(errs, "default_distance must not be negative")
	}
	errs = append(errs, c.Pacing.Validate()...)
	return errs
}
