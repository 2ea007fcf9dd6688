package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

// Config holds composer parameters.
type Config struct {
	// Face box
	JitterPasses  int                    // Rectangles drawn per face
	Jitter        map[emotions.Label]int // Max per-pass offset in pixels
	DefaultJitter int                    // Used for emotions missing from Jitter
	BoxColor      color.RGBA
	BoxThickness  int
	LabelOffset   int // Pixels between the box bottom and the label baseline

	// Typography
	Styles       map[emotions.Label]frame.TextStyle
	DefaultStyle frame.TextStyle

	// Blend
	OverlayWeight float64
	BaseWeight    float64

	Banner Banner
}

// DefaultConfig returns the default composer configuration.
func DefaultConfig() Config {
	neutral := frame.TextStyle{Font: frame.FontSimplex, Scale: 0.5, Thickness: 1}
	return Config{
		JitterPasses: 4,
		Jitter: map[emotions.Label]int{
			emotions.Angry:   6,
			emotions.Fear:    4,
			emotions.Sad:     2,
			emotions.Happy:   1,
			emotions.Neutral: 0,
		},
		DefaultJitter: 1,
		BoxColor:      frame.Gray(200),
		BoxThickness:  1,
		LabelOffset:   20,
		Styles: map[emotions.Label]frame.TextStyle{
			emotions.Sad:     {Font: frame.FontSimplex, Scale: 0.6, Thickness: 1},
			emotions.Angry:   {Font: frame.FontDuplex, Scale: 0.7, Thickness: 2},
			emotions.Fear:    {Font: frame.FontPlain, Scale: 0.8, Thickness: 1},
			emotions.Happy:   {Font: frame.FontComplex, Scale: 0.6, Thickness: 1},
			emotions.Neutral: neutral,
		},
		DefaultStyle:  neutral,
		OverlayWeight: 0.85,
		BaseWeight:    0.15,
		Banner: Banner{
			Origin: image.Pt(30, 40),
			Style:  frame.TextStyle{Font: frame.FontSimplex, Scale: 1, Thickness: 2},
			Color:  frame.Gray(255),
		},
	}
}

// JitterFor returns the box jitter for emotion, falling back to its voice and
// then to DefaultJitter.
func (c Config) JitterFor(emotion emotions.Label) int {
	if j, ok := c.Jitter[emotion]; ok {
		return j
	}
	if j, ok := c.Jitter[emotion.Voice()]; ok {
		return j
	}
	return c.DefaultJitter
}

// StyleFor returns the typography for emotion, falling back to its voice and
// then to DefaultStyle.
func (c Config) StyleFor(emotion emotions.Label) frame.TextStyle {
	if s, ok := c.Styles[emotion]; ok {
		return s
	}
	if s, ok := c.Styles[emotion.Voice()]; ok {
		return s
	}
	return c.DefaultStyle
}

// Validate checks the configuration and returns a list of problems.
func (c Config) Validate() []string {
	var errs []string
	if c.JitterPasses < 1 {
		errs = append(errs, "jitter_passes must be at least 1")
	}
	if c.DefaultJitter < 0 {
		errs = append(errs, "default_jitter must be non-negative")
	}
	for l, j := range c.Jitter {
		if j < 0 {
			errs = append(errs, fmt.Sprintf("jitter for %s must be non-negative", l))
		}
	}
	for l, s := range c.Styles {
		if s.Scale <= 0 || s.Thickness < 1 {
			errs = append(errs, fmt.Sprintf("style for %s needs a positive scale and thickness", l))
		}
	}
	if c.OverlayWeight < 0 || c.BaseWeight < 0 {
		errs = append(errs, "blend weights must be non-negative")
	}
	if c.OverlayWeight+c.BaseWeight <= 0 {
		errs = append(errs, "blend weights must not both be zero")
	}
	return errs
}
