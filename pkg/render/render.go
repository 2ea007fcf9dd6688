// Package render composes the overlay onto a captured frame.
//
// A composed frame has three layers: the camera image itself, the face
// decoration (a fractured box and the emotion label) while the trust gate is
// open, and the fragment memory drawn on a cloned layer that is blended back
// over the image so the text looks faded into it.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-palimpsest/pkg/detection"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
	"github.com/teslashibe/go-palimpsest/pkg/memory"
)

// Rand is the source of box jitter. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// View is everything drawn on one frame.
type View struct {
	// ShowFace is the trust gate decision for this frame.
	ShowFace bool

	// Face is the detected face, nil when none was found.
	Face *detection.FaceRegion

	// Emotion is the stable emotion.
	Emotion emotions.Label

	// Fragments are the live fragments, already advanced for this frame.
	Fragments []memory.Fragment
}

// Composer draws views onto frames.
type Composer struct {
	cfg Config
	rng Rand
}

// New creates a composer.
func New(cfg Config, rng Rand) *Composer {
	if cfg.JitterPasses <= 0 {
		cfg.JitterPasses = 1
	}
	return &Composer{cfg: cfg, rng: rng}
}

// Config returns the composer configuration.
func (c *Composer) Config() Config {
	return c.cfg
}

// Compose draws v onto base in place.
func (c *Composer) Compose(base frame.Frame, v View) error {
	if c.cfg.Banner.Enabled && !v.Emotion.IsNone() {
		b := c.cfg.Banner
		if err := base.DrawText(v.Emotion.Upper(), b.Origin, b.Style, b.Color); err != nil {
			return fmt.Errorf("draw banner: %w", err)
		}
	}

	if v.ShowFace && v.Face != nil {
		if err := c.drawFace(base, *v.Face, v.Emotion.OrNeutral()); err != nil {
			return err
		}
	}

	overlay, err := base.Clone()
	if err != nil {
		return fmt.Errorf("clone overlay: %w", err)
	}
	defer overlay.Close()

	for _, f := range v.Fragments {
		style := c.cfg.StyleFor(f.Emotion)
		if err := overlay.DrawText(f.Text, f.Origin(), style, frame.Gray(f.Alpha)); err != nil {
			return fmt.Errorf("draw fragment %s: %w", f.ID, err)
		}
	}

	if err := base.Blend(overlay, c.cfg.OverlayWeight, c.cfg.BaseWeight); err != nil {
		return fmt.Errorf("blend overlay: %w", err)
	}
	return nil
}

// drawFace draws the fractured box and the label under it.
func (c *Composer) drawFace(dst frame.Frame, face detection.FaceRegion, emotion emotions.Label) error {
	j := c.cfg.JitterFor(emotion)
	box := face.Rect()

	for i := 0; i < c.cfg.JitterPasses; i++ {
		d := image.Pt(c.offset(j), c.offset(j))
		if err := dst.DrawRect(box.Add(d), c.cfg.BoxColor, c.cfg.BoxThickness); err != nil {
			return fmt.Errorf("draw face box: %w", err)
		}
	}

	origin := image.Pt(face.X, face.Y+face.H+c.cfg.LabelOffset)
	if err := dst.DrawText(emotion.Upper(), origin, c.cfg.StyleFor(emotion), c.cfg.BoxColor); err != nil {
		return fmt.Errorf("draw face label: %w", err)
	}
	return nil
}

// offset returns a value in [-j, j].
func (c *Composer) offset(j int) int {
	if j <= 0 {
		return 0
	}
	return c.rng.IntN(2*j+1) - j
}

// Banner is a fixed-position emotion label drawn regardless of the face.
type Banner struct {
	Enabled bool
	Origin  image.Point
	Style   frame.TextStyle
	Color   color.RGBA
}
