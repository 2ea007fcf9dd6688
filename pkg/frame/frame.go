// Package frame defines the mutable frame buffer the overlay draws on.
//
// The engine never touches pixels itself. Everything it draws goes through the
// Frame interface: rectangles, text and a weighted blend of two frames. Mat is
// the OpenCV implementation used with real cameras; Fake records operations
// for tests.
package frame

import (
	"errors"
	"image"
	"image/color"
)

// Font selects a typeface for DrawText.
type Font int

const (
	FontSimplex Font = iota
	FontPlain
	FontDuplex
	FontComplex
	FontTriplex
	FontItalic
)

// String returns the font name used in configuration files.
func (f Font) String() string {
	switch f {
	case FontSimplex:
		return "simplex"
	case FontPlain:
		return "plain"
	case FontDuplex:
		return "duplex"
	case FontComplex:
		return "complex"
	case FontTriplex:
		return "triplex"
	case FontItalic:
		return "italic"
	default:
		return "unknown"
	}
}

// ParseFont maps a configuration name to a Font.
func ParseFont(name string) (Font, error) {
	for f := FontSimplex; f <= FontItalic; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return FontSimplex, ErrUnknownFont
}

// TextStyle describes how a line of text is drawn.
type TextStyle struct {
	Font      Font
	Scale     float64
	Thickness int
}

// Frame is a drawable frame buffer.
type Frame interface {
	// Bounds returns the pixel rectangle of the frame.
	Bounds() image.Rectangle

	// DrawRect outlines r with the given color and line thickness.
	DrawRect(r image.Rectangle, c color.RGBA, thickness int) error

	// DrawText renders text with its baseline starting at origin.
	DrawText(text string, origin image.Point, style TextStyle, c color.RGBA) error

	// Clone returns an independent copy of the frame.
	Clone() (Frame, error)

	// Blend replaces the receiver with overlay*overlayWeight + receiver*baseWeight.
	// overlay must come from the same implementation and have the same size.
	Blend(overlay Frame, overlayWeight, baseWeight float64) error

	// Close releases the pixel buffer.
	Close() error
}

var (
	// ErrUnknownFont is returned by ParseFont for unrecognised names.
	ErrUnknownFont = errors.New("frame: unknown font")

	// ErrIncompatible is returned when two frames of different kinds or sizes are combined.
	ErrIncompatible = errors.New("frame: incompatible frames")

	// ErrClosed is returned when drawing on a closed frame.
	ErrClosed = errors.New("frame: closed")
)

// Gray returns an opaque gray color of intensity v, clamped to 0-255.
func Gray(v int) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	c := uint8(v)
	return color.RGBA{R: c, G: c, B: c, A: 255}
}
