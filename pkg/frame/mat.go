package frame

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Mat is a Frame backed by an OpenCV matrix.
type Mat struct {
	mat    gocv.Mat
	closed bool
}

// FromMat wraps m. The Frame takes ownership and closes m on Close.
func FromMat(m gocv.Mat) *Mat {
	return &Mat{mat: m}
}

// Mat returns the underlying matrix for adapters that need OpenCV directly
// (classifiers, windows, writers). It stays owned by the Frame.
func (f *Mat) Mat() gocv.Mat {
	return f.mat
}

// Bounds returns the frame rectangle.
func (f *Mat) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
}

// DrawRect draws a rectangle outline.
func (f *Mat) DrawRect(r image.Rectangle, c color.RGBA, thickness int) error {
	if f.closed {
		return ErrClosed
	}
	gocv.Rectangle(&f.mat, r, c, thickness)
	return nil
}

// DrawText draws anti-aliased Hershey text.
func (f *Mat) DrawText(text string, origin image.Point, style TextStyle, c color.RGBA) error {
	if f.closed {
		return ErrClosed
	}
	gocv.PutTextWithParams(&f.mat, text, origin, hershey(style.Font), style.Scale, c,
		style.Thickness, gocv.LineAA, false)
	return nil
}

// Clone deep-copies the matrix.
func (f *Mat) Clone() (Frame, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return &Mat{mat: f.mat.Clone()}, nil
}

// Blend mixes overlay into the receiver in place.
func (f *Mat) Blend(overlay Frame, overlayWeight, baseWeight float64) error {
	if f.closed {
		return ErrClosed
	}
	o, ok := overlay.(*Mat)
	if !ok {
		return fmt.Errorf("%w: blend %T into *frame.Mat", ErrIncompatible, overlay)
	}
	if o.Bounds() != f.Bounds() {
		return fmt.Errorf("%w: size %v vs %v", ErrIncompatible, o.Bounds(), f.Bounds())
	}
	gocv.AddWeighted(o.mat, overlayWeight, f.mat, baseWeight, 0, &f.mat)
	return nil
}

// Close releases the matrix. Calling it twice is safe.
func (f *Mat) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.mat.Close()
}

func hershey(font Font) gocv.HersheyFont {
	switch font {
	case FontPlain:
		return gocv.FontHersheyPlain
	case FontDuplex:
		return gocv.FontHersheyDuplex
	case FontComplex:
		return gocv.FontHersheyComplex
	case FontTriplex:
		return gocv.FontHersheyTriplex
	case FontItalic:
		return gocv.FontItalic
	default:
		return gocv.FontHersheySimplex
	}
}

var _ Frame = (*Mat)(nil)
