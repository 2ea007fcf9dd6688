package frame

import (
	"fmt"
	"image"
	"image/color"
	"sync"
)

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpRect  OpKind = "rect"
	OpText  OpKind = "text"
	OpBlend OpKind = "blend"
)

// Op is one drawing call recorded by Fake.
type Op struct {
	Kind      OpKind
	Rect      image.Rectangle
	Text      string
	Origin    image.Point
	Style     TextStyle
	Color     color.RGBA
	Thickness int

	// Blend only
	OverlayWeight float64
	BaseWeight    float64
	Layer         []Op // Operations drawn on the overlay after it was cloned
}

// Fake is an in-memory Frame that records drawing calls instead of drawing.
type Fake struct {
	// DrawErr, if set, is returned by every draw call.
	DrawErr error

	mu     sync.Mutex
	bounds image.Rectangle
	ops    []Op
	base   int // len(ops) at clone time
	closed bool
}

// NewFake creates a fake frame of the given size.
func NewFake(width, height int) *Fake {
	return &Fake{bounds: image.Rect(0, 0, width, height)}
}

// Bounds returns the frame rectangle.
func (f *Fake) Bounds() image.Rectangle {
	return f.bounds
}

// DrawRect records a rectangle.
func (f *Fake) DrawRect(r image.Rectangle, c color.RGBA, thickness int) error {
	return f.record(Op{Kind: OpRect, Rect: r, Color: c, Thickness: thickness})
}

// DrawText records a text draw.
func (f *Fake) DrawText(text string, origin image.Point, style TextStyle, c color.RGBA) error {
	return f.record(Op{Kind: OpText, Text: text, Origin: origin, Style: style, Color: c})
}

func (f *Fake) record(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if f.DrawErr != nil {
		return f.DrawErr
	}
	f.ops = append(f.ops, op)
	return nil
}

// Clone returns a copy carrying the same recorded history.
func (f *Fake) Clone() (Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	ops := make([]Op, len(f.ops))
	copy(ops, f.ops)
	return &Fake{bounds: f.bounds, ops: ops, base: len(ops), DrawErr: f.DrawErr}, nil
}

// Blend records a blend along with what was drawn on overlay since it was cloned.
func (f *Fake) Blend(overlay Frame, overlayWeight, baseWeight float64) error {
	o, ok := overlay.(*Fake)
	if !ok {
		return fmt.Errorf("%w: blend %T into *frame.Fake", ErrIncompatible, overlay)
	}
	if o.bounds != f.bounds {
		return fmt.Errorf("%w: size %v vs %v", ErrIncompatible, o.bounds, f.bounds)
	}

	o.mu.Lock()
	layer := make([]Op, len(o.ops)-o.base)
	copy(layer, o.ops[o.base:])
	o.mu.Unlock()

	return f.record(Op{
		Kind:          OpBlend,
		OverlayWeight: overlayWeight,
		BaseWeight:    baseWeight,
		Layer:         layer,
	})
}

// Close marks the frame closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Ops returns a copy of the recorded operations.
func (f *Fake) Ops() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Op, len(f.ops))
	copy(out, f.ops)
	return out
}

// Count returns how many operations of kind k were recorded.
func (f *Fake) Count(k OpKind) int {
	n := 0
	for _, op := range f.Ops() {
		if op.Kind == k {
			n++
		}
	}
	return n
}

var _ Frame = (*Fake)(nil)
