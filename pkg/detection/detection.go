// Package detection classifies the dominant emotion of the face in a frame.
//
// A Classifier returns an explicit Result rather than an error: a frame either
// has a face with an emotion (Found), has no face (NoFace), or could not be
// analysed at all (Failed). Callers treat the three cases differently; see
// the session package.
package detection

import (
	"context"
	"errors"
	"image"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
	"github.com/teslashibe/go-palimpsest/pkg/frame"
)

// DefaultDistanceScale converts face area in square pixels to the distance
// units used by the length budget: distance = scale / area.
const DefaultDistanceScale = 100000

// FaceRegion is the bounding box of a face in frame pixels.
type FaceRegion struct {
	X, Y int
	W, H int
}

// Rect returns the region as an image rectangle.
func (r FaceRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Area returns the box area, never less than 1.
func (r FaceRegion) Area() int {
	if a := r.W * r.H; a > 0 {
		return a
	}
	return 1
}

// Distance estimates subject distance as scale/area: bigger faces are closer.
// A non-positive scale uses DefaultDistanceScale.
func (r FaceRegion) Distance(scale int) int {
	if scale <= 0 {
		scale = DefaultDistanceScale
	}
	return scale / r.Area()
}

// Outcome is the kind of a classification result.
type Outcome int

const (
	// Failed means the classifier could not analyse the frame.
	Failed Outcome = iota

	// NoFace means the frame was analysed and no face was found.
	NoFace

	// Found means a face and its dominant emotion were found.
	Found
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NoFace:
		return "no_face"
	default:
		return "failed"
	}
}

// Result is the outcome of classifying one frame.
type Result struct {
	Outcome    Outcome
	Emotion    emotions.Label // Set when Outcome is Found
	Face       FaceRegion     // Set when Outcome is Found
	Confidence float64        // Probability of Emotion, 0-1
	Err        error          // Set when Outcome is Failed
}

// FoundResult builds a Found result.
func FoundResult(label emotions.Label, face FaceRegion, confidence float64) Result {
	return Result{Outcome: Found, Emotion: label, Face: face, Confidence: confidence}
}

// NoFaceResult builds a NoFace result.
func NoFaceResult() Result {
	return Result{Outcome: NoFace}
}

// FailedResult builds a Failed result.
func FailedResult(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

// HasFace reports whether the result carries a face region.
func (r Result) HasFace() bool {
	return r.Outcome == Found
}

// Classifier maps a frame to the dominant emotion of its main face.
type Classifier interface {
	// Classify analyses f. It must not retain f after returning.
	Classify(ctx context.Context, f frame.Frame) Result

	// Close releases model resources.
	Close() error
}

var (
	// ErrModelNotFound is returned when a model file does not exist.
	ErrModelNotFound = errors.New("detection: model file not found")

	// ErrModelLoad is returned when a model file cannot be loaded.
	ErrModelLoad = errors.New("detection: model load failed")

	// ErrUnsupportedFrame is returned when a frame has no OpenCV matrix behind it.
	ErrUnsupportedFrame = errors.New("detection: unsupported frame type")

	// ErrEmptyFrame is returned for frames without pixels.
	ErrEmptyFrame = errors.New("detection: empty frame")
)
