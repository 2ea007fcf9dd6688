// Package emotions holds the emotion vocabulary of the overlay and the
// debouncer that turns a per-frame classifier label into a stable state.
//
// Classifiers report a dominant label on every frame. Those labels flicker at
// frame rate, so the rest of the system never reads them directly: it reads the
// stable label kept in a Track, which only moves when the Debouncer accepts a
// change.
package emotions

import "strings"

// Label is an emotion tag produced by a classifier.
type Label string

const (
	// None means the classifier produced no label for this frame.
	None Label = ""

	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Neutral  Label = "neutral"

	// Disgust and Contempt are emitted by some emotion models but have no
	// corpus of their own. See Voice.
	Disgust  Label = "disgust"
	Contempt Label = "contempt"
)

// String returns the label text.
func (l Label) String() string {
	return string(l)
}

// IsNone reports whether the label is absent.
func (l Label) IsNone() bool {
	return l == None
}

// OrNeutral returns Neutral for an absent label and the label otherwise.
func (l Label) OrNeutral() Label {
	if l == None {
		return Neutral
	}
	return l
}

// Upper returns the label in upper case, as drawn next to a face.
func (l Label) Upper() string {
	return strings.ToUpper(string(l.OrNeutral()))
}

// Voice returns the label whose corpus, fallback and typography should be used
// for l. Labels without a voice of their own borrow the closest one.
func (l Label) Voice() Label {
	switch l {
	case Disgust:
		return Angry
	case Contempt, None:
		return Neutral
	default:
		return l
	}
}

// Known returns the labels that have a voice of their own, in display order.
func Known() []Label {
	return []Label{Happy, Sad, Angry, Fear, Surprise, Neutral}
}
