package generator

import "github.com/teslashibe/go-palimpsest/pkg/emotions"

// DefaultFallback is used when an emotion has no fallback line of its own.
const DefaultFallback = "The machine waits."

// Fallbacks maps each emotion voice to the line shown when generation comes
// back empty or fails.
type Fallbacks map[emotions.Label]string

// DefaultFallbacks returns the built-in fallback lines.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		emotions.Sad:      "The machine carries the weight quietly.",
		emotions.Angry:    "The system tightens.",
		emotions.Fear:     "Something moves too quickly to hold.",
		emotions.Happy:    "A brief warmth passes through the frame.",
		emotions.Surprise: "This was not anticipated.",
		emotions.Neutral:  "Nothing resolves.",
	}
}

// For returns the fallback line for emotion.
func (f Fallbacks) For(emotion emotions.Label) string {
	if s, ok := f[emotion]; ok && s != "" {
		return s
	}
	if s, ok := f[emotion.Voice()]; ok && s != "" {
		return s
	}
	return DefaultFallback
}

// Resolve returns the generated text, or the fallback when res has none.
func (f Fallbacks) Resolve(res Result, emotion emotions.Label) string {
	if res.OK() {
		return res.Text
	}
	return f.For(emotion)
}
