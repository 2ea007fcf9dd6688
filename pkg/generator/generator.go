// Package generator produces the text fragments the overlay writes on screen.
//
// All generators implement the Generator interface and return an explicit
// Result: Text on success, Empty when nothing fit under the length budget, or
// Failed when the generator itself broke. Callers substitute a fixed fallback
// line for both Empty and Failed; generators bound their own retries.
//
// Example usage:
//
//	corpora, _ := generator.LoadCorpora("")
//	gen, _ := generator.NewMarkov(corpora, generator.DefaultMarkovConfig())
//
//	res := gen.Generate(ctx, emotions.Sad, 90)
//	line := generator.DefaultFallbacks().Resolve(res, emotions.Sad)
package generator

import (
	"context"
	"unicode/utf8"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Generator maps an emotion voice and a length ceiling to a sentence.
type Generator interface {
	// Generate returns a sentence of at most maxLen characters for emotion.
	Generate(ctx context.Context, emotion emotions.Label, maxLen int) Result
}

// Outcome is the kind of a generation result.
type Outcome int

const (
	// Failed means the generator returned an error.
	Failed Outcome = iota

	// Empty means no candidate fit under the length budget.
	Empty

	// Text means a sentence was produced.
	Text
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Text:
		return "text"
	case Empty:
		return "empty"
	default:
		return "failed"
	}
}

// Result is the outcome of one generation.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// TextResult builds a Text result.
func TextResult(s string) Result {
	return Result{Outcome: Text, Text: s}
}

// EmptyResult builds an Empty result.
func EmptyResult() Result {
	return Result{Outcome: Empty}
}

// FailedResult builds a Failed result.
func FailedResult(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Outcome == Text && r.Text != ""
}

// Length returns the length of s in characters.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
