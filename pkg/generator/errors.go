package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoCorpus is returned when no corpus text is available.
	ErrNoCorpus = errors.New("generator: no corpus")

	// ErrNoGenerators is returned when a chain is built without generators.
	ErrNoGenerators = errors.New("generator: no generators")

	// ErrNoVoice is returned when neither the emotion nor neutral has a voice.
	ErrNoVoice = errors.New("generator: no voice for emotion")
)

// ChainError aggregates failures from every generator in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "generator chain: no errors recorded"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("generator chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("generator chain: all %d generators failed, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}
