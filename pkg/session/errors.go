package session

import "errors"

var (
	// ErrQuit is returned by a Sink when the viewer asked to stop.
	// Run treats it as a clean exit.
	ErrQuit = errors.New("session: quit requested")

	// ErrMissingDependency is returned by New when a required collaborator is nil.
	ErrMissingDependency = errors.New("session: missing dependency")

	// ErrPanic wraps a panic recovered while processing a frame.
	ErrPanic = errors.New("session: panic in frame")
)
