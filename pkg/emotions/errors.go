package emotions

import "errors"

var (
	// ErrUnknownLabel is returned when a classifier name maps to no label.
	ErrUnknownLabel = errors.New("emotions: unknown label")
)
