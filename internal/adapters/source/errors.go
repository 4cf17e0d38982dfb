package source

import "errors"

// Sentinel kinds for source errors.
var (
	// ErrEndOfStream signals a normal end of the frame stream.
	ErrEndOfStream = errors.New("end of frame stream")
)
