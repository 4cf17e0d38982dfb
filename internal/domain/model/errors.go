package model

import "errors"

// Sentinel kinds for frame errors.
var (
	// ErrMalformedFrame marks a frame whose pixel buffer does not match its
	// declared dimensions. The pipeline logs it and skips the frame.
	ErrMalformedFrame = errors.New("malformed frame")
)
