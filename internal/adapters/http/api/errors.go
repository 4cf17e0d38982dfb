package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNoFrames = errors.New("no frames processed yet")
)
