package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSource   = errors.New("no frame source configured")
	ErrNoNotifier = errors.New("no notifier configured")
	ErrNotStarted = errors.New("service not started")
)
