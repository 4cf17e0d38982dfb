package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel kinds for analyzer errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected analyzer status")
)

func errStatus(code int) error {
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
}
