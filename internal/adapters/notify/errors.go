package notify

import "errors"

// Sentinel kinds for notifier errors.
var (
	ErrConnectTimeout   = errors.New("broker connection timeout")
	ErrPublishTimeout   = errors.New("alert publish timeout")
	ErrUnexpectedStatus = errors.New("unexpected sms gateway status")
)
