package config

import "errors"

// Sentinel kinds for configuration errors. All are fatal at startup.
var (
	ErrInvalidThreshold = errors.New("pain_threshold must be in [0,1]")
	ErrInvalidCooldown  = errors.New("alert_cooldown_seconds must be >= 0")
	ErrInvalidWindow    = errors.New("smoothing_window must be >= 1")
	ErrInvalidWeight    = errors.New("fusion weights must be >= 0")
	ErrInvalidFrameSize = errors.New("frame_width and frame_height must be > 0")
	ErrInvalidFrameRate = errors.New("frame_rate must be > 0")
	ErrUnknownNotifier  = errors.New("notifier must be one of: log, mqtt, sms")
	ErrIncompleteMQTT   = errors.New("mqtt notifier requires mqtt_broker and mqtt_topic")
	ErrIncompleteSMS    = errors.New("sms notifier requires sms_api_url, sms_account_sid, sms_auth_token, sms_from and sms_to")
)
