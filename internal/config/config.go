// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Configuration is loaded once at startup and read-only thereafter.
// - Invalid threshold/cooldown/window values are fatal: the service refuses
//   to run rather than operate with undefined alerting behavior.
package config

import (
	"github.com/okian/vigil/internal/domain/model"
)

// Notifier kinds selectable via configuration.
const (
	NotifierLog  = "log"
	NotifierMQTT = "mqtt"
	NotifierSMS  = "sms"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for the monitor surface.
	Addr string `koanf:"addr"`

	// PainThreshold is the smoothed score at or above which an alert fires.
	PainThreshold float64 `koanf:"pain_threshold"`

	// AlertCooldownSeconds is the minimum time between two alert dispatches.
	AlertCooldownSeconds int `koanf:"alert_cooldown_seconds"`

	// AlertRetryOnFailure leaves the cooldown timer untouched when a dispatch
	// fails, so the next qualifying frame retries immediately. Off by default
	// to avoid retry storms against a broken transport.
	AlertRetryOnFailure bool `koanf:"alert_retry_on_failure"`

	// SmoothingWindow is the number of recent pain scores averaged per frame.
	SmoothingWindow int `koanf:"smoothing_window"`

	// IndicatorWeights maps facial indicator names to fusion weights.
	IndicatorWeights map[string]float64 `koanf:"indicator_weights"`

	// MovementWeight is the fusion weight of the movement contribution.
	MovementWeight float64 `koanf:"movement_weight"`

	// Movement detector tuning.
	MovementLearningRate  float64 `koanf:"movement_learning_rate"`
	MovementDiffThreshold float64 `koanf:"movement_diff_threshold"`
	MovementScalingFactor float64 `koanf:"movement_scaling_factor"`
	MovementWarmupFrames  int     `koanf:"movement_warmup_frames"`

	// FrameWidth and FrameHeight describe the grayscale frames fed to the
	// pipeline over the reader source.
	FrameWidth  int `koanf:"frame_width"`
	FrameHeight int `koanf:"frame_height"`

	// FrameRate is the nominal capture rate used to derive timestamps for
	// piped frames.
	FrameRate float64 `koanf:"frame_rate"`

	// AnalyzerURL points at the face-analysis sidecar. Empty disables facial
	// analysis; the pipeline then scores on movement alone.
	AnalyzerURL string `koanf:"analyzer_url"`

	// AnalyzerTimeoutMS bounds one sidecar round trip.
	AnalyzerTimeoutMS int `koanf:"analyzer_timeout_ms"`

	// Notifier selects the alert transport: log, mqtt or sms.
	Notifier string `koanf:"notifier"`

	// MQTT transport settings (notifier = mqtt).
	MQTTBroker string `koanf:"mqtt_broker"`
	MQTTTopic  string `koanf:"mqtt_topic"`

	// SMS transport settings (notifier = sms).
	SMSAPIURL     string `koanf:"sms_api_url"`
	SMSAccountSID string `koanf:"sms_account_sid"`
	SMSAuthToken  string `koanf:"sms_auth_token"`
	SMSFrom       string `koanf:"sms_from"`
	SMSTo         string `koanf:"sms_to"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		PainThreshold:        0.7,
		AlertCooldownSeconds: 300,
		AlertRetryOnFailure:  false,
		SmoothingWindow:      5,
		IndicatorWeights: map[string]float64{
			model.IndicatorEmotionPainProxy: 0.70,
		},
		MovementWeight:        0.30,
		MovementLearningRate:  0.05,
		MovementDiffThreshold: 40,
		MovementScalingFactor: 10,
		MovementWarmupFrames:  5,
		FrameWidth:            320,
		FrameHeight:           240,
		FrameRate:             15,
		AnalyzerTimeoutMS:     500,
		Notifier:              NotifierLog,
		MQTTTopic:             "vigil/alerts",
	}
}
