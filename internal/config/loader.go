package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VIGIL_CONFIG is set
//  3. env (prefix VIGIL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("VIGIL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Environment variables: VIGIL_ADDR, VIGIL_PAIN_THRESHOLD, ...
	// Map env keys like VIGIL_PAIN_THRESHOLD -> pain_threshold (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("VIGIL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "vigil_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline must not run with.
func (c *Config) Validate() error {
	if c.PainThreshold < 0 || c.PainThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.AlertCooldownSeconds < 0 {
		return ErrInvalidCooldown
	}
	if c.SmoothingWindow < 1 {
		return ErrInvalidWindow
	}
	if c.MovementWeight < 0 {
		return ErrInvalidWeight
	}
	for name, w := range c.IndicatorWeights {
		if w < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidWeight, name)
		}
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return ErrInvalidFrameSize
	}
	if c.FrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	switch c.Notifier {
	case NotifierLog:
	case NotifierMQTT:
		if c.MQTTBroker == "" || c.MQTTTopic == "" {
			return ErrIncompleteMQTT
		}
	case NotifierSMS:
		if c.SMSAPIURL == "" || c.SMSAccountSID == "" || c.SMSAuthToken == "" || c.SMSFrom == "" || c.SMSTo == "" {
			return ErrIncompleteSMS
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownNotifier, c.Notifier)
	}
	return nil
}
