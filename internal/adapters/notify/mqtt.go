package notify

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Default MQTT notifier configuration constants.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesceMS   = 1000
)

// MQTTOption applies a configuration option to the MQTTNotifier.
type MQTTOption func(*MQTTNotifier)

// WithClientID overrides the MQTT client id.
func WithClientID(id string) MQTTOption {
	return func(n *MQTTNotifier) {
		if id != "" {
			n.clientID = id
		}
	}
}

// WithPublishTimeout bounds one publish round trip.
func WithPublishTimeout(d time.Duration) MQTTOption {
	return func(n *MQTTNotifier) {
		if d > 0 {
			n.publishTimeout = d
		}
	}
}

// MQTTNotifier publishes alert messages to an MQTT topic. Alerts use QoS 1:
// the gate fires rarely and a lost alert defeats the whole system.
type MQTTNotifier struct {
	client         paho.Client
	topic          string
	clientID       string
	publishTimeout time.Duration
}

// NewMQTTNotifier connects to broker and returns a topic-bound notifier.
func NewMQTTNotifier(broker, topic string, opts ...MQTTOption) (*MQTTNotifier, error) {
	n := &MQTTNotifier{
		topic:          topic,
		clientID:       "vigil-monitor",
		publishTimeout: defaultPublishTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(n)
	}

	clientOpts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(n.clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, ErrConnectTimeout
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	n.client = client
	return n, nil
}

// Notify publishes one alert message, QoS 1, not retained.
func (n *MQTTNotifier) Notify(_ context.Context, message string) error {
	token := n.client.Publish(n.topic, 1, false, message)
	if !token.WaitTimeout(n.publishTimeout) {
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(disconnectQuiesceMS)
	return nil
}
