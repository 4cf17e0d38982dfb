// Package alert decides when a smoothed pain score is allowed to raise an
// external notification.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default gate configuration constants.
const (
	defaultThreshold = 0.7
	defaultCooldown  = 300 * time.Second
)

// State identifies the gate's position in its two-state machine.
type State string

// Gate states. The gate is Idle until it fires, Cooling until the cooldown
// elapses, then Idle again; there is no terminal state.
const (
	StateIdle    State = "idle"
	StateCooling State = "cooling"
)

// Notifier dispatches one alert message. Retries, rate limits and transport
// credentials belong to the implementation, not to the gate.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithThreshold sets the smoothed-score threshold at which the gate fires.
func WithThreshold(t float64) Option {
	return func(g *Gate) {
		if t >= 0 && t <= 1 {
			g.threshold = t
		}
	}
}

// WithCooldown sets the minimum enforced time between two dispatches.
func WithCooldown(d time.Duration) Option {
	return func(g *Gate) {
		if d >= 0 {
			g.cooldown = d
		}
	}
}

// WithRetryOnFailure controls what a failed dispatch does to the cooldown
// timer. When false (the default) the timer commits on the attempt, trading
// a lost alert for protection against retry storms. When true the timer is
// left untouched so the next qualifying frame retries immediately.
func WithRetryOnFailure(retry bool) Option {
	return func(g *Gate) {
		g.retryOnFailure = retry
	}
}

// Observation is one smoothed score sample presented to the gate.
type Observation struct {
	Score float64   // smoothed pain score in [0,1]
	TS    time.Time // frame timestamp; must be non-decreasing across calls
}

// Decision reports what the gate did with an observation.
type Decision struct {
	Fired   bool   // a notification dispatch was attempted
	AlertID string // uuid of the dispatched alert, empty when not fired
	State   State  // gate state after the observation
}

// Gate is the alert state machine. It owns the last-alert timestamp; time is
// taken from observation timestamps rather than the wall clock so that
// replaying an identical input sequence reproduces identical firings.
//
// Not safe for concurrent use: the pipeline presents observations from a
// single goroutine in frame-arrival order.
type Gate struct {
	threshold      float64
	cooldown       time.Duration
	retryOnFailure bool
	notifier       Notifier

	lastAlert time.Time // zero until the first dispatch attempt
}

// NewGate creates an alert gate with configuration options.
func NewGate(notifier Notifier, opts ...Option) *Gate {
	g := &Gate{
		threshold: defaultThreshold,
		cooldown:  defaultCooldown,
		notifier:  notifier,
	}

	// Apply all options
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Observe presents one smoothed score to the gate. It dispatches at most one
// notification and returns the resulting decision. A dispatch failure is
// returned to the caller but the transition has already been committed
// (unless retry-on-failure is enabled); the error is non-fatal to the loop.
func (g *Gate) Observe(ctx context.Context, obs Observation) (Decision, error) {
	if obs.Score < g.threshold || !g.ready(obs.TS) {
		return Decision{State: g.stateAt(obs.TS)}, nil
	}

	id := uuid.NewString()
	msg := fmt.Sprintf("pain alert %s: smoothed pain score %.2f at %s exceeds threshold %.2f",
		id, obs.Score, obs.TS.Format(time.RFC3339), g.threshold)

	err := g.notifier.Notify(ctx, msg)
	if err != nil && g.retryOnFailure {
		// Leave the timer untouched; the next qualifying frame retries.
		return Decision{State: g.stateAt(obs.TS)}, fmt.Errorf("alert dispatch failed: %w", err)
	}

	// Commit on attempt, delivered or not.
	g.lastAlert = obs.TS
	d := Decision{Fired: true, AlertID: id, State: StateCooling}
	if err != nil {
		return d, fmt.Errorf("alert dispatch failed: %w", err)
	}
	return d, nil
}

// State reports the gate state as of the given time.
func (g *Gate) State(now time.Time) State {
	return g.stateAt(now)
}

// LastAlert returns the timestamp of the last dispatch attempt, zero if the
// gate has never fired.
func (g *Gate) LastAlert() time.Time {
	return g.lastAlert
}

// ready reports whether a dispatch is permitted at ts: either no alert was
// ever sent, or the cooldown has fully elapsed.
func (g *Gate) ready(ts time.Time) bool {
	if g.lastAlert.IsZero() {
		return true
	}
	return ts.Sub(g.lastAlert) >= g.cooldown
}

func (g *Gate) stateAt(ts time.Time) State {
	if g.ready(ts) {
		return StateIdle
	}
	return StateCooling
}
