package alert_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/vigil/internal/domain/alert"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeNotifier records dispatches and can be scripted to fail.
type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func at(seconds int) time.Time {
	return time.Unix(1_700_000_000, 0).Add(time.Duration(seconds) * time.Second)
}

func TestGate_CooldownScenario(t *testing.T) {
	Convey("Given a gate with threshold 0.7 and cooldown 300s", t, func() {
		notifier := &fakeNotifier{}
		gate := alert.NewGate(notifier,
			alert.WithThreshold(0.7),
			alert.WithCooldown(300*time.Second),
		)
		ctx := context.Background()

		Convey("When 0.8 arrives at t=0", func() {
			d, err := gate.Observe(ctx, alert.Observation{Score: 0.8, TS: at(0)})
			So(err, ShouldBeNil)
			So(d.Fired, ShouldBeTrue)
			So(d.AlertID, ShouldNotBeEmpty)
			So(d.State, ShouldEqual, alert.StateCooling)
			So(notifier.messages, ShouldHaveLength, 1)

			Convey("And 0.9 arrives at t=100 within cooldown", func() {
				d2, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(100)})
				So(err, ShouldBeNil)
				So(d2.Fired, ShouldBeFalse)
				So(d2.State, ShouldEqual, alert.StateCooling)
				So(notifier.messages, ShouldHaveLength, 1)

				Convey("And 0.9 arrives at t=305 after cooldown expiry", func() {
					d3, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(305)})
					So(err, ShouldBeNil)
					So(d3.Fired, ShouldBeTrue)
					So(notifier.messages, ShouldHaveLength, 2)
				})
			})
		})

		Convey("When the score equals the threshold exactly", func() {
			d, err := gate.Observe(ctx, alert.Observation{Score: 0.7, TS: at(0)})

			Convey("Then the gate fires on >=, not >", func() {
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeTrue)
			})
		})

		Convey("When the score stays below threshold", func() {
			for i := 0; i < 50; i++ {
				d, err := gate.Observe(ctx, alert.Observation{Score: 0.69, TS: at(i)})
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeFalse)
			}

			Convey("Then nothing is dispatched and the gate stays idle", func() {
				So(notifier.messages, ShouldBeEmpty)
				So(gate.State(at(60)), ShouldEqual, alert.StateIdle)
			})
		})
	})
}

func TestGate_NeverTwiceWithinCooldown(t *testing.T) {
	Convey("Given a fired gate", t, func() {
		notifier := &fakeNotifier{}
		gate := alert.NewGate(notifier,
			alert.WithThreshold(0.5),
			alert.WithCooldown(60*time.Second),
		)
		ctx := context.Background()

		_, err := gate.Observe(ctx, alert.Observation{Score: 1.0, TS: at(0)})
		So(err, ShouldBeNil)

		Convey("When scores of any magnitude arrive within the cooldown", func() {
			for i := 1; i < 60; i++ {
				d, err := gate.Observe(ctx, alert.Observation{Score: 1.0, TS: at(i)})
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeFalse)
			}

			Convey("Then exactly one notification was sent", func() {
				So(notifier.messages, ShouldHaveLength, 1)
			})
		})

		Convey("When the cooldown elapses exactly", func() {
			d, err := gate.Observe(ctx, alert.Observation{Score: 0.6, TS: at(60)})

			Convey("Then the gate re-triggers immediately", func() {
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeTrue)
			})
		})
	})
}

func TestGate_DispatchFailure(t *testing.T) {
	Convey("Given a notifier that fails", t, func() {
		failErr := errors.New("transport down")
		ctx := context.Background()

		Convey("With the default commit-on-attempt policy", func() {
			notifier := &fakeNotifier{err: failErr}
			gate := alert.NewGate(notifier,
				alert.WithThreshold(0.5),
				alert.WithCooldown(100*time.Second),
			)

			d, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(0)})

			Convey("Then the failure is reported but the transition is committed", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, failErr), ShouldBeTrue)
				So(d.Fired, ShouldBeTrue)
				So(gate.LastAlert().Equal(at(0)), ShouldBeTrue)
			})

			Convey("And the next qualifying frame is suppressed by cooldown", func() {
				_, _ = gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(0)})
				d2, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(10)})
				So(err, ShouldBeNil)
				So(d2.Fired, ShouldBeFalse)
			})
		})

		Convey("With retry-on-failure enabled", func() {
			notifier := &fakeNotifier{err: failErr}
			gate := alert.NewGate(notifier,
				alert.WithThreshold(0.5),
				alert.WithCooldown(100*time.Second),
				alert.WithRetryOnFailure(true),
			)

			_, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(0)})
			So(err, ShouldNotBeNil)

			Convey("Then the timer is untouched and the next frame retries", func() {
				So(gate.LastAlert().IsZero(), ShouldBeTrue)

				notifier.err = nil
				d, err := gate.Observe(ctx, alert.Observation{Score: 0.9, TS: at(1)})
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeTrue)
				So(notifier.messages, ShouldHaveLength, 2)
			})
		})
	})
}

func TestGate_ZeroCooldown(t *testing.T) {
	Convey("Given a gate with zero cooldown", t, func() {
		notifier := &fakeNotifier{}
		gate := alert.NewGate(notifier,
			alert.WithThreshold(0.5),
			alert.WithCooldown(0),
		)
		ctx := context.Background()

		Convey("When consecutive frames qualify", func() {
			for i := 0; i < 3; i++ {
				d, err := gate.Observe(ctx, alert.Observation{Score: 0.8, TS: at(i)})
				So(err, ShouldBeNil)
				So(d.Fired, ShouldBeTrue)
			}

			Convey("Then every frame dispatches", func() {
				So(notifier.messages, ShouldHaveLength, 3)
			})
		})
	})
}
