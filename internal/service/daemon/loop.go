package daemon

import (
	"context"
	"time"

	"github.com/roomguard/roomguard/internal/controller"
	"github.com/roomguard/roomguard/internal/domain/access"
	"github.com/roomguard/roomguard/internal/hardware"
	"github.com/roomguard/roomguard/internal/logger"
)

// DispatchFunc receives the audit events of one tick together with the
// snapshot taken after the tick. It runs on the loop goroutine and must
// stay fast; it is only invoked when there is something to report.
type DispatchFunc func(ctx context.Context, events []access.Event, snap access.Snapshot)

// Loop drives the controller against a hardware backend at a fixed
// cadence. All controller state is owned by the loop goroutine.
type Loop struct {
	hw       hardware.Backend
	ctrl     *controller.Controller
	dispatch DispatchFunc

	// heartbeatEvery injects synthetic heartbeat events so the checker
	// can tell a stalled controller from a quiet room. Zero disables it.
	heartbeatEvery time.Duration
	lastBeat       time.Time

	lastOut controller.Output
	applied bool
}

// NewLoop assembles a control loop. dispatch may be nil when the caller
// has no use for events (tests).
func NewLoop(hw hardware.Backend, ctrl *controller.Controller, dispatch DispatchFunc, heartbeatEvery time.Duration) *Loop {
	return &Loop{
		hw:             hw,
		ctrl:           ctrl,
		dispatch:       dispatch,
		heartbeatEvery: heartbeatEvery,
	}
}

// Run executes the loop until the context is canceled, then quiesces the
// outputs. The ticker enforces the minimum tick period; a tick that
// overruns (echo timeout worst case) simply delays the next one.
func (l *Loop) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.quiesce(ctx)

			return nil
		case now := <-ticker.C:
			l.step(ctx, now)
		}
	}
}

// step runs one tick: sample inputs, advance the machine, apply outputs,
// dispatch events.
func (l *Loop) step(ctx context.Context, now time.Time) {
	active, err := l.hw.ButtonActive()
	if err != nil {
		logger.ErrorKV(ctx, "Button read failed", "error", err)

		active = false
	}

	var card *access.UID

	uid, present, err := l.hw.PollCard()

	switch {
	case err != nil:
		logger.ErrorKV(ctx, "Card poll failed", "error", err)
	case present:
		card = &uid

		// End the card session so the next tick does not re-read it.
		if err := l.hw.HaltSession(); err != nil {
			logger.WarnKV(ctx, "Halting card session failed", "error", err)
		}
	}

	out, events := l.ctrl.Tick(controller.Input{
		ButtonActive: active,
		Card:         card,
		Now:          now,
	})

	changed := l.apply(ctx, out)

	if l.heartbeatEvery > 0 && now.Sub(l.lastBeat) >= l.heartbeatEvery {
		l.lastBeat = now
		events = append(events, access.Event{At: now, Kind: access.EventHeartbeat})
	}

	if l.dispatch != nil && (len(events) > 0 || changed) {
		l.dispatch(ctx, events, l.ctrl.Snapshot(now))
	}
}

// apply pushes the output command set to the pins when it changed and
// reports whether it did.
func (l *Loop) apply(ctx context.Context, out controller.Output) bool {
	if l.applied && out == l.lastOut {
		return false
	}

	if err := l.hw.SetLED(out.LED); err != nil {
		logger.ErrorKV(ctx, "LED write failed", "error", err)
	}

	if err := l.hw.SetBuzzer(out.Buzzer); err != nil {
		logger.ErrorKV(ctx, "Buzzer write failed", "error", err)
	}

	logger.DebugKV(ctx, "Outputs applied", "led", out.LED, "buzzer", out.Buzzer)

	l.lastOut = out
	l.applied = true

	return true
}

// quiesce forces both outputs off on shutdown.
func (l *Loop) quiesce(ctx context.Context) {
	if err := l.hw.SetBuzzer(false); err != nil {
		logger.ErrorKV(ctx, "Buzzer write failed", "error", err)
	}

	if err := l.hw.SetLED(false); err != nil {
		logger.ErrorKV(ctx, "LED write failed", "error", err)
	}
}

// ranger adapts the hardware sensor to the controller's Ranger, folding
// read errors into "no reading" with a log line. The fail-safe stance is
// deliberate: a broken sensor must not raise alarms.
type ranger struct {
	ctx    context.Context
	sensor hardware.RangeSensor
}

// NewRanger wraps a hardware range sensor for the controller.
//
//nolint:ireturn // The controller consumes the interface.
func NewRanger(ctx context.Context, sensor hardware.RangeSensor) controller.Ranger {
	return &ranger{ctx: ctx, sensor: sensor}
}

// MeasureCentimeters samples the sensor once.
func (r *ranger) MeasureCentimeters() (float64, bool) {
	cm, ok, err := r.sensor.MeasureCentimeters()
	if err != nil {
		logger.ErrorKV(r.ctx, "Distance measurement failed", "error", err)

		return 0, false
	}

	return cm, ok
}
