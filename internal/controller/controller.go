package controller

import (
	"fmt"
	"time"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// Ranger supplies on-demand distance readings. ok is false when the
// sensor saw no echo within its timeout; callers must treat that as "no
// detection", never as zero distance.
type Ranger interface {
	MeasureCentimeters() (cm float64, ok bool)
}

// Input carries one tick's worth of sampled inputs. Distance is not part
// of the input: the controller pulls it through the Ranger only when the
// idle-detection guard is actually reached.
type Input struct {
	// ButtonActive is the logical button level (true while held).
	ButtonActive bool
	// Card is the identifier scanned this tick, if any.
	Card *access.UID
	// Now is the loop's monotonic clock value for this tick.
	Now time.Time
}

// Output is the command set for the two physical outputs after a tick.
type Output struct {
	// LED drives the visual indicator.
	LED bool
	// Buzzer drives the audible indicator through its switching transistor.
	Buzzer bool
}

// State is the complete mutable state of the alert state machine. It is
// one explicit struct so that every field has exactly one writer: Tick.
type State struct {
	// Alerting reports an unacknowledged motion detection.
	Alerting bool
	// VIPMode suppresses the buzzer side effect of alerts. Orthogonal to Alerting.
	VIPMode bool
	// VIPStart is when the current VIP window opened.
	VIPStart time.Time
	// LastMotion gates distance sampling through the cooldown window.
	LastMotion time.Time
	// LED and Buzzer mirror the last commanded output levels.
	LED    bool
	Buzzer bool
}

// Controller owns the alert state machine. It is not safe for concurrent
// use; the control loop is the single caller.
type Controller struct {
	ranger   Ranger
	button   Button
	registry *Registry
	blink    blinker
	state    State

	// silentTimeouts counts consecutive echo timeouts for fault surfacing.
	silentTimeouts int
}

// New returns a controller in the idle state with all scan flags cleared.
func New(ranger Ranger) *Controller {
	return &Controller{
		ranger:   ranger,
		registry: NewRegistry(AllowList),
	}
}

// State returns a copy of the current machine state.
func (c *Controller) State() State {
	return c.state
}

// Registry exposes the scan registry, primarily for inspection.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Snapshot reports the externally visible state at the given instant.
func (c *Controller) Snapshot(now time.Time) access.Snapshot {
	return access.Snapshot{
		At:       now,
		Alerting: c.state.Alerting,
		VIPMode:  c.state.VIPMode,
		LED:      c.state.LED,
		Buzzer:   c.state.Buzzer,
	}
}

// Tick advances the state machine by one loop iteration. Guards run as
// an explicit ordered list: VIP activation, VIP expiration, then exactly
// one of acknowledgment (while alerting) or idle handling, then the
// blink pass. Acknowledgment dominates new detections within a tick so a
// just-cleared alert cannot be re-armed by a stale reading, and a button
// press beats a card scan when both arrive together.
//
// Tick returns the output command set and any audit events. Events are
// informational only and never feed back into the machine.
func (c *Controller) Tick(in Input) (Output, []access.Event) {
	var events []access.Event

	now := in.Now
	pressed := c.button.Poll(in.ButtonActive, now)

	// VIP activation: button press, or all credentials presented since
	// the last reset. The press is also an acknowledgment below; the two
	// categories are independent.
	if !c.state.VIPMode && (pressed || c.registry.AllScanned()) {
		source := "all credentials presented"
		if pressed {
			source = "button"
		}

		c.state.VIPMode = true
		c.state.VIPStart = now
		c.state.LED = true

		events = append(events, access.Event{
			At:     now,
			Kind:   access.EventVIPEntered,
			Detail: source,
		})
	}

	// VIP expiration: close the window, clear the scan registry and
	// retract the courtesy light unless an alert still needs it.
	if c.state.VIPMode && now.Sub(c.state.VIPStart) > VIPDuration {
		c.state.VIPMode = false
		c.registry.Reset()

		if !c.state.Alerting {
			c.state.LED = false
		}

		events = append(events, access.Event{At: now, Kind: access.EventVIPExpired})
	}

	if c.state.Alerting {
		events = append(events, c.acknowledge(pressed, in.Card, now)...)
	} else {
		events = append(events, c.idle(in.Card, now)...)
	}

	// Blink pass: cadence while alerting, forced silence under VIP.
	if c.state.Alerting {
		if c.state.VIPMode {
			c.state.Buzzer = false
		} else {
			c.state.Buzzer = c.blink.advance(now)
		}
	}

	return Output{LED: c.state.LED, Buzzer: c.state.Buzzer}, events
}

// acknowledge handles inputs while an alert is active. The button is
// checked first; a card is only consulted when no press arrived. Either
// path ends input handling for the tick.
func (c *Controller) acknowledge(pressed bool, card *access.UID, now time.Time) []access.Event {
	switch {
	case pressed:
		c.state.Alerting = false
		c.state.Buzzer = false
		// Courtesy level: keep the light on only inside a VIP window.
		c.state.LED = c.state.VIPMode

		return []access.Event{{At: now, Kind: access.EventAlertAcknowledged, Detail: "button"}}
	case card != nil:
		if matched := c.registry.Match(*card); len(matched) > 0 {
			c.state.Alerting = false
			c.state.Buzzer = false
			// Trusted presence: force the light on regardless of VIP.
			c.state.LED = true

			return []access.Event{
				{At: now, Kind: access.EventCardAccepted, UID: card},
				{At: now, Kind: access.EventAlertAcknowledged, UID: card, Detail: "credential"},
			}
		}

		return []access.Event{{At: now, Kind: access.EventCardRejected, UID: card}}
	default:
		return nil
	}
}

// idle handles inputs while no alert is active. A card scan counts as
// proof of authorized presence and resets the motion cooldown; otherwise
// the distance sensor is sampled once the cooldown has elapsed.
func (c *Controller) idle(card *access.UID, now time.Time) []access.Event {
	if card != nil {
		if matched := c.registry.Match(*card); len(matched) > 0 {
			c.state.LED = true
			c.state.LastMotion = now

			return []access.Event{{At: now, Kind: access.EventCardAccepted, UID: card}}
		}

		return []access.Event{{At: now, Kind: access.EventCardRejected, UID: card}}
	}

	if now.Sub(c.state.LastMotion) <= MotionCooldown {
		return nil
	}

	cm, ok := c.ranger.MeasureCentimeters()
	if !ok {
		// Fail-safe: no echo means "no motion", never an alert. A long
		// streak is still surfaced once so a dead sensor is noticed.
		c.silentTimeouts++
		if c.silentTimeouts == sensorSilentStreak {
			return []access.Event{{
				At:     now,
				Kind:   access.EventSensorSilent,
				Detail: fmt.Sprintf("%d consecutive echo timeouts", sensorSilentStreak),
			}}
		}

		return nil
	}

	c.silentTimeouts = 0

	if cm > MotionThresholdCentimeters {
		return nil
	}

	c.state.LastMotion = now

	if c.state.VIPMode {
		// Passive indication only: VIP suppresses the alert entirely.
		c.state.LED = true

		return []access.Event{{
			At:     now,
			Kind:   access.EventMotionDuringVIP,
			Detail: fmt.Sprintf("%.1f cm", cm),
		}}
	}

	c.state.Alerting = true
	c.blink.start(now)
	c.state.Buzzer = true
	c.state.LED = true

	return []access.Event{{
		At:     now,
		Kind:   access.EventMotionAlert,
		Detail: fmt.Sprintf("%.1f cm", cm),
	}}
}
