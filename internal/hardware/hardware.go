package hardware

import (
	"time"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// EchoTimeout bounds the wait for the ultrasonic echo pulse. No echo
// within this window means open space or a sensor fault; both are
// reported as "no reading".
const EchoTimeout = 50000 * time.Microsecond

// CardReader exposes the proximity-card reader. PollCard must not block
// beyond a short bounded probe.
type CardReader interface {
	// PollCard reports the identifier of a card currently in the field,
	// if any. ok is false when no card is present.
	PollCard() (uid access.UID, ok bool, err error)
	// HaltSession tells the current card to leave the active state so
	// the next poll does not re-read it immediately.
	HaltSession() error
}

// RangeSensor exposes the ultrasonic distance sensor.
type RangeSensor interface {
	// MeasureCentimeters triggers one measurement. ok is false when no
	// echo arrived within EchoTimeout; callers must treat that as "no
	// detection", never as zero distance.
	MeasureCentimeters() (cm float64, ok bool, err error)
}

// DigitalIO exposes the three plain GPIO roles of the unit.
type DigitalIO interface {
	// SetLED drives the visual indicator output.
	SetLED(on bool) error
	// SetBuzzer drives the audible indicator output.
	SetBuzzer(on bool) error
	// ButtonActive reads the momentary button, with the active-low
	// translation already applied (true while held).
	ButtonActive() (bool, error)
}

// Backend bundles the hardware collaborators of one controller unit.
type Backend interface {
	CardReader
	RangeSensor
	DigitalIO

	// Close releases pins, buses and device sessions.
	Close() error
}

// PulseToCentimeters converts an ultrasonic echo pulse width in
// microseconds into a distance. The factor is the speed of sound in
// cm/µs halved for the round trip.
func PulseToCentimeters(pulseMicros int64) float64 {
	return float64(pulseMicros) * 0.034 / 2
}
