package controller

import "time"

// blinker produces the buzzer cadence while an alert is active. It is
// inert outside alerts; each entry into the alerting state re-initializes
// it explicitly rather than relying on leftovers from a prior cycle.
type blinker struct {
	on         bool
	lastToggle time.Time
}

// start initializes the cadence at the moment an alert begins: buzzer on,
// toggle clock rebased to now.
func (b *blinker) start(now time.Time) {
	b.on = true
	b.lastToggle = now
}

// advance toggles the output when a full BlinkInterval has elapsed since
// the last toggle and returns the current level. Drift is bounded by the
// loop tick period because the toggle clock rebases on each flip.
func (b *blinker) advance(now time.Time) bool {
	if now.Sub(b.lastToggle) >= BlinkInterval {
		b.on = !b.on
		b.lastToggle = now
	}

	return b.on
}
