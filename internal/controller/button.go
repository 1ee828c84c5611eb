package controller

import "time"

// Button converts raw level samples of a momentary push button into
// edge-triggered press events, filtering mechanical contact bounce.
//
// The active-low translation happens in the hardware layer; Poll takes
// the logical "is the button held" level.
type Button struct {
	// lastActive is the most recently observed level.
	lastActive bool
	// changedAt is when the level last changed.
	changedAt time.Time
	// reported latches a press so holding the button does not re-fire.
	reported bool
}

// Poll samples the button and reports true at most once per physical
// press, after the level has been continuously active for at least
// DebounceWindow following the last observed change. Bounce shorter than
// the window is suppressed; the press re-arms only once the level
// returns to inactive.
func (b *Button) Poll(active bool, now time.Time) bool {
	if active != b.lastActive {
		b.lastActive = active
		b.changedAt = now

		if !active {
			b.reported = false
		}

		return false
	}

	if active && !b.reported && now.Sub(b.changedAt) >= DebounceWindow {
		b.reported = true

		return true
	}

	return false
}
