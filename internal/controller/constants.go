package controller

import (
	"time"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// Compiled-in tuning constants. These are deliberately not configurable
// at runtime; the deployment config covers wiring only, not behaviour.
const (
	// DebounceWindow is how long the button level must hold steady
	// before a press is reported.
	DebounceWindow = 40 * time.Millisecond

	// MotionCooldown gates distance sampling after a detection or an
	// authorized card scan, suppressing immediate re-triggering.
	MotionCooldown = 1500 * time.Millisecond

	// VIPDuration is the length of the alert-suppression window.
	VIPDuration = 30 * time.Second

	// BlinkInterval is the buzzer toggle period while alerting.
	BlinkInterval = 1000 * time.Millisecond

	// MotionThresholdCentimeters is the distance at or under which a
	// reading counts as motion in the protected space.
	MotionThresholdCentimeters = 20.0

	// sensorSilentStreak is how many consecutive echo timeouts trigger a
	// single sensor_silent audit event. Timeouts stay fail-safe (treated
	// as "no motion"); the event only surfaces a possibly dead sensor.
	sensorSilentStreak = 32
)

// AllowList holds the three credentials accepted by this unit.
// Presenting all of them (in any order) activates VIP mode.
//
//nolint:gochecknoglobals // Compiled-in allow-list per deployment build.
var AllowList = [3]access.UID{
	{0x9C, 0x7A, 0x0F, 0x2B},
	{0x04, 0x5E, 0x83, 0xA1},
	{0x3D, 0xC9, 0x56, 0x78},
}
