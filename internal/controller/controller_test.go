package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomguard/roomguard/internal/domain/access"
)

// stubRanger is a scriptable distance source counting how often it is sampled.
type stubRanger struct {
	// cm is the reading to return when ok is true.
	cm float64
	// ok is false to simulate an echo timeout.
	ok bool
	// calls counts MeasureCentimeters invocations.
	calls int
}

// MeasureCentimeters returns the scripted reading.
func (r *stubRanger) MeasureCentimeters() (float64, bool) {
	r.calls++

	return r.cm, r.ok
}

// clear returns a ranger that reports open space well past the threshold.
func clear() *stubRanger {
	return &stubRanger{cm: 180, ok: true}
}

// kinds extracts the event kinds in order for compact assertions.
func kinds(events []access.Event) []access.EventKind {
	out := make([]access.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}

	return out
}

// press runs the two ticks a debounced press needs: the level change and
// the stable sample one window later. It returns the second tick's results.
func press(c *Controller, at time.Time, card *access.UID) (Output, []access.Event) {
	c.Tick(Input{ButtonActive: true, Now: at})

	return c.Tick(Input{ButtonActive: true, Card: card, Now: at.Add(DebounceWindow)})
}

// release lets go of the button so a later press can fire again.
func release(c *Controller, at time.Time) {
	c.Tick(Input{Now: at})
}

// TestMotionStartsAlert verifies the §8 scenario: idle, no cards, a 15cm
// reading after the cooldown elapsed, VIP off -> alerting with buzzer and
// LED on and the cooldown timer rebased.
func TestMotionStartsAlert(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{cm: 15, ok: true}
	c := New(ranger)

	now := time.Unix(1000, 0)
	out, events := c.Tick(Input{Now: now})

	require.True(t, out.LED)
	require.True(t, out.Buzzer)
	require.Equal(t, []access.EventKind{access.EventMotionAlert}, kinds(events))

	state := c.State()
	require.True(t, state.Alerting)
	require.False(t, state.VIPMode)
	require.Equal(t, now, state.LastMotion)
}

// TestOpenSpaceStaysIdle verifies that readings past the threshold and
// echo timeouts both leave the machine idle with outputs off.
func TestOpenSpaceStaysIdle(t *testing.T) {
	t.Parallel()

	for name, ranger := range map[string]*stubRanger{
		"far reading": clear(),
		"echo timeout": {ok: false},
	} {
		out, events := New(ranger).Tick(Input{Now: time.Unix(1000, 0)})

		require.False(t, out.LED, name)
		require.False(t, out.Buzzer, name)
		require.Empty(t, events, name)
	}
}

// TestCardScanSuppressesMotionSampling verifies that an authorized scan
// during idle lights the LED and rebases the motion cooldown, so the
// sensor is not consulted until the window elapses.
func TestCardScanSuppressesMotionSampling(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{cm: 10, ok: true}
	c := New(ranger)

	now := time.Unix(1000, 0)
	uid := AllowList[0]

	out, events := c.Tick(Input{Card: &uid, Now: now})
	require.True(t, out.LED)
	require.False(t, out.Buzzer)
	require.Equal(t, []access.EventKind{access.EventCardAccepted}, kinds(events))
	require.Zero(t, ranger.calls)

	// Within the cooldown: the sensor stays untouched even at 10cm.
	_, events = c.Tick(Input{Now: now.Add(MotionCooldown)})
	require.Empty(t, events)
	require.Zero(t, ranger.calls)

	// Past the cooldown: sampling resumes and the close reading alerts.
	_, events = c.Tick(Input{Now: now.Add(MotionCooldown + time.Millisecond)})
	require.Equal(t, 1, ranger.calls)
	require.Equal(t, []access.EventKind{access.EventMotionAlert}, kinds(events))
}

// TestUnknownCardIsLoggedOnly verifies that a non-allow-listed scan emits
// a rejection event and changes no state.
func TestUnknownCardIsLoggedOnly(t *testing.T) {
	t.Parallel()

	c := New(clear())

	uid := access.UID{0xDE, 0xAD, 0xBE, 0xEF}
	out, events := c.Tick(Input{Card: &uid, Now: time.Unix(1000, 0)})

	require.False(t, out.LED)
	require.False(t, out.Buzzer)
	require.Equal(t, []access.EventKind{access.EventCardRejected}, kinds(events))
	require.False(t, c.State().Alerting)
}

// TestCardAcknowledgesAlert verifies the §8 scenario: alerting, VIP off,
// scanning an allow-listed card returns to idle with the buzzer off, the
// LED forced on, and the scan flag retained across the transition.
func TestCardAcknowledgesAlert(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{cm: 15, ok: true}
	c := New(ranger)

	now := time.Unix(1000, 0)
	c.Tick(Input{Now: now}) // enter alerting

	uid := AllowList[1]
	out, events := c.Tick(Input{Card: &uid, Now: now.Add(50 * time.Millisecond)})

	require.False(t, out.Buzzer)
	require.True(t, out.LED)
	require.Equal(t,
		[]access.EventKind{access.EventCardAccepted, access.EventAlertAcknowledged},
		kinds(events))

	state := c.State()
	require.False(t, state.Alerting)
	require.True(t, c.Registry().Scanned(1))
}

// TestButtonBeatsCardAcknowledgment verifies acknowledgment precedence:
// when a press and a valid scan land on the same tick while alerting, the
// button path runs and the card is not consulted at all that tick.
func TestButtonBeatsCardAcknowledgment(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{cm: 15, ok: true}
	c := New(ranger)

	now := time.Unix(1000, 0)
	c.Tick(Input{Now: now}) // enter alerting

	uid := AllowList[1]
	out, events := press(c, now.Add(100*time.Millisecond), &uid)

	// The press acknowledges and simultaneously opens the VIP window, so
	// the LED stays on as the courtesy light. The card left no trace.
	require.False(t, out.Buzzer)
	require.True(t, out.LED)
	require.Equal(t,
		[]access.EventKind{access.EventVIPEntered, access.EventAlertAcknowledged},
		kinds(events))

	state := c.State()
	require.False(t, state.Alerting)
	require.True(t, state.VIPMode)
	require.False(t, c.Registry().Scanned(1))
}

// TestButtonAckInsideVIPKeepsWindow verifies that a press while a VIP
// window is already open acknowledges the alert without re-opening the
// window or moving its start time.
func TestButtonAckInsideVIPKeepsWindow(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{ok: false}
	c := New(ranger)

	now := time.Unix(1000, 0)
	press(c, now, nil)
	release(c, now.Add(50*time.Millisecond))

	vipStart := c.State().VIPStart

	// Force an alert by hand; motion cannot raise one during VIP.
	c.state.Alerting = true
	c.blink.start(now.Add(time.Second))

	out, events := press(c, now.Add(2*time.Second), nil)

	require.Equal(t, []access.EventKind{access.EventAlertAcknowledged}, kinds(events))
	require.False(t, out.Buzzer)
	require.True(t, out.LED)
	require.False(t, c.State().Alerting)
	require.True(t, c.State().VIPMode)
	require.Equal(t, vipStart, c.State().VIPStart)
}

// TestButtonActivatesVIP verifies the §8 scenario: idle, VIP off, a press
// opens the window; 30001ms later it closes and the registry clears.
func TestButtonActivatesVIP(t *testing.T) {
	t.Parallel()

	c := New(clear())

	now := time.Unix(1000, 0)

	c.Registry().Match(AllowList[0])

	out, events := press(c, now, nil)
	require.Equal(t, []access.EventKind{access.EventVIPEntered}, kinds(events))
	require.True(t, out.LED)

	state := c.State()
	require.True(t, state.VIPMode)
	require.Equal(t, now.Add(DebounceWindow), state.VIPStart)

	// Exactly at the bound the window is still open.
	_, events = c.Tick(Input{Now: state.VIPStart.Add(VIPDuration)})
	require.Empty(t, events)
	require.True(t, c.State().VIPMode)

	// One millisecond past: closed, registry cleared, LED retracted.
	out, events = c.Tick(Input{Now: state.VIPStart.Add(VIPDuration + time.Millisecond)})
	require.Equal(t, []access.EventKind{access.EventVIPExpired}, kinds(events))
	require.False(t, out.LED)
	require.False(t, c.State().VIPMode)
	require.False(t, c.Registry().Scanned(0))
}

// TestVIPAutoActivation verifies that presenting all three distinct
// credentials (in any order) activates VIP on the next tick, and that
// repeated scans of one credential never do.
func TestVIPAutoActivation(t *testing.T) {
	t.Parallel()

	c := New(clear())

	now := time.Unix(1000, 0)
	step := 100 * time.Millisecond

	order := []access.UID{AllowList[2], AllowList[0], AllowList[0], AllowList[1]}
	for i, uid := range order {
		card := uid
		_, events := c.Tick(Input{Card: &card, Now: now.Add(time.Duration(i) * step)})
		require.Equal(t, []access.EventKind{access.EventCardAccepted}, kinds(events))
		require.False(t, c.State().VIPMode, "scan %d must not activate VIP yet", i)
	}

	// The completing scan takes effect on the following tick.
	_, events := c.Tick(Input{Now: now.Add(time.Duration(len(order)) * step)})
	require.Equal(t, []access.EventKind{access.EventVIPEntered}, kinds(events))
	require.True(t, c.State().VIPMode)
}

// TestVIPSuppressesMotionAlert verifies that motion during VIP keeps the
// buzzer silent forever while still lighting the LED and rebasing the cooldown.
func TestVIPSuppressesMotionAlert(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{ok: false}
	c := New(ranger)

	now := time.Unix(1000, 0)
	press(c, now, nil)
	release(c, now.Add(DebounceWindow+time.Millisecond))

	ranger.cm = 10
	ranger.ok = true

	sampleAt := now.Add(2 * time.Second)
	out, events := c.Tick(Input{Now: sampleAt})

	require.Equal(t, []access.EventKind{access.EventMotionDuringVIP}, kinds(events))
	require.True(t, out.LED)
	require.False(t, out.Buzzer)
	require.False(t, c.State().Alerting)
	require.Equal(t, sampleAt, c.State().LastMotion)

	// Within the rebased cooldown the sensor is left alone.
	sampled := ranger.calls
	c.Tick(Input{Now: sampleAt.Add(time.Second)})
	require.Equal(t, sampled, ranger.calls)
}

// TestVIPExpiryDuringIdleClearsLED verifies the expiry side effects when
// no alert is active: scan flags cleared and the courtesy light off.
func TestVIPExpiryDuringIdleClearsLED(t *testing.T) {
	t.Parallel()

	c := New(clear())

	now := time.Unix(1000, 0)
	press(c, now, nil)

	c.Registry().Match(AllowList[2])

	out, events := c.Tick(Input{Now: now.Add(DebounceWindow + VIPDuration + time.Millisecond)})
	require.Equal(t, []access.EventKind{access.EventVIPExpired}, kinds(events))
	require.False(t, out.LED)
	require.False(t, c.Registry().Scanned(2))
}

// TestBuzzerBlinkCadence verifies the one-second buzzer toggle while
// alerting, measured from the last toggle rather than the tick count.
func TestBuzzerBlinkCadence(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{cm: 15, ok: true}
	c := New(ranger)

	now := time.Unix(1000, 0)
	out, _ := c.Tick(Input{Now: now})
	require.True(t, out.Buzzer)

	out, _ = c.Tick(Input{Now: now.Add(500 * time.Millisecond)})
	require.True(t, out.Buzzer)

	out, _ = c.Tick(Input{Now: now.Add(BlinkInterval)})
	require.False(t, out.Buzzer)

	out, _ = c.Tick(Input{Now: now.Add(2 * BlinkInterval)})
	require.True(t, out.Buzzer)
}

// TestSensorSilentStreakSurfacedOnce verifies the sensor-fault decision:
// a long run of echo timeouts stays fail-safe (no alert) but emits a
// single sensor_silent event per streak, and a reading resets the streak.
func TestSensorSilentStreakSurfacedOnce(t *testing.T) {
	t.Parallel()

	ranger := &stubRanger{ok: false}
	c := New(ranger)

	now := time.Unix(1000, 0)

	var surfaced int

	for i := 0; i < sensorSilentStreak*2; i++ {
		out, events := c.Tick(Input{Now: now.Add(time.Duration(i) * 20 * time.Millisecond)})
		require.False(t, out.Buzzer)
		require.False(t, c.State().Alerting)

		for _, e := range events {
			require.Equal(t, access.EventSensorSilent, e.Kind)
			surfaced++
		}
	}

	require.Equal(t, 1, surfaced)

	// A successful reading resets the streak counter.
	ranger.ok = true
	ranger.cm = 100
	c.Tick(Input{Now: now.Add(time.Hour)})

	ranger.ok = false
	_, events := c.Tick(Input{Now: now.Add(time.Hour + 20*time.Millisecond)})
	require.Empty(t, events)
}
