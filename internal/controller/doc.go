// Package controller implements the event-debouncing and alert state
// machine at the heart of the room controller.
//
// It fuses three asynchronous, noisy input sources (button, card reader,
// ultrasonic range sensor) into a single coherent alert/VIP state using
// non-blocking elapsed-time comparisons for debounce, cooldown and blink
// cadence. All state lives in one struct owned by the Controller and is
// mutated only through Tick, which the control loop calls once per
// polling interval with an injected clock value. The package performs no
// I/O and never sleeps; hardware access happens behind the Ranger and
// the loop's own collaborators.
package controller
