// Package daemon wires the alert controller to a hardware backend, the
// audit store and optional MQTT telemetry, and drives the single-threaded
// control loop. The loop is a rate limiter, not a scheduler: one tick
// samples the inputs, advances the state machine, applies the outputs
// and dispatches audit events.
package daemon
