// Package telemetry publishes controller state over MQTT: a retained
// JSON snapshot on the status topic and one JSON message per audit event
// on the events topic. Telemetry is strictly informational; publish
// failures are reported to the caller for logging and never influence
// the control loop.
package telemetry
