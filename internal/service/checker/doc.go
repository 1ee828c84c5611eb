// Package checker implements the watchdog that verifies a controller
// daemon is alive. It looks for a running roomguard process and checks
// that the newest heartbeat in the event store is recent, either once
// or on a polling interval.
package checker
