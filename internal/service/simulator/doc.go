// Package simulator runs the control loop against an in-memory backend
// driven from stdin, so the alert logic can be exercised on a
// workstation without a Raspberry Pi attached.
package simulator
