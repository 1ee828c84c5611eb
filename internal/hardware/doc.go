// Package hardware defines the collaborator interfaces the controller
// talks to (card reader, range sensor, digital I/O) and an in-memory
// fake used by tests and the simulator.
//
// The real Raspberry Pi backend lives in the rpi subpackage behind a
// build tag so the rest of the system builds and tests anywhere.
package hardware
