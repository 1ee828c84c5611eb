// Package access contains core domain types for the room controller.
//
// It defines UID (a proximity-card identifier), Event (an entry in the
// audit trail) and Snapshot (the controller state at a point in time).
package access
