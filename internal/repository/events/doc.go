// Package events persists the controller's audit trail to SQLite as an
// append-only log. The checker reads the newest heartbeat back to judge
// whether a controller is alive; nothing else is ever read on the hot
// path, so the store stays write-mostly.
package events
