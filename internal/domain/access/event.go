package access

import "time"

// EventKind classifies an entry in the audit trail.
type EventKind string

// Audit event kinds emitted by the controller.
const (
	// EventMotionAlert is raised when motion within the threshold starts an alert.
	EventMotionAlert EventKind = "motion_alert"
	// EventAlertAcknowledged is raised when an active alert is cleared.
	EventAlertAcknowledged EventKind = "alert_acknowledged"
	// EventCardAccepted is raised when an allow-listed card is scanned.
	EventCardAccepted EventKind = "card_accepted"
	// EventCardRejected is raised when an unknown card is scanned.
	EventCardRejected EventKind = "card_rejected"
	// EventVIPEntered is raised when VIP mode activates.
	EventVIPEntered EventKind = "vip_entered"
	// EventVIPExpired is raised when the VIP window elapses.
	EventVIPExpired EventKind = "vip_expired"
	// EventMotionDuringVIP is raised when motion is seen but VIP mode suppresses the alert.
	EventMotionDuringVIP EventKind = "motion_during_vip"
	// EventSensorSilent is raised once per streak of consecutive echo timeouts.
	EventSensorSilent EventKind = "sensor_silent"
	// EventHeartbeat is written periodically so the checker can detect a stalled controller.
	EventHeartbeat EventKind = "heartbeat"
)

// Event is a single entry in the append-only audit trail. Events are
// informational only and never feed back into control flow.
type Event struct {
	// At is when the event occurred, in controller loop time.
	At time.Time
	// Kind classifies the event.
	Kind EventKind
	// UID is the card involved, if any.
	UID *UID
	// Detail carries free-form context (trigger source, distance, streak length).
	Detail string
}

// Clone returns a copy of the event to avoid leaking internal references.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}

	cloned := *e

	if e.UID != nil {
		uid := *e.UID
		cloned.UID = &uid
	}

	return &cloned
}

// Snapshot captures the externally visible controller state at a point in
// time. It is what the telemetry publisher reports on the status topic.
type Snapshot struct {
	// At is when the snapshot was taken.
	At time.Time `json:"at"`
	// Alerting reports whether an unacknowledged alert is active.
	Alerting bool `json:"alerting"`
	// VIPMode reports whether the alert-suppression window is active.
	VIPMode bool `json:"vip_mode"`
	// LED is the current level of the indicator output.
	LED bool `json:"led"`
	// Buzzer is the current level of the audible output.
	Buzzer bool `json:"buzzer"`
}
