package notify

import "time"

// Kind classifies a user-facing notification.
type Kind string

const (
	Granted      Kind = "granted"
	Disconnected Kind = "disconnected"
	RoomCreated  Kind = "room-created"
)

// Notification is a transient toast shown by the presentation layer.
type Notification struct {
	Kind     Kind
	Title    string
	Message  string
	Duration time.Duration
}

// Notifier receives notifications emitted by the core services.
type Notifier func(Notification)

// Nop discards notifications. Useful in tests and headless runs.
func Nop(Notification) {}
