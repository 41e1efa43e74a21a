// Package event defines event types for decoupling components in sidelock.
// These events enable communication between the lock manager, the watcher,
// and the CLI/TUI without requiring direct dependencies.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "lock.acquired", "watch.changed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Lock Lifecycle Events
// -----------------------------------------------------------------------------

// LockAcquiredEvent is emitted when this process takes a lock.
type LockAcquiredEvent struct {
	baseEvent
	Path string // Canonical path of the locked file
}

// NewLockAcquiredEvent creates a LockAcquiredEvent.
func NewLockAcquiredEvent(path string) LockAcquiredEvent {
	return LockAcquiredEvent{
		baseEvent: newBaseEvent("lock.acquired"),
		Path:      path,
	}
}

// LockReleasedEvent is emitted when this process drops a lock.
type LockReleasedEvent struct {
	baseEvent
	Path string // Canonical path of the unlocked file
}

// NewLockReleasedEvent creates a LockReleasedEvent.
func NewLockReleasedEvent(path string) LockReleasedEvent {
	return LockReleasedEvent{
		baseEvent: newBaseEvent("lock.released"),
		Path:      path,
	}
}

// LockReclaimedEvent is emitted when a stale sidecar left by a dead process
// is broken during acquire.
type LockReclaimedEvent struct {
	baseEvent
	Path     string // Canonical path of the locked file
	PID      int    // PID recorded in the stale sidecar
	Hostname string // Hostname recorded in the stale sidecar
	AppName  string // Application name recorded in the stale sidecar
}

// NewLockReclaimedEvent creates a LockReclaimedEvent.
func NewLockReclaimedEvent(path string, pid int, hostname, appName string) LockReclaimedEvent {
	return LockReclaimedEvent{
		baseEvent: newBaseEvent("lock.reclaimed"),
		Path:      path,
		PID:       pid,
		Hostname:  hostname,
		AppName:   appName,
	}
}

// LockDeniedEvent is emitted when an acquire fails because a live process
// holds the lock. Carries the holder identity for UI display.
type LockDeniedEvent struct {
	baseEvent
	Path     string // Canonical path of the contested file
	PID      int    // PID of the live holder
	Hostname string // Hostname of the live holder
	AppName  string // Application name of the live holder
}

// NewLockDeniedEvent creates a LockDeniedEvent.
func NewLockDeniedEvent(path string, pid int, hostname, appName string) LockDeniedEvent {
	return LockDeniedEvent{
		baseEvent: newBaseEvent("lock.denied"),
		Path:      path,
		PID:       pid,
		Hostname:  hostname,
		AppName:   appName,
	}
}

// -----------------------------------------------------------------------------
// Watch Events
// -----------------------------------------------------------------------------

// WatchChangedEvent is emitted when a sidecar file appears, changes, or
// disappears under a watched directory tree.
type WatchChangedEvent struct {
	baseEvent
	Path    string // Path of the sidecar file that changed
	Op      string // "create", "write", or "remove"
	Removed bool   // True when the sidecar no longer exists
}

// NewWatchChangedEvent creates a WatchChangedEvent.
func NewWatchChangedEvent(path, op string, removed bool) WatchChangedEvent {
	return WatchChangedEvent{
		baseEvent: newBaseEvent("watch.changed"),
		Path:      path,
		Op:        op,
		Removed:   removed,
	}
}
