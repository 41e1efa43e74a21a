// Package event provides a pub-sub event bus for decoupled inter-component
// communication in sidelock.
//
// This package enables loose coupling between the lock manager, the sidecar
// watcher, and the CLI/TUI by allowing them to communicate through events
// rather than direct method calls. Components can publish events without
// knowing who will receive them, and subscribe to events without knowing who
// will produce them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Lock lifecycle:
//   - [LockAcquiredEvent]: Emitted when this process takes a lock
//   - [LockReleasedEvent]: Emitted when this process drops a lock
//   - [LockReclaimedEvent]: Emitted when a stale sidecar is broken during acquire
//   - [LockDeniedEvent]: Emitted when a live holder blocks an acquire
//
// Watching:
//   - [WatchChangedEvent]: Emitted when a sidecar appears, changes, or disappears
//     under a watched directory tree
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Multiple goroutines can publish
// and subscribe concurrently. Handlers are called synchronously and protected
// against panics - a panicking handler will not prevent other handlers from
// being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("lock.denied", func(e event.Event) {
//	    denied := e.(event.LockDeniedEvent)
//	    log.Printf("%s is held by %s on %s", denied.Path, denied.AppName, denied.Hostname)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewLockAcquiredEvent("/projects/site.qet"))
//
//	// Unsubscribe when done
//	id := bus.Subscribe("lock.released", handler)
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - lock.acquired, lock.released, lock.reclaimed, lock.denied
//   - watch.changed
package event
