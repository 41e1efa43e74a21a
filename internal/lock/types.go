package lock

import (
	"errors"
	"time"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/logging"
)

// Sentinel errors returned by internal lock operations. The Manager's public
// API reports outcomes as booleans; these surface through logs and events.
var (
	// ErrHeld is returned when a live process already holds the lock.
	ErrHeld = errors.New("file is locked by another process")

	// ErrNotResolvable is returned when a path cannot be canonicalized.
	ErrNotResolvable = errors.New("path cannot be resolved to a canonical form")

	// ErrCorrupt is returned when a sidecar file exists but its metadata
	// cannot be decoded.
	ErrCorrupt = errors.New("lock file metadata is corrupt")
)

// DefaultSuffix is appended to a canonical path to form its sidecar path.
const DefaultSuffix = ".lock"

// Holder identifies the process that created a sidecar lock file.
type Holder struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AppName    string    `json:"app_name"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Age returns how long ago the holder acquired the lock.
func (h Holder) Age() time.Duration {
	return time.Since(h.AcquiredAt)
}

// Liveness reports whether a process with the given PID is running on this
// host. Implementations must not block; the zero result with a non-nil error
// means "unknown", in which case the age-based fallback governs staleness.
type Liveness interface {
	Alive(pid int) (bool, error)
}

// LivenessFunc adapts a function to the Liveness interface.
type LivenessFunc func(pid int) (bool, error)

// Alive implements Liveness.
func (f LivenessFunc) Alive(pid int) (bool, error) { return f(pid) }

// Option configures a Manager.
type Option func(*Manager)

// WithAppName sets the application name recorded in sidecar metadata.
// Defaults to the base name of the running executable.
func WithAppName(name string) Option {
	return func(m *Manager) {
		m.appName = name
	}
}

// WithLiveness injects a liveness checker, replacing the platform default.
func WithLiveness(l Liveness) Option {
	return func(m *Manager) {
		m.policy.Liveness = l
	}
}

// WithStaleTTL sets the age after which a lock from another host is treated
// as stale. Zero (the default) disables age-based reclaim.
func WithStaleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.policy.TTL = ttl
	}
}

// WithSuffix overrides the sidecar filename suffix.
func WithSuffix(suffix string) Option {
	return func(m *Manager) {
		m.suffix = suffix
	}
}

// WithBus attaches an event bus; acquire/release/reclaim/denial outcomes are
// published to it.
func WithBus(bus *event.Bus) Option {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithHostname overrides the hostname recorded in sidecar metadata and used
// for same-host staleness decisions. Intended for tests.
func WithHostname(hostname string) Option {
	return func(m *Manager) {
		m.policy.Hostname = hostname
		m.hostname = hostname
	}
}
