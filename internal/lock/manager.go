package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/logging"
)

// Manager acquires and releases sidecar locks on behalf of this process.
// It maintains the registry of locks currently held here; cross-process
// coordination happens entirely through the sidecar files.
type Manager struct {
	mu   sync.RWMutex
	held map[string]*heldLock // canonical path -> handle

	suffix   string
	appName  string
	hostname string
	policy   StalePolicy
	bus      *event.Bus
	log      *logging.Logger
}

// heldLock is the single-owner handle for a sidecar this process created.
// The open file is kept for the lifetime of the lock; release closes it and
// removes the sidecar.
type heldLock struct {
	file        *os.File
	sidecarPath string
}

func (h *heldLock) release() {
	_ = h.file.Close()
	_ = os.Remove(h.sidecarPath)
}

// NewManager creates a Manager with the platform liveness checker and
// default sidecar suffix. Options override defaults.
func NewManager(opts ...Option) *Manager {
	hostname, _ := os.Hostname()

	m := &Manager{
		held:     make(map[string]*heldLock),
		suffix:   DefaultSuffix,
		appName:  filepath.Base(os.Args[0]),
		hostname: hostname,
		policy: StalePolicy{
			Hostname: hostname,
			Liveness: NewPlatformLiveness(),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the staleness policy this manager applies, for callers that
// classify sidecars outside the acquire path (directory scans, sweeps).
func (m *Manager) Policy() StalePolicy {
	return m.policy
}

// Suffix returns the sidecar filename suffix in use.
func (m *Manager) Suffix() string {
	return m.suffix
}

// TryAcquire attempts to take the exclusive lock for path. It returns true
// if this process now holds (or already held) the lock, and false if the
// path cannot be resolved, a live process holds the lock, or the sidecar
// cannot be created. Stale sidecars are reclaimed transparently.
func (m *Manager) TryAcquire(path string) bool {
	canonical, err := Canonicalize(path)
	if err != nil {
		m.debugf("acquire: %v", err)
		return false
	}

	m.mu.Lock()
	outcome, err := m.acquireLocked(canonical)
	m.mu.Unlock()

	if err != nil {
		m.debugf("acquire %s: %v", canonical, err)
		if outcome.denied != nil {
			m.publish(event.NewLockDeniedEvent(canonical, outcome.denied.PID, outcome.denied.Hostname, outcome.denied.AppName))
		}
		return false
	}

	if outcome.acquired {
		m.publish(event.NewLockAcquiredEvent(canonical))
	}
	if outcome.reclaimed != nil {
		m.publish(event.NewLockReclaimedEvent(canonical, outcome.reclaimed.PID, outcome.reclaimed.Hostname, outcome.reclaimed.AppName))
	}
	return true
}

// acquireOutcome reports what acquireLocked did, so events can be published
// after the registry lock is dropped.
type acquireOutcome struct {
	acquired  bool    // a new sidecar was created
	reclaimed *Holder // previous holder whose stale sidecar was broken
	denied    *Holder // live holder that blocked the acquire
}

func (m *Manager) acquireLocked(canonical string) (acquireOutcome, error) {
	if _, ok := m.held[canonical]; ok {
		return acquireOutcome{}, nil // idempotent
	}

	sidecar := SidecarPath(canonical, m.suffix)
	var reclaimed *Holder

	f, err := createExclusive(sidecar)
	if os.IsExist(err) {
		prev, stale, derr := m.classify(sidecar)
		if derr == nil && !stale {
			return acquireOutcome{denied: &prev}, fmt.Errorf("%w: held by %s (pid %d) on %s", ErrHeld, prev.AppName, prev.PID, prev.Hostname)
		}
		// Stale or corrupt: break the lock and retry the exclusive create
		// once. Losing the retry means another process reclaimed first.
		if rerr := os.Remove(sidecar); rerr != nil && !os.IsNotExist(rerr) {
			return acquireOutcome{}, fmt.Errorf("remove stale lock file: %w", rerr)
		}
		if derr == nil {
			reclaimed = &prev
		}
		f, err = createExclusive(sidecar)
	}
	if err != nil {
		return acquireOutcome{}, fmt.Errorf("create lock file: %w", err)
	}

	holder := Holder{
		PID:        os.Getpid(),
		Hostname:   m.hostname,
		AppName:    m.appName,
		AcquiredAt: time.Now(),
	}
	if err := writeHolder(f, holder); err != nil {
		_ = f.Close()
		_ = os.Remove(sidecar)
		return acquireOutcome{}, err
	}

	m.held[canonical] = &heldLock{file: f, sidecarPath: sidecar}
	return acquireOutcome{acquired: true, reclaimed: reclaimed}, nil
}

// classify decodes a sidecar and applies the staleness policy. A decode
// error means the sidecar is corrupt (or vanished mid-read); corrupt
// sidecars are treated as stale.
func (m *Manager) classify(sidecar string) (Holder, bool, error) {
	h, err := ReadHolder(sidecar)
	if err != nil {
		return Holder{}, true, err
	}
	return h, m.policy.Stale(h), nil
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}

// Release drops the lock for path if this process holds it. Releasing an
// unheld or unresolvable path is a silent no-op so cleanup call sites can
// run unconditionally.
func (m *Manager) Release(path string) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return
	}

	m.mu.Lock()
	h, ok := m.held[canonical]
	if ok {
		delete(m.held, canonical)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	h.release()
	m.publish(event.NewLockReleasedEvent(canonical))
}

// ReleaseAll drops every lock this process holds. Intended for application
// shutdown paths.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	released := make(map[string]*heldLock, len(m.held))
	for canonical, h := range m.held {
		released[canonical] = h
		delete(m.held, canonical)
	}
	m.mu.Unlock()

	paths := make([]string, 0, len(released))
	for canonical := range released {
		paths = append(paths, canonical)
	}
	sort.Strings(paths)

	for _, canonical := range paths {
		released[canonical].release()
		m.publish(event.NewLockReleasedEvent(canonical))
	}
}

// HeldByUs reports whether this process holds the lock for path. It is a
// zero-I/O check against the in-memory registry; it says nothing about
// locks held by other processes.
func (m *Manager) HeldByUs(path string) bool {
	canonical, err := Canonicalize(path)
	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.held[canonical]
	return ok
}

// Held returns the canonical paths of all locks this process holds, sorted
// for deterministic output.
func (m *Manager) Held() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.held))
	for canonical := range m.held {
		paths = append(paths, canonical)
	}
	sort.Strings(paths)
	return paths
}

// Inspect reads the holder identity recorded in path's sidecar, whoever the
// holder is. It is a read-only probe: it never creates, modifies, or deletes
// the sidecar and never registers ownership. Returns false if the path does
// not resolve, no sidecar exists, or the metadata cannot be decoded.
func (m *Manager) Inspect(path string) (Holder, bool) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return Holder{}, false
	}

	h, err := ReadHolder(SidecarPath(canonical, m.suffix))
	if err != nil {
		return Holder{}, false
	}
	return h, true
}

func (m *Manager) publish(e event.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

func (m *Manager) debugf(format string, args ...any) {
	if m.log != nil {
		m.log.Debug(fmt.Sprintf(format, args...))
	}
}
