// Package testutil provides testing utilities for sidelock tests.
package testutil

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/sidelock/sidelock/internal/lock"
)

// NewProjectFile creates a file under dir and returns its path. The file
// stands in for a project document that callers will lock.
func NewProjectFile(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("project contents\n"), 0o644); err != nil {
		t.Fatalf("failed to create project file %s: %v", name, err)
	}
	return path
}

// LiveHolder returns holder metadata describing the current process, which
// the platform liveness check will always report as alive.
func LiveHolder(t *testing.T) lock.Holder {
	t.Helper()

	hostname, err := os.Hostname()
	if err != nil {
		t.Fatalf("failed to read hostname: %v", err)
	}
	return lock.Holder{
		PID:        os.Getpid(),
		Hostname:   hostname,
		AppName:    "qelectrotech",
		AcquiredAt: time.Now(),
	}
}

// DeadHolder returns holder metadata for a process that no longer exists:
// a child is spawned and fully reaped so its PID is free.
func DeadHolder(t *testing.T) lock.Holder {
	t.Helper()

	pid := ReapedPID(t)
	hostname, err := os.Hostname()
	if err != nil {
		t.Fatalf("failed to read hostname: %v", err)
	}
	return lock.Holder{
		PID:        pid,
		Hostname:   hostname,
		AppName:    "qelectrotech",
		AcquiredAt: time.Now().Add(-time.Hour),
	}
}

// WriteSidecar writes holder metadata as target's sidecar lock file,
// simulating a lock taken by another process.
func WriteSidecar(t *testing.T, target string, h lock.Holder) string {
	t.Helper()

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("failed to marshal holder: %v", err)
	}
	sidecar := target + lock.DefaultSuffix
	if err := os.WriteFile(sidecar, data, 0o644); err != nil {
		t.Fatalf("failed to write sidecar %s: %v", sidecar, err)
	}
	return sidecar
}

// WriteCorruptSidecar writes an undecodable sidecar for target.
func WriteCorruptSidecar(t *testing.T, target string) string {
	t.Helper()

	sidecar := target + lock.DefaultSuffix
	if err := os.WriteFile(sidecar, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write sidecar %s: %v", sidecar, err)
	}
	return sidecar
}

// ReapedPID spawns a short-lived child process, waits for it to exit, and
// returns its PID. The PID is guaranteed to have belonged to a process that
// no longer exists.
func ReapedPID(t *testing.T) int {
	t.Helper()

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no 'true' binary in PATH, cannot fabricate a dead PID")
	}
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to run child process: %v", err)
	}
	return cmd.Process.Pid
}

// WaitFor polls cond until it returns true or the deadline passes.
func WaitFor(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
