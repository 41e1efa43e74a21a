//go:build unix

package lock

import (
	"errors"
	"syscall"
)

// processLiveness probes PIDs with a null signal. Signal 0 performs the
// permission and existence checks without delivering anything.
type processLiveness struct{}

// NewPlatformLiveness returns the default checker for this platform.
func NewPlatformLiveness() Liveness {
	return processLiveness{}
}

// Alive reports whether a process with the given PID exists on this host.
// EPERM means the process exists but belongs to another user, which still
// counts as alive for staleness purposes.
func (processLiveness) Alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, nil
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, syscall.EPERM) {
		return true, nil
	}
	if errors.Is(err, syscall.ESRCH) {
		return false, nil
	}
	return false, err
}
