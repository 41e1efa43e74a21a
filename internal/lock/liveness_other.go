//go:build !unix

package lock

import "errors"

var errLivenessUnsupported = errors.New("pid liveness probing is not supported on this platform")

// NewPlatformLiveness returns a checker that always reports unknown, so the
// age-based TTL governs staleness on platforms without a null-signal probe.
func NewPlatformLiveness() Liveness {
	return LivenessFunc(func(pid int) (bool, error) {
		return false, errLivenessUnsupported
	})
}
