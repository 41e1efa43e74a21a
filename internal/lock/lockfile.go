package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SidecarPath returns the sidecar lock-file path for a canonical file path.
func SidecarPath(canonical, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return canonical + suffix
}

// Canonicalize resolves a caller-supplied path to its canonical form: the
// symlink-free absolute path used as the registry key and sidecar base.
// Returns ErrNotResolvable if the path does not exist or cannot be resolved.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotResolvable, path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotResolvable, path, err)
	}
	return canonical, nil
}

// ReadHolder decodes the holder metadata stored in a sidecar file.
// Returns os.ErrNotExist if no sidecar exists and ErrCorrupt if one exists
// but cannot be decoded.
func ReadHolder(sidecarPath string) (Holder, error) {
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		return Holder{}, err
	}

	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return Holder{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, sidecarPath, err)
	}
	if h.PID <= 0 || h.Hostname == "" {
		return Holder{}, fmt.Errorf("%w: %s: missing pid or hostname", ErrCorrupt, sidecarPath)
	}
	return h, nil
}

// writeHolder encodes holder metadata into an already-open sidecar file.
func writeHolder(f *os.File, h Holder) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock metadata: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}
	return f.Sync()
}

// StalePolicy decides whether a decoded holder identifies a lock that is
// safe to reclaim.
//
// Same-host locks are judged by probing the recorded PID through Liveness.
// Foreign-host locks (and same-host locks when the probe errors) fall back
// to the age TTL; a zero TTL means such locks are never considered stale.
type StalePolicy struct {
	Hostname string
	Liveness Liveness
	TTL      time.Duration
}

// Stale reports whether the lock described by h may be broken.
func (p StalePolicy) Stale(h Holder) bool {
	if h.Hostname == p.Hostname && p.Liveness != nil {
		alive, err := p.Liveness.Alive(h.PID)
		if err == nil {
			return !alive
		}
		// Probe failed; fall through to the age check.
	}
	return p.TTL > 0 && time.Since(h.AcquiredAt) > p.TTL
}
