// Package scan discovers sidecar lock files under a directory tree and
// classifies them as live or stale, for listing, diagnostics, and janitorial
// sweeps after crashes.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/sidelock/sidelock/internal/lock"
	"github.com/sidelock/sidelock/internal/logging"
)

// Found describes one sidecar discovered by a scan.
type Found struct {
	SidecarPath string      // Path of the sidecar file
	TargetPath  string      // Path of the file the sidecar guards
	Holder      lock.Holder // Decoded holder identity (zero if corrupt)
	Corrupt     bool        // Metadata could not be decoded
	Stale       bool        // Safe to reclaim under the staleness policy
}

// Scanner walks directory trees looking for sidecar files.
type Scanner struct {
	suffix         string
	policy         lock.StalePolicy
	pattern        glob.Glob
	followSymlinks bool
	log            *logging.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSuffix overrides the sidecar filename suffix.
func WithSuffix(suffix string) Option {
	return func(s *Scanner) {
		s.suffix = suffix
	}
}

// WithPattern restricts results to sidecars whose guarded file path matches
// the glob.
func WithPattern(g glob.Glob) Option {
	return func(s *Scanner) {
		s.pattern = g
	}
}

// WithFollowSymlinks makes scans descend into directory symlinks. Cycles
// are detected and walked once.
func WithFollowSymlinks(follow bool) Option {
	return func(s *Scanner) {
		s.followSymlinks = follow
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Scanner) {
		s.log = logger
	}
}

// NewScanner creates a Scanner applying the given staleness policy.
func NewScanner(policy lock.StalePolicy, opts ...Option) *Scanner {
	s := &Scanner{
		suffix: lock.DefaultSuffix,
		policy: policy,
		log:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root and returns every sidecar found, sorted by target path.
// Unreadable subdirectories are skipped with a warning rather than aborting
// the walk.
func (s *Scanner) Scan(root string) ([]Found, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}

	var results []Found
	visited := make(map[string]bool)
	if err := s.walk(root, visited, &results); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].TargetPath < results[j].TargetPath
	})
	return results, nil
}

func (s *Scanner) walk(root string, visited map[string]bool, results *[]Found) error {
	if canonical, err := filepath.EvalSymlinks(root); err == nil {
		if visited[canonical] {
			return nil
		}
		visited[canonical] = true
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if s.followSymlinks && d.Type()&fs.ModeSymlink != 0 {
			if st, serr := os.Stat(path); serr == nil && st.IsDir() {
				return s.walk(path, visited, results)
			}
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), s.suffix) {
			return nil
		}

		target := strings.TrimSuffix(path, s.suffix)
		if s.pattern != nil && !s.pattern.Match(target) {
			return nil
		}

		*results = append(*results, s.classify(path, target))
		return nil
	})
}

func (s *Scanner) classify(sidecar, target string) Found {
	f := Found{SidecarPath: sidecar, TargetPath: target}

	h, err := lock.ReadHolder(sidecar)
	if err != nil {
		// Vanished mid-scan or corrupt; either way there is no live holder
		// to respect.
		f.Corrupt = true
		f.Stale = true
		return f
	}
	f.Holder = h
	f.Stale = s.policy.Stale(h)
	return f
}

// Sweep scans root and removes every stale or corrupt sidecar, returning
// what was removed. Live locks are never touched.
func (s *Scanner) Sweep(root string) ([]Found, error) {
	found, err := s.Scan(root)
	if err != nil {
		return nil, err
	}

	var removed []Found
	for _, f := range found {
		if !f.Stale {
			continue
		}
		if err := os.Remove(f.SidecarPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("remove stale sidecar %s: %w", f.SidecarPath, err)
		}
		s.log.Info("removed stale lock", "sidecar", f.SidecarPath, "pid", f.Holder.PID, "host", f.Holder.Hostname)
		removed = append(removed, f)
	}
	return removed, nil
}
