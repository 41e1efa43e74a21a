// Package lock provides advisory cross-process locking for project files.
//
// When two instances of an editor open the same project file, concurrent
// edits silently corrupt it. The lock package prevents this by guarding each
// project file with a sidecar lock file (<file>.lock) created atomically via
// O_CREATE|O_EXCL. The sidecar records the holder's PID, hostname, and
// application name so other processes can show "locked by app X on host Y"
// instead of a bare failure, and so locks left behind by crashed processes
// can be detected and reclaimed.
//
// # Architecture
//
// The [Manager] maintains an in-memory registry of locks held by this
// process, keyed by the canonical (symlink-resolved, absolute) path of the
// locked file. Canonicalization happens on every operation, so two raw paths
// naming the same file are always treated as the same resource. Acquire,
// release, and stale-reclaim outcomes are published to the event bus for
// CLI/TUI observability.
//
// # Staleness
//
// A sidecar whose recorded holder is on this host is stale when the PID no
// longer corresponds to a running process, as reported by the injected
// [Liveness] checker. A sidecar from another host cannot be probed, so an
// age-based TTL is the fallback there; with a zero TTL (the default) foreign
// locks are never broken. A sidecar that cannot be parsed is treated as
// stale: a corrupt file is itself evidence of an abnormal termination.
//
// # Basic Usage
//
//	mgr := lock.NewManager(lock.WithAppName("myeditor"))
//
//	if !mgr.TryAcquire("/projects/site.qet") {
//		if h, ok := mgr.Inspect("/projects/site.qet"); ok {
//			fmt.Printf("locked by %s (pid %d) on %s\n", h.AppName, h.PID, h.Hostname)
//		}
//		return
//	}
//	defer mgr.Release("/projects/site.qet")
//
// # Thread Safety
//
// All [Manager] methods are safe for concurrent use via an internal
// sync.RWMutex; platform open-file callbacks may call into the manager from
// arbitrary goroutines.
package lock
