// Package watch observes directory trees for sidecar lock-file activity and
// republishes it on the event bus, so UIs can show locks appearing and
// disappearing without polling.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/lock"
	"github.com/sidelock/sidelock/internal/logging"
)

// Watcher publishes a WatchChangedEvent whenever a sidecar file is created,
// written, or removed under a watched tree.
type Watcher struct {
	fsw    *fsnotify.Watcher
	bus    *event.Bus
	suffix string
	log    *logging.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSuffix overrides the sidecar filename suffix.
func WithSuffix(suffix string) Option {
	return func(w *Watcher) {
		w.suffix = suffix
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = logger
	}
}

// New creates a Watcher publishing to bus. Call Add to watch trees and
// Close to stop.
func New(bus *event.Bus, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		bus:    bus,
		suffix: lock.DefaultSuffix,
		log:    logging.NopLogger(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add watches root and all directories below it. Directories created later
// under a watched tree are picked up automatically.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping unwatchable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if werr := w.fsw.Add(path); werr != nil {
			return fmt.Errorf("watch %s: %w", path, werr)
		}
		return nil
	})
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// New subdirectories join the watch so sidecars created inside them are
	// still seen. Errors here usually mean the directory vanished again.
	if ev.Op.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.fsw.Add(ev.Name)
		}
	}

	if !strings.HasSuffix(ev.Name, w.suffix) {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Create):
		w.bus.Publish(event.NewWatchChangedEvent(ev.Name, "create", false))
	case ev.Op.Has(fsnotify.Write):
		w.bus.Publish(event.NewWatchChangedEvent(ev.Name, "write", false))
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		w.bus.Publish(event.NewWatchChangedEvent(ev.Name, "remove", true))
	}
}
