// Package watch reports when document files change on disk.
//
// Saves are usually atomic renames, which replace the watched inode, so the
// watcher follows each file's directory and filters by name. Bursts of
// events for one file are collapsed into a single Event once the file has
// been quiet for a while.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultQuiet is how long a file must stay unchanged before it is reported.
const DefaultQuiet = 150 * time.Millisecond

type Event struct {
	Path string
	Time time.Time
}

type Watcher struct {
	fs     *fsnotify.Watcher
	quiet  time.Duration
	events chan Event
	log    *log.Logger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]int
}

func New(quiet time.Duration, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{
		fs:     fw,
		quiet:  quiet,
		events: make(chan Event, 16),
		log:    logger,
		files:  make(map[string]bool),
		dirs:   make(map[string]int),
	}, nil
}

// Add starts reporting changes to path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.log.Debug("watching", "path", abs)
	return nil
}

// Remove stops reporting changes to path.
func (w *Watcher) Remove(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fs.Remove(dir)
	}
}

func (w *Watcher) watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

// Events delivers debounced changes. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event { return w.events }

// Run processes file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)
	tick := time.NewTicker(w.quiet / 2)
	defer tick.Stop()
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if w.watching(path) {
				pending[path] = time.Now()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "err", err)

		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < w.quiet {
					continue
				}
				delete(pending, path)
				select {
				case w.events <- Event{Path: path, Time: now}:
					w.log.Debug("file changed", "path", path)
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *Watcher) Close() error { return w.fs.Close() }
