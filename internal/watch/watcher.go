// Package watch rebuilds the site when documentation sources change. It
// drives the sync and generator services from filesystem events so a preview
// server can stay current without manual rebuilds.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const (
	defaultPattern  = "**/*.md"
	defaultDebounce = 250 * time.Millisecond
)

var (
	ErrContentDirRequired = errors.New("watch: content directory is required")
	ErrRebuildRequired    = errors.New("watch: rebuild callback is required")
)

// RebuildFunc receives the set of changed paths after the debounce window
// closes. Paths are relative to the content directory and sorted.
type RebuildFunc func(ctx context.Context, changed []string) error

// Config controls what the watcher observes.
type Config struct {
	ContentDir string
	// Pattern is a doublestar glob matched against paths relative to
	// ContentDir. Defaults to every Markdown file.
	Pattern  string
	Debounce time.Duration
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithLogger attaches a logger to the watch loop.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher observes a content tree and invokes the rebuild callback after
// changes settle.
type Watcher struct {
	cfg     Config
	rebuild RebuildFunc
	logger  interfaces.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// New validates the configuration and constructs a watcher.
func New(cfg Config, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return nil, ErrContentDirRequired
	}
	if rebuild == nil {
		return nil, ErrRebuildRequired
	}
	if cfg.Pattern == "" {
		cfg.Pattern = defaultPattern
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	w := &Watcher{
		cfg:     cfg,
		rebuild: rebuild,
		pending: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until the context is cancelled, dispatching debounced rebuilds
// as documentation files change.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.cfg.ContentDir); err != nil {
		return err
	}

	// The timer stays parked until the first matching event arrives.
	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logDebug("watching for changes", "dir", w.cfg.ContentDir, "pattern", w.cfg.Pattern)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(watcher, event) {
				timer.Reset(w.cfg.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logError("watch error", "error", err)

		case <-timer.C:
			changed := w.drainPending()
			if len(changed) == 0 {
				continue
			}
			w.logDebug("rebuilding", "changed", len(changed))
			if err := w.rebuild(ctx, changed); err != nil {
				w.logError("rebuild failed", "error", err)
			}
		}
	}
}

// handleEvent records matching file changes and tracks newly created
// directories. It reports whether the debounce window should restart.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logError("watch new directory", "dir", event.Name, "error", err)
			}
			return false
		}
	}

	rel, err := filepath.Rel(w.cfg.ContentDir, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if matched, err := doublestar.Match(w.cfg.Pattern, rel); err != nil || !matched {
		return false
	}

	w.mu.Lock()
	w.pending[rel] = struct{}{}
	w.mu.Unlock()
	return true
}

func (w *Watcher) drainPending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = map[string]struct{}{}
	sort.Strings(changed)
	return changed
}

// addRecursive registers root and every directory beneath it. fsnotify only
// watches single directories.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *Watcher) logDebug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

func (w *Watcher) logError(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Error(msg, args...)
	}
}
