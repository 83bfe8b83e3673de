// Package watch re-runs an action when watched record files change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

// DefaultDebounce is the quiet period after the last change before the
// action runs.
const DefaultDebounce = 300 * time.Millisecond

// Action is run once per changed file after the debounce window.
type Action func(ctx context.Context, path string) error

// Config configures a Watcher.
type Config struct {
	// Paths are the files to watch. Their directories are watched so that
	// files replaced by rename are still seen.
	Paths    []string
	Debounce time.Duration
	OnChange Action
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if len(c.Paths) == 0 {
		vb.RequiredField("Paths")
	}
	if c.OnChange == nil {
		vb.RequiredField("OnChange")
	}
	if c.Debounce < 0 {
		vb.Field("Debounce", "must not be negative")
	}
	return vb.Build()
}

// Watcher debounces filesystem events for a set of files.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	targets  map[string]bool
	dirs     []string
	debounce time.Duration
	onChange Action
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
}

// New creates a watcher. Call Start to begin watching and Stop to release it.
func New(cfg *Config) (*Watcher, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid watch config")
	}

	targets := make(map[string]bool, len(cfg.Paths))
	dirSet := make(map[string]bool)
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve watch path").WithMeta("path", p)
		}
		targets[abs] = true
		dirSet[filepath.Dir(abs)] = true
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  fw,
		targets:  targets,
		dirs:     dirs,
		debounce: debounce,
		onChange: cfg.OnChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds the watches and processes events in the background until ctx
// is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.FailedPrecondition("watcher is stopped")
	}
	if w.running {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrap(err, "failed to watch directory").WithMeta("path", dir)
		}
	}
	w.running = true

	slog.InfoContext(ctx, "watching records", "files", len(w.targets), "debounce", w.debounce)
	go w.run(ctx)
	return nil
}

// Stop ends event processing and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		slog.Warn("failed to close file watcher", "error", err)
	}
}

// Paths returns the absolute paths of the watched files in sorted order.
func (w *Watcher) Paths() []string {
	paths := make([]string, 0, len(w.targets))
	for p := range w.targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Done is closed when event processing has ended.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if path, hit := w.match(event); hit {
				pending[path] = true
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "file watcher error", "error", err)
		case <-timer.C:
			w.flush(ctx, pending)
		}
	}
}

func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(event.Name)
	return path, w.targets[path]
}

func (w *Watcher) flush(ctx context.Context, pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := w.onChange(ctx, p); err != nil {
			slog.WarnContext(ctx, "change action failed", "path", p, "error", err)
			continue
		}
		slog.InfoContext(ctx, "change processed", "path", p)
	}
}
