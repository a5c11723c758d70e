// Package watcher re-runs a conversion when its inputs change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// ChangeHandler is called with each debounced batch of events. Calls never
// overlap.
type ChangeHandler func(ctx context.Context, events []Event)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Config contains watcher configuration
type Config struct {
	// Files are the paths whose changes trigger the handler.
	Files    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a fixed set of files. fsnotify watches their parent
// directories so that replace-by-rename writes are seen.
type Watcher struct {
	config  Config
	logger  *slog.Logger
	handler ChangeHandler
	fsw     *fsnotify.Watcher
	files   map[string]struct{}

	// runMu serializes handler calls; stopped is set under it once Run
	// has returned.
	runMu   sync.Mutex
	stopped bool
}

// New creates a watcher for the configured files
func New(config Config, handler ChangeHandler) (*Watcher, error) {
	if len(config.Files) == 0 {
		return nil, fmt.Errorf("watcher: no files to watch")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
		fsw:     fsw,
		files:   make(map[string]struct{}, len(config.Files)),
	}

	dirs := make(map[string]struct{})
	for _, f := range config.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watcher: %w", err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watcher: cannot watch %s: %w", dir, err)
		}
		logger.Debug("Watching directory", "path", dir)
	}

	return w, nil
}

// Run processes events until ctx is cancelled. It closes the underlying
// fsnotify watcher and waits for an in-flight handler call before
// returning; no handler call starts after that.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer func() {
		w.runMu.Lock()
		w.stopped = true
		w.runMu.Unlock()
	}()

	batch := NewBatchDebouncer(w.config.Debounce, func(events []Event) {
		w.runMu.Lock()
		defer w.runMu.Unlock()
		if w.stopped || ctx.Err() != nil {
			return
		}
		w.handler(ctx, events)
	})
	defer batch.Cancel()

	w.logger.Info("File watcher started",
		"files", len(w.files),
		"debounce", w.config.Debounce)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event, tracked := w.translate(ev); tracked {
				w.logger.Debug("Change detected", "path", event.Path, "op", event.Type.String())
				batch.Add(event)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return Event{}, false
	}
	if _, ok := w.files[abs]; !ok {
		return Event{}, false
	}

	var typ EventType
	switch {
	case ev.Has(fsnotify.Create):
		typ = EventCreate
	case ev.Has(fsnotify.Write):
		typ = EventModify
	case ev.Has(fsnotify.Remove):
		typ = EventDelete
	case ev.Has(fsnotify.Rename):
		typ = EventRename
	default:
		return Event{}, false
	}
	return Event{Type: typ, Path: abs, Timestamp: time.Now()}, true
}
