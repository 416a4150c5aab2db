package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SettleFunc is called once per burst of writes, after the file has been
// quiet for the debounce window.
type SettleFunc func(ctx context.Context, path string)

// FileWatcher watches a single file for changes and reports settled writes.
// The engine rewrites the live save several times in quick succession when
// the player passes a checkpoint, so raw events are debounced: only when the
// file has been quiet for the debounce window does the callback fire.
type FileWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	log         *zap.Logger
	path        string // The watched file
	dir         string // Its parent directory, the actual fsnotify target
	onSettle    SettleFunc
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity for status reporting and debugging.
type Stats struct {
	WritesSeen    int
	Settled       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// New creates a FileWatcher for the given file. Events are delivered for the
// parent directory and filtered down to the file itself; watching the
// directory rather than the file survives the delete-and-recreate dance some
// engines perform on save.
func New(path string, debounce time.Duration, onSettle SettleFunc, log *zap.Logger) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path = filepath.Clean(path)

	return &FileWatcher{
		watcher:     fsw,
		log:         log,
		path:        path,
		dir:         filepath.Dir(path),
		onSettle:    onSettle,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. This method is non-blocking; it starts the event
// loop in a goroutine.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching live save", zap.String("path", w.path))

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
	w.log.Info("watcher stopped")
}

// run is the main event loop for the watcher.
func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Ticker that flushes events which have settled past the debounce window
	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("watcher context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebouncedEvents(ctx)
		}
	}
}

// handleEvent records a single filesystem event for debounced processing.
func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	// Only the watched file matters; the directory sees everything
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "write"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return // Ignore chmod and remove
	}

	w.log.Debug("live save event", zap.String("type", eventType))

	w.mu.Lock()
	w.stats.WritesSeen++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = eventType
	w.debounceMap[w.path] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents fires the callback for writes that have settled.
func (w *FileWatcher) processDebouncedEvents(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)

	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	if len(toProcess) > 0 {
		w.stats.Settled += len(toProcess)
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		w.onSettle(ctx, path)
	}
}

// GetStats returns the current watcher statistics.
func (w *FileWatcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching returns true if the watcher is currently running.
func (w *FileWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
