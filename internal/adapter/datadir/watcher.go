package datadir

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/navaid-service/internal/nasr"
	"github.com/couchcryptid/navaid-service/internal/registry"
)

// Reloader rebuilds the registry.
type Reloader interface {
	Load(ctx context.Context) (registry.Stats, error)
}

// Watcher reloads the registry when a subscription file in the data
// directory changes. Bursts of events within the debounce window collapse
// into a single reload.
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader
	clock    clockwork.Clock
	logger   *slog.Logger
	files    map[string]bool

	mu    sync.Mutex
	timer clockwork.Timer
}

// NewWatcher creates a Watcher. A nil clock uses real time.
func NewWatcher(dir string, debounce time.Duration, reloader Reloader, clock clockwork.Clock, logger *slog.Logger) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	files := make(map[string]bool)
	for _, l := range nasr.Layouts() {
		files[l.File] = true
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		reloader: reloader,
		clock:    clock,
		logger:   logger,
		files:    files,
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.Wrapf(err, "watch %s", w.dir)
	}
	w.logger.Info("watching data directory", "dir", w.dir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.logger.Debug("data file changed", "file", ev.Name, "op", ev.Op.String())
				w.schedule(ctx)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("data directory watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.files[filepath.Base(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// schedule restarts the debounce window.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = w.clock.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.reloader.Load(ctx); err != nil {
			w.logger.Error("reload after file change failed", "error", err)
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
