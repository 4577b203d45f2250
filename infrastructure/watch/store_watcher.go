package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"thoughtgraph/pkg/utils"
)

// StoreWatcher reports changes to the entry database made by other
// processes, such as `thoughts add` in another terminal
type StoreWatcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
}

// NewStoreWatcher watches the database at path. Bursts of writes within
// debounce collapse into one notification.
func NewStoreWatcher(path string, debounce time.Duration, logger *zap.Logger) *StoreWatcher {
	return &StoreWatcher{
		path:     path,
		debounce: debounce,
		logger:   logger,
	}
}

// Run blocks until ctx is done, calling onChange after every settled burst
// of writes. onChange runs on a timer goroutine.
func (w *StoreWatcher) Run(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// SQLite in WAL mode writes to sibling -wal and -shm files, and atomic
	// replacements show up as renames, so the directory is watched
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	debouncer := utils.NewDebouncer(w.debounce)
	defer debouncer.Cancel()

	w.logger.Info("store watcher started", zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("store watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			debouncer.Trigger(onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("store watcher error", zap.Error(err))
		}
	}
}

func (w *StoreWatcher) relevant(event fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(event.Name), filepath.Base(w.path)) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
