package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay coalesces the bursts of events editors emit on save.
var watchDelay = 100 * time.Millisecond

// Watch calls fn each time the file at path is written or replaced, until
// ctx is done. Errors returned by fn are logged and do not stop the watch.
func Watch(ctx context.Context, path string, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gen: creating watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file instead of writing it, so the
	// directory is watched and events are filtered by name.
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("gen: watching %s: %w", path, err)
	}
	slog.DebugContext(ctx, "watching schema", "path", path)

	timer := time.NewTimer(watchDelay)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(watchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("gen: watching %s: %w", path, err)
		case <-timer.C:
			slog.InfoContext(ctx, "schema changed", "path", path)
			if err := fn(ctx); err != nil {
				slog.ErrorContext(ctx, "regenerating", "path", path, "error", err)
			}
		}
	}
}
