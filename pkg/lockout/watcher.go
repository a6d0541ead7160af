package lockout

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// Watch reloads the controller whenever another process rewrites the
// persisted state file, so a CLI-triggered lockout becomes visible to a
// running agent without a restart. It watches the parent directory because
// the store replaces the file by rename. Blocks until ctx is cancelled.
func Watch(ctx context.Context, ctrl *Controller, store *FileStore) humane.Error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return humane.Wrap(err, "failed to create state watcher", "inotify may be unavailable on this system")
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(store.Path())
	if err := watcher.Add(dir); err != nil {
		return humane.Wrap(err, "failed to watch lockout state directory", "check the state directory exists and is readable")
	}

	name := filepath.Base(store.Path())
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				ctrl.Reload()
				otelzap.L().Debug("lockout state reloaded from disk", zap.String("event", event.Op.String()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			otelzap.L().WithError(humane.Wrap(err, "state watcher error")).Warn("lockout state watcher")
		}
	}
}
