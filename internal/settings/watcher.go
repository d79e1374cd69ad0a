package settings

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch watches the config file and calls apply after it changes, until ctx
// is cancelled. Reloads are debounced because editors emit several write
// events per save, and the parent directory is watched rather than the file
// itself because many editors replace the file on save.
func Watch(ctx context.Context, configPath string, logger *slog.Logger, apply func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(configPath)
	base := filepath.Base(configPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("settings watcher: started", slog.String("config", configPath))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("settings watcher: stopped")
			return nil

		case <-reloadCh:
			if err := apply(); err != nil {
				logger.Warn("settings watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("settings watcher: settings reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("settings watcher: error", slog.String("error", err.Error()))
		}
	}
}
