package fixture

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/balestra/internal/storage"
)

const debounce = 200 * time.Millisecond

// ReloadCallback is called after the seed file has been re-imported.
type ReloadCallback func(path string)

// Watch re-imports the snapshot at path whenever it changes on disk, until
// ctx is cancelled. checksum is the digest of the content already loaded;
// writes that leave the content unchanged are ignored. Bursts of events are
// debounced so an editor's save sequence triggers a single reload.
//
// The file's directory is watched rather than the file itself so that
// editors replacing the file by rename are picked up.
func Watch(ctx context.Context, files storage.Provider, path, checksum string, dst Importer, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Join(files.Root(), filepath.Clean(path))
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("fixture watcher: started", slog.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("fixture watcher: stopped")
			return nil

		case <-fire:
			data, err := files.Read(path)
			if err != nil {
				logger.Warn("fixture watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			sum := storage.Checksum(data)
			if sum == checksum {
				logger.Debug("fixture watcher: content unchanged", slog.String("path", path))
				continue
			}
			snap, err := Decode(data)
			if err != nil {
				logger.Warn("fixture watcher: decode failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			if err := dst.Import(ctx, snap); err != nil {
				logger.Warn("fixture watcher: import failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			checksum = sum
			logger.Info("fixture watcher: reloaded", slog.String("path", path),
				slog.Int("equipment", len(snap.Equipment)), slog.Int("bouts", len(snap.Bouts)))
			if cb != nil {
				cb(path)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("fixture watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
