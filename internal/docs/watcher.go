package docs

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/storage"
)

// debounceDelay coalesces bursts of filesystem events (editors often fire
// several per save) into one reload.
const debounceDelay = 200 * time.Millisecond

// ReloadFunc receives the freshly loaded collection after a change.
type ReloadFunc func(docs []models.Document)

// Watch starts an fsnotify watcher on the docs root and triggers a full
// reload, debounced, whenever .md files change. New directories created at
// runtime are added to the watch list. Reloads where the collection
// fingerprint is unchanged are skipped. Watch blocks until ctx is
// cancelled.
func Watch(ctx context.Context, store storage.Provider, root string, logger *slog.Logger, onReload ReloadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var lastFingerprint string
	if metas, err := store.List(""); err == nil {
		lastFingerprint = Fingerprint(metas)
	}

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time
	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounceDelay)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			metas, err := store.List("")
			if err != nil {
				logger.Warn("watcher: list failed", slog.String("error", err.Error()))
				continue
			}
			fp := Fingerprint(metas)
			if fp == lastFingerprint {
				logger.Debug("watcher: no content change, reload skipped")
				continue
			}
			lastFingerprint = fp

			loaded, err := Load(store, logger)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("watcher: documentation reloaded", slog.Int("documents", len(loaded)))
			if onReload != nil {
				onReload(loaded)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					scheduleReload()
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
