package fontcache

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches bursts of filesystem events (font pack unzips,
// folder copies) into a single refresh request.
const debounceWindow = 250 * time.Millisecond

// Watch starts an fsnotify watcher on the fonts root and requests a cache
// refresh whenever font files or directories change, until ctx is
// cancelled. New directories created at runtime are added to the watch
// list. A missing root is not an error; the watcher idles until the root
// appears via a refresh-driven extraction.
func Watch(ctx context.Context, cache *Cache, root string, extensions []string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		logger.Warn("watcher: fonts root not watchable",
			slog.String("root", root),
			slog.String("error", err.Error()))
	} else {
		logger.Info("watcher: started", slog.String("root", root))
	}

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	scheduleRefresh := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceWindow)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: requesting refresh")
			cache.RequestRefresh()

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
					scheduleRefresh()
					continue
				}
			}

			if !hasFontExtension(ev.Name, extensions) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				scheduleRefresh()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds dir and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func hasFontExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
