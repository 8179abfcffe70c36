package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RebuildFunc is called after a burst of file changes settles.
type RebuildFunc func(ctx context.Context) error

// Watcher rebuilds the site when anything under its roots changes. Changes
// within the debounce window collapse into one rebuild, and rebuilds never
// overlap.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	rebuild  RebuildFunc
	logger   zerolog.Logger
}

// NewWatcher watches every directory under roots. Missing roots are skipped.
func NewWatcher(roots []string, debounce time.Duration, rebuild RebuildFunc, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger,
	}
	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Debug().Str("dir", root).Msg("directory not found, not watching")
			continue
		}
		w.addTree(root)
	}
	return w, nil
}

// addTree watches root and all directories below it. fsnotify is not
// recursive, so each directory is added on its own.
func (w *Watcher) addTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("error walking directory")
			return nil
		}
		if d.IsDir() {
			if watchErr := w.fsw.Add(path); watchErr != nil {
				w.logger.Warn().Err(watchErr).Str("path", path).Msg("failed to watch")
			}
		}
		return nil
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("root", root).Msg("error during directory walk for watching")
	}
}

// Run processes events until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				w.addTree(event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info().Msg("rebuilding site due to changes")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error().Err(err).Msg("rebuild failed")
			} else {
				w.logger.Info().Msg("site rebuilt")
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
