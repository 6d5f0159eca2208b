package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rebuilds wait until no source change has been seen for this long
const watchDebounce = 250 * time.Millisecond

// watchDirs calls rebuild once changes under dirs have settled.
// It blocks until ctx is done.
func watchDirs(ctx context.Context, dirs []string, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(f string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			return watcher.Add(f)
		})
		if err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// new directories need their own watch
				_ = watcher.Add(event.Name)
			}
			settled = time.After(watchDebounce)
		case <-settled:
			settled = nil
			rebuild()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error: %s", err)
		}
	}
}
