package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk. The parent
// directory is watched because Save replaces the file by rename.
type Watcher struct {
	path string
	w    *fsnotify.Watcher
}

// NewWatcher starts watching path's directory. Events are only delivered
// once Run is called; Close releases the watch.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: filepath.Clean(path), w: w}, nil
}

// Run blocks until ctx is done, calling fn with the reloaded config (or the
// load error) after every create, write or rename of the file. A removed
// file reloads as DefaultConfig.
func (cw *Watcher) Run(ctx context.Context, fn func(*Config, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			cfg, err := LoadOrDefault(cw.path)
			if err == nil {
				err = cfg.ApplyEnv()
			}
			fn(cfg, err)
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			fn(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}

func (cw *Watcher) Close() error {
	return cw.w.Close()
}
