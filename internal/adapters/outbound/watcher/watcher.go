package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle before
// reporting a batch.
const DefaultDebounce = 300 * time.Millisecond

// Filter reports whether a slash-separated path relative to the root should
// be ignored. Directory paths carry a trailing slash.
type Filter func(rel string) bool

// Watcher reports batches of changed source files under a root.
type Watcher struct {
	root     string
	ext      string
	ignore   Filter
	debounce time.Duration
}

// New creates a watcher for files with extension ext under root.
func New(root, ext string, ignore Filter) *Watcher {
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	return &Watcher{root: root, ext: ext, ignore: ignore, debounce: DefaultDebounce}
}

// WithDebounce overrides the settle interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run blocks until ctx is done, calling onChange with the sorted relative
// paths of every file touched since the previous call. onChange runs on the
// watcher goroutine, so batches never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addRecursive(fw, w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	slog.Info("watching for changes", "root", w.root)

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.relevant(fw, event)
			if !ok {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			slog.Debug("change batch", "files", len(changed))
			onChange(ctx, changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// relevant filters an event down to a watched source file. New directories
// are added to the watch set as they appear.
func (w *Watcher) relevant(fw *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return "", false
	}
	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	rel := filepath.ToSlash(relPath)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignore(rel + "/") {
				if err := w.addRecursive(fw, event.Name); err != nil {
					slog.Debug("watch new directory failed", "dir", rel, "error", err)
				}
			}
			return "", false
		}
	}

	if filepath.Ext(rel) != w.ext || w.ignore(rel) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			rel, _ := filepath.Rel(w.root, path)
			if w.ignore(filepath.ToSlash(rel) + "/") {
				return filepath.SkipDir
			}
		}
		return fw.Add(path)
	})
}
