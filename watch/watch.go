// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch reports changes to loaded files, so that they can be
// reloaded automatically.
package watch

import (
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"cogentcore.org/datview/base/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default time to wait for more changes
// before a batch of changed files is sent.
var DefaultDebounce = 300 * time.Millisecond

// Watcher watches a set of files and sends batches of changed paths
// on [Watcher.Events]. The directories of the files are watched, so
// files that are replaced by editors are still followed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	events   chan []string
	done     chan bool
}

// New returns a new Watcher for the given files, which should be
// canonical paths. A debounce of 0 uses [DefaultDebounce].
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{watcher: fw, files: map[string]bool{}, debounce: debounce, events: make(chan []string, 1), done: make(chan bool)}
	var dirs []string
	for _, p := range paths {
		p = filepath.Clean(p)
		w.files[p] = true
		if d := filepath.Dir(p); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	go w.run()
	return w, nil
}

// Events returns the channel of batches of changed files,
// which is closed by [Watcher.Close].
func (w *Watcher) Events() <-chan []string { return w.events }

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// Files returns the sorted watched files.
func (w *Watcher) Files() []string {
	return slices.Sorted(maps.Keys(w.files))
}

// Update returns a watcher for the given files. It returns w if w
// already watches exactly those files, and otherwise closes w and
// returns a new watcher, or nil if there are no files. w may be nil.
func Update(w *Watcher, paths []string, debounce time.Duration) (*Watcher, error) {
	want := make([]string, len(paths))
	for i, p := range paths {
		want[i] = filepath.Clean(p)
	}
	slices.Sort(want)
	want = slices.Compact(want)
	if w != nil {
		if slices.Equal(w.Files(), want) {
			return w, nil
		}
		errors.Log(w.Close())
	}
	if len(want) == 0 {
		return nil, nil
	}
	return New(want, debounce)
}

func (w *Watcher) run() {
	defer close(w.events)
	var pending []string
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case <-w.done:
			timer.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if !slices.Contains(pending, name) {
				pending = append(pending, name)
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			errors.Log(err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			slog.Debug("files changed", "files", pending)
			select {
			case w.events <- pending:
			case <-w.done:
				return
			}
			pending = nil
		}
	}
}
