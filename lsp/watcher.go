// Copyright © 2025 The DWSLS authors

package lsp

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// watchDebounce batches rapid bursts of filesystem events (e.g. a
// branch checkout) into one recompile.
const watchDebounce = 300 * time.Millisecond

// scriptExts are the source extensions the watcher reacts to.
var scriptExts = map[string]bool{
	".dws": true,
	".pas": true,
	".inc": true,
}

// Watcher observes the workspace for external script-file changes and
// feeds them into the session as watched-file events, the same path the
// client's didChangeWatchedFiles notifications take. Editor-driven
// edits never pass through here; they go through shadows.
type Watcher struct {
	root    string
	session *Session
	fsw     *fsnotify.Watcher
	log     commonlog.Logger

	mu      sync.Mutex
	pending map[string]WatchedChange
	timer   *time.Timer

	done chan struct{}
}

// NewWatcher creates a watcher over root and all its subdirectories.
func NewWatcher(root string, session *Session) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:    root,
		session: session,
		fsw:     fsw,
		log:     commonlog.GetLogger("dwsls.watcher"),
		pending: make(map[string]WatchedChange),
		done:    make(chan struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins dispatching events until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop ends the watch and discards any pending batch.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %s", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// New directories must be watched too.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(ev.Name)
		}
	}
	if !scriptExts[filepath.Ext(ev.Name)] {
		return
	}

	change := WatchedChanged
	switch {
	case ev.Op.Has(fsnotify.Create):
		change = WatchedCreated
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		change = WatchedDeleted
	case ev.Op.Has(fsnotify.Write):
		change = WatchedChanged
	default:
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = change
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.flush)
	w.mu.Unlock()
}

// flush hands the accumulated batch to the session.
func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]WatchedChange)
	w.mu.Unlock()
	if len(pending) == 0 {
		return
	}

	events := make([]WatchedEvent, 0, len(pending))
	for path, change := range pending {
		events = append(events, WatchedEvent{URI: pathToURI(path), Change: change})
	}
	if err := w.session.ChangeWatchedFiles(context.Background(), events); err != nil {
		w.log.Errorf("recompile after watched changes: %s", err)
	}
}
