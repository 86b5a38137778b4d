package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/dhamidi/jmodel/java/facts"
)

// ChangeCallback runs after a debounced batch of changes has been applied.
type ChangeCallback func(paths []string)

// FileWatcher keeps a Codebase in sync with the fact documents on disk.
// Events are collected per path and applied together once the directory has
// been quiet for the debounce period.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher

	mu             sync.Mutex
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	callbacks      []ChangeCallback
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	w := &FileWatcher{
		codebase:       c,
		watcher:        watcher,
		pending:        make(map[string]bool),
		debouncePeriod: 200 * time.Millisecond,
	}
	if err := w.addTree(c.RootDir()); err != nil {
		watcher.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the quiet period; it applies to the next event.
func (w *FileWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

func (w *FileWatcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// addTree watches dir and every non-hidden directory below it. fsnotify does
// not recurse on its own.
func (w *FileWatcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		return nil
	})
}

func (w *FileWatcher) Start() {
	go w.watchLoop()
}

func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("file watcher: %s", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				log.Warningf("%s", err)
			}
			return
		}
	}
	if !facts.IsFactFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	log.Debugf("%s: %s", event.Op, event.Name)
	w.schedule(event.Name)
}

func (w *FileWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.flush)
}

// flush applies every pending path: files that still exist are rescanned,
// the rest are removed.
func (w *FileWatcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	callbacks := append([]ChangeCallback(nil), w.callbacks...)
	w.mu.Unlock()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			w.codebase.RemoveFile(path)
			continue
		}
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("%s", err)
		}
	}
	log.Infof("applied %d changed fact documents", len(paths))

	for _, callback := range callbacks {
		callback(paths)
	}
}
