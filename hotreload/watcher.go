// Package hotreload reloads SCON documents when their files change on disk.
//
// A Watcher parses changed files on its own goroutine and delivers the
// results on Reloads. Apply them to a spriter.Library from the goroutine
// that owns the library, typically the game's Update:
//
//	for {
//		select {
//		case r := <-w.Reloads:
//			hotreload.Apply(lib, r)
//		default:
//			return
//		}
//	}
package hotreload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/spriter"
)

// Reload is the outcome of one debounced file change.
type Reload struct {
	// Key is the library key: the file name without its .scon extension.
	Key  string
	File string // Absolute path
	// Doc is the freshly parsed document, nil on error or removal.
	Doc     *spriter.Document
	Err     error
	Removed bool
}

// Watcher monitors a directory for .scon file changes using fsnotify.
type Watcher struct {
	Dir     string
	Reloads <-chan Reload // Read-only external channel

	opts    spriter.LoadOptions
	reloads chan Reload // Internal write channel
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a new watcher for the given directory. opts are used
// for every document it loads.
func NewWatcher(dir string, opts spriter.LoadOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("hotreload: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("hotreload: %w", err)
	}

	ch := make(chan Reload, 16)
	w := &Watcher{
		Dir:     abs,
		Reloads: ch,
		opts:    opts,
		reloads: ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("hotreload: watch %s: %w", w.Dir, err)
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel. Results not yet
// delivered are dropped, so Stop returns even when Reloads is not drained.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors write a file in several steps.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Drain pending on close.
				for file := range pending {
					w.emitChange(file)
				}
				return
			}

			if !isSconFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					w.emitChange(file)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func isSconFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".scon")
}

// KeyFor returns the library key for a .scon path.
func KeyFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// emitChange loads file and delivers the result, unless the watcher is
// stopping first.
func (w *Watcher) emitChange(file string) bool {
	select {
	case w.reloads <- load(file, w.opts):
		return true
	case <-w.stop:
		return false
	}
}

func load(file string, opts spriter.LoadOptions) Reload {
	r := Reload{Key: KeyFor(file), File: file}
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		r.Removed = true
		return r
	}
	if err != nil {
		r.Err = fmt.Errorf("hotreload: %w", err)
		return r
	}
	r.Doc, r.Err = spriter.LoadDocument(data, opts)
	if r.Err != nil {
		r.Err = fmt.Errorf("hotreload: %s: %w", filepath.Base(file), r.Err)
	}
	return r
}

// Apply updates lib with r: a parsed document replaces the one under r.Key,
// a removal unregisters it, and a failed parse leaves lib unchanged and
// returns the error. Entities already created keep their old document.
func Apply(lib *spriter.Library, r Reload) error {
	switch {
	case r.Err != nil:
		return r.Err
	case r.Removed:
		lib.Unregister(r.Key)
	case r.Doc != nil:
		lib.Register(r.Key, r.Doc)
	}
	return nil
}
