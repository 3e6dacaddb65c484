// Package watcher re-runs an action when any of a set of files changes.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stlalpha/trs80assets/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last write before
// calling the action.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches files for changes and calls an action once per burst of
// writes.
type Watcher struct {
	mu       sync.Mutex
	runMu    sync.Mutex
	watcher  *fsnotify.Watcher
	done     chan struct{}
	files    map[string]bool
	debounce time.Duration
	onChange func(path string)
}

// New starts watching files. Their directories are watched rather than the
// files themselves so editors that save by rename are still seen.
func New(files []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		done:     make(chan struct{}),
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		onChange: onChange,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Printf("INFO: Watching %s for changes", dir)
	}

	go w.watchLoop(fw)
	return w, nil
}

// Stop stops the watcher, waiting for a running action to finish. It is
// safe to call more than once but must not be called from the action.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}
	close(w.done)
	w.watcher.Close()
	w.watcher = nil

	w.runMu.Lock()
	w.runMu.Unlock()
	log.Printf("INFO: File watcher stopped")
}

func (w *Watcher) watchLoop(fw *fsnotify.Watcher) {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logging.Debug("watcher: %s", event)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.fire(abs)
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Printf("ERROR: File watcher error: %v", err)

		case <-w.done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

// fire runs the action unless the watcher has been stopped. Calls never
// overlap, and none starts once Stop has returned.
func (w *Watcher) fire(path string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	log.Printf("INFO: Change detected: %s", filepath.Base(path))
	w.onChange(path)
}
