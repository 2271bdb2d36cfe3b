package theme

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events editors emit on save
const debounceDelay = 150 * time.Millisecond

// watchDirs returns the terminal config directories that exist
func watchDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	candidates := []string{
		filepath.Join(home, ".config", "alacritty"),
		filepath.Join(home, ".config", "kitty"),
		filepath.Join(home, ".config", "foot"),
	}

	var dirs []string
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Watcher refreshes the palette when a terminal config file changes
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func()
	done     chan struct{}

	mu      sync.Mutex
	pending *time.Timer
}

// NewWatcher starts watching the known terminal config dirs. onChange runs
// after each debounced refresh and may be nil.
func NewWatcher(onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range watchDirs() {
		_ = fsw.Add(dir)
	}

	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}

		case <-w.fsw.Errors:
			// keep watching

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceDelay, func() {
		Refresh()
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop shuts the watcher down
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()

	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()
}
