package graphfile

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to one graph file. It watches the parent directory
// so editors that replace the file on save are still seen.
type Watcher struct {
	Path    string
	Changes <-chan string // Read-only external channel
	Errors  <-chan error

	changes chan string
	errs    chan error
	done    chan struct{}
	watcher *fsnotify.Watcher
	started bool
	stop    sync.Once
}

// debounce collapses bursts of events from a single save.
const debounce = 100 * time.Millisecond

// NewWatcher creates a watcher for the given graph file.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 1)
	errs := make(chan error, 1)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		Errors:  errs,
		changes: ch,
		errs:    errs,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and its channels. It is safe to call after a
// failed Start and more than once.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done // Wait for loop to exit
		}
		close(w.changes)
		close(w.errs)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				w.emit()
				pending = time.Time{}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default: // drop when the reader is behind
			}
		}
	}
}

// emit never blocks; one queued change is enough to trigger a reload.
func (w *Watcher) emit() {
	select {
	case w.changes <- w.Path:
	default:
	}
}
