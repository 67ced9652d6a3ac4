// Package watch re-runs a calq file whenever it changes on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// DefaultDebounce is how long writes must settle before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the current content of the watched file.
type Handler func(path string, data []byte)

type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      commonlog.Logger
	stopCh   chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

func New(path string, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		handler:  handler,
		debounce: DefaultDebounce,
		watcher:  fsw,
		log:      commonlog.GetLogger("calq.watch"),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

func (w *Watcher) Path() string {
	return w.path
}

// Start reports the file's current content and then watches its directory,
// so that editors which replace the file on save are followed.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.Infof("watching %s", w.path)
	w.started = true
	w.reload()
	go w.run()
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		if w.started {
			<-w.done
		}
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warningf("failed to read %s: %s", w.path, err)
		return
	}
	w.handler(w.path, data)
}
