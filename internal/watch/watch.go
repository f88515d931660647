// Package watch reports edits to open documents
package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tocview/internal/eventbus"
)

// DefaultDelay coalesces the burst of writes an editor makes on save
const DefaultDelay = 100 * time.Millisecond

// Watcher publishes DocumentChangedEvent for files it follows. Parent
// directories are watched so editors that replace files on save still count.
type Watcher struct {
	bus      eventbus.EventBus
	fs       *fsnotify.Watcher
	throttle *throttle

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	closeOnce sync.Once
}

// New creates a Watcher publishing on bus
func New(bus eventbus.EventBus, delay time.Duration) (*Watcher, error) {
	if bus == nil {
		return nil, errors.New("watch: event bus required")
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{
		bus:      bus,
		fs:       fs,
		throttle: newThrottle(delay),
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Add follows path
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Run forwards file events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(evt.Name)
			if !w.follows(path) {
				continue
			}
			w.throttle.enqueue(path, w.publish)
		}
	}
}

func (w *Watcher) follows(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[path]
	return ok
}

func (w *Watcher) publish(path string) {
	log.Printf("watch: %s changed", path)
	w.bus.Publish(eventbus.DocumentChangedEvent{Path: path})
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.throttle.stop()
		if err := w.fs.Close(); err != nil {
			log.Printf("watch: close: %v", err)
		}
	})
}

// throttle coalesces rapid notifications per path into one
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay, pending: make(map[string]struct{})}
}

func (t *throttle) enqueue(path string, send func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[path] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

func (t *throttle) flush(send func(string)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for path := range pending {
		send(path)
	}
}

func (t *throttle) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
