// Package watch reports edits to the TLS trust-store file so the launcher can
// retry a refresh once the CA bundle has been fixed.
package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultDebounce collapses the burst of events an editor or package
	// manager produces when rewriting a bundle.
	DefaultDebounce = 250 * time.Millisecond
	// DefaultPollInterval is the stat fallback for filesystems without
	// reliable notifications.
	DefaultPollInterval = 2 * time.Second
)

// WatcherInterface defines the interface for trust-store watchers
type WatcherInterface interface {
	Changes() <-chan struct{}
	Errors() <-chan error
	Close() error
}

// Watcher monitors a single file through its parent directory
type Watcher struct {
	watcher      *fsnotify.Watcher
	filePath     string
	debounce     time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	state     fileState
	changes   chan struct{}
	errorChan chan error
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat fallback interval. Zero disables polling.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithLogger sets the logger for watch events
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New starts watching filePath. The file may be missing, but its directory
// must exist.
func New(filePath string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve trust store path", goerr.V("path", filePath))
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fsnotify watcher")
	}

	// Watch the directory so replacing the file (rename over it) is seen
	dirPath := filepath.Dir(abs)
	if err := fsWatcher.Add(dirPath); err != nil {
		fsWatcher.Close()
		return nil, goerr.Wrap(err, "failed to watch trust store directory", goerr.V("dir", dirPath))
	}

	w := &Watcher{
		watcher:      fsWatcher,
		filePath:     abs,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
		changes:      make(chan struct{}, 1),
		errorChan:    make(chan error, 10),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.state = statFile(abs)

	w.wg.Add(1)
	go w.watch()

	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.filePath
}

// watch runs the event loop
func (w *Watcher) watch() {
	defer w.wg.Done()

	var poll <-chan time.Time
	if w.pollInterval > 0 {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	pending := func() {
		timer.Reset(w.debounce)
		fire = timer.C
	}

	for {
		select {
		case <-w.done:
			return

		case <-poll:
			// Polling as backup
			if s := statFile(w.filePath); s != w.state {
				w.state = s
				pending()
			}

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.logger.Debug("trust store event", "path", event.Name, "op", event.Op.String())
				w.state = statFile(w.filePath)
				pending()
			}

		case <-fire:
			fire = nil
			w.logger.Info("trust store changed", "path", w.filePath)
			select {
			case w.changes <- struct{}{}:
			default:
				// A change is already pending for the reader
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errorChan <- goerr.Wrap(err, "trust store watch failed", goerr.V("path", w.filePath)):
			default:
				w.logger.Warn("dropping watch error", "error", err)
			}
		}
	}
}

// Changes delivers one value per debounced burst of edits
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors returns a channel of errors that occur during watching
func (w *Watcher) Errors() <-chan error {
	return w.errorChan
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// TestWatcher is a helper for testing that provides direct control over channels
type TestWatcher struct {
	changes   chan struct{}
	errorChan chan error
	closed    bool
	mu        sync.Mutex
}

// NewTestWatcher creates a test watcher with controllable channels
func NewTestWatcher() *TestWatcher {
	return &TestWatcher{
		changes:   make(chan struct{}, 10),
		errorChan: make(chan error, 10),
	}
}

func (tw *TestWatcher) Changes() <-chan struct{} {
	return tw.changes
}

func (tw *TestWatcher) Errors() <-chan error {
	return tw.errorChan
}

func (tw *TestWatcher) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed {
		return nil
	}
	tw.closed = true
	close(tw.changes)
	close(tw.errorChan)
	return nil
}

// Trigger reports a change
func (tw *TestWatcher) Trigger() {
	tw.changes <- struct{}{}
}

// SendError sends a test error to the watcher
func (tw *TestWatcher) SendError(err error) {
	tw.errorChan <- err
}
