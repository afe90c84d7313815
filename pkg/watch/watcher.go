package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the file or directory to watch. Directories are watched
	// recursively.
	Path string

	// DebounceInterval is how long the watcher waits after the last event
	// before calling back (default: 100ms).
	DebounceInterval time.Duration

	// Extensions is the list of file extensions to watch (default: ".ttl").
	Extensions []string

	// SkipHidden skips dot files and dot directories.
	SkipHidden bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".ttl"},
		SkipHidden:       true,
	}
}

// ChangeFunc receives the sorted, de-duplicated paths that changed during one
// debounce window. A path may no longer exist when it was removed or renamed.
type ChangeFunc func(paths []string)

// Watcher watches policy files and reports batches of changed paths.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	pending map[string]struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped sync.Once
}

// New creates a watcher. Call Watch to start it.
func New(config *Config, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".ttl"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  w,
		logger:   logger.With("component", "watch"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		pending:  make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, calling onChange
// after each quiet period that followed relevant events.
func (w *Watcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer close(w.doneCh)

	if err := w.addPath(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	w.logger.Info("file watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
		"extensions", w.config.Extensions,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if isDir, _ := isDirectory(event.Name); isDir && !w.hidden(event.Name) {
					if err := w.addDirectory(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.ShouldProcess(event) {
				continue
			}

			w.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()

			w.debounce.Trigger(func() {
				if paths := w.drain(); len(paths) > 0 {
					onChange(paths)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the fsnotify handle. Pending
// callbacks are cancelled.
func (w *Watcher) Stop() error {
	var err error
	w.stopped.Do(func() {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()

		close(w.stopCh)
		if running {
			<-w.doneCh
		}
		w.debounce.Stop()

		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

func (w *Watcher) addPath(path string) error {
	isDir, err := isDirectory(path)
	if err != nil {
		return err
	}
	if isDir {
		return w.addDirectory(path)
	}
	return w.watcher.Add(path)
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && w.hidden(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// ShouldProcess reports whether event concerns a watched policy file.
// Chmod-only events are ignored.
func (w *Watcher) ShouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.hidden(event.Name) {
		return false
	}
	return HasExtension(event.Name, w.config.Extensions)
}

func (w *Watcher) hidden(path string) bool {
	return w.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// HasExtension reports whether path ends in one of extensions, ignoring case.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
