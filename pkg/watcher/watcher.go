// Package watcher reports debounced changes of a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// DefaultDebounce collapses the burst of events editors produce on save
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher watches files for changes. The parent directories are
// watched so files replaced by rename (atomic saves) keep being tracked.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Logger   *log.Logger

	mu    sync.Mutex
	files map[string]bool
}

// NewFileWatcher creates a watcher that waits debounce after the last event
// before reporting
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		files:    make(map[string]bool),
	}, nil
}

func (fw *FileWatcher) logger() *log.Logger {
	if fw.Logger != nil {
		return fw.Logger
	}
	return log.Default()
}

// Add starts tracking the given files
func (fw *FileWatcher) Add(files ...string) error {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		paths = append(paths, abs)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	dirs := lo.Uniq(lo.Map(paths, func(p string, _ int) string { return filepath.Dir(p) }))
	for _, dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	for _, p := range paths {
		fw.files[p] = true
	}
	return nil
}

// Files returns the tracked files in sorted order
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	files := lo.Keys(fw.files)
	sort.Strings(files)
	return files
}

func (fw *FileWatcher) tracked(path string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.files[filepath.Clean(path)]
}

// Run blocks until ctx is done or the watcher is closed, calling onChange
// with the sorted set of files written since the previous call
func (fw *FileWatcher) Run(ctx context.Context, onChange func(changed []string)) error {
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !fw.tracked(event.Name) {
				continue
			}
			fw.logger().Debug("file event", "path", event.Name, "op", event.Op)
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(fw.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := lo.Keys(pending)
			sort.Strings(changed)
			pending = make(map[string]bool)
			onChange(changed)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger().Warn("watcher error", "err", err)
		}
	}
}

// Close stops the watcher; a running Run returns
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
