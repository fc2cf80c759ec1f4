package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devboost-pro/extcheck/internal/config"
	"github.com/devboost-pro/extcheck/internal/scanner"
)

// HybridWatcher watches a project tree with fsnotify, falling back to
// polling when fsnotify cannot be created or cannot watch the tree.
type HybridWatcher struct {
	fsWatcher      *fsnotify.Watcher
	pollWatcher    *PollingWatcher
	debouncer      *Debouncer
	events         chan []FileEvent
	errors         chan error
	stopCh         chan struct{}
	wg             sync.WaitGroup
	rootPath       string
	opts           Options
	logger         *slog.Logger
	mu             sync.RWMutex
	stopped        bool
	droppedBatches atomic.Uint64
}

// NewHybridWatcher creates a new hybrid watcher with the given options.
func NewHybridWatcher(opts Options) (*HybridWatcher, error) {
	opts = opts.WithDefaults()

	h := &HybridWatcher{
		debouncer: NewDebouncer(opts.DebounceWindow),
		events:    make(chan []FileEvent, opts.EventBufferSize),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
		opts:      opts,
		logger:    opts.Logger,
	}
	h.debouncer.logger = opts.Logger

	if !opts.ForcePolling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			h.fsWatcher = fsw
			return h, nil
		}
		h.logger.Warn("fsnotify unavailable, falling back to polling", slog.String("error", err.Error()))
	}
	h.pollWatcher = h.newPoller()
	return h, nil
}

func (h *HybridWatcher) newPoller() *PollingWatcher {
	p := NewPollingWatcher(h.opts.PollInterval, h.opts.IgnoreDirs)
	p.logger = h.logger
	return p
}

// Start watches path until ctx is done or Stop is called. It blocks; the
// returned error is ctx.Err() on cancellation and nil after Stop.
func (h *HybridWatcher) Start(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", scanner.ErrNotDirectory, absPath)
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil
	}
	h.rootPath = absPath
	if h.fsWatcher != nil {
		if err := h.addRecursive(ctx, absPath); err != nil {
			h.logger.Warn("fsnotify cannot watch project, falling back to polling",
				slog.String("root", absPath),
				slog.String("error", err.Error()))
			_ = h.fsWatcher.Close()
			h.fsWatcher = nil
			h.pollWatcher = h.newPoller()
		}
	}
	h.mu.Unlock()

	h.wg.Add(1)
	go h.forwardDebouncedEvents()
	defer h.wg.Wait()

	h.logger.Debug("watcher started",
		slog.String("root", absPath),
		slog.String("type", h.WatcherType()))

	if h.fsWatcher != nil {
		return h.runFsnotify(ctx)
	}
	return h.runPolling(ctx)
}

func (h *HybridWatcher) runFsnotify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = h.Stop()
			return ctx.Err()
		case <-h.stopCh:
			return nil
		case event, ok := <-h.fsWatcher.Events:
			if !ok {
				return nil
			}
			h.handleFsnotifyEvent(ctx, event)
		case err, ok := <-h.fsWatcher.Errors:
			if !ok {
				return nil
			}
			h.emitError(err)
		}
	}
}

func (h *HybridWatcher) runPolling(ctx context.Context) error {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		events, errs := h.pollWatcher.Events(), h.pollWatcher.Errors()
		for events != nil || errs != nil {
			select {
			case <-h.stopCh:
				return
			case event, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				h.dispatch(event.Path, event.Operation, event.IsDir)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				h.emitError(err)
			}
		}
	}()

	err := h.pollWatcher.Start(ctx, h.rootPath)
	_ = h.Stop()
	return err
}

// handleFsnotifyEvent converts and filters fsnotify events.
func (h *HybridWatcher) handleFsnotifyEvent(ctx context.Context, event fsnotify.Event) {
	relPath, err := filepath.Rel(h.rootPath, event.Name)
	if err != nil {
		return
	}
	relPath = filepath.ToSlash(relPath)
	if h.shouldIgnore(relPath) {
		return
	}

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}

	var op Operation
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
		if isDir {
			// New directories may already hold subdirectories (mkdir -p).
			if err := h.addRecursive(ctx, event.Name); err != nil {
				h.emitError(fmt.Errorf("watch new directory %s: %w", relPath, err))
			}
		}
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		// Chmod only.
		return
	}

	h.dispatch(relPath, op, isDir)
}

// dispatch feeds one filtered event to the debouncer, tagging changes to
// the project config file.
func (h *HybridWatcher) dispatch(relPath string, op Operation, isDir bool) {
	if h.shouldIgnore(relPath) {
		return
	}
	if !isDir && isProjectConfig(relPath) {
		op = OpConfigChange
	}
	h.debouncer.Add(FileEvent{
		Path:      relPath,
		Operation: op,
		IsDir:     isDir,
		Timestamp: time.Now(),
	})
}

func isProjectConfig(relPath string) bool {
	switch relPath {
	case config.ProjectConfigYAML, config.ProjectConfigYML, config.ProjectConfigTOML:
		return true
	}
	return false
}

func (h *HybridWatcher) shouldIgnore(relPath string) bool {
	if relPath == "." || relPath == "" {
		return true
	}
	return scanner.ExcludedPath(relPath, h.opts.IgnoreDirs)
}

// addRecursive watches dir and every non-ignored directory below it.
func (h *HybridWatcher) addRecursive(ctx context.Context, dir string) error {
	dirs, err := scanner.Dirs(ctx, dir, h.opts.IgnoreDirs)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := h.fsWatcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return nil
}

func (h *HybridWatcher) forwardDebouncedEvents() {
	defer h.wg.Done()
	for {
		select {
		case <-h.stopCh:
			return
		case events, ok := <-h.debouncer.Output():
			if !ok {
				return
			}
			if len(events) > 0 {
				h.emitEvents(events)
			}
		}
	}
}

// emitEvents sends a batch without blocking. The read lock is held across
// the send so Stop cannot close the channel underneath it.
func (h *HybridWatcher) emitEvents(events []FileEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		return
	}

	select {
	case h.events <- events:
	default:
		count := h.droppedBatches.Add(1)
		h.logger.Warn("event buffer full, dropping batch",
			slog.Int("batch_size", len(events)),
			slog.Uint64("total_dropped_batches", count))
	}
}

// DroppedBatches returns the number of batches dropped due to buffer overflow.
func (h *HybridWatcher) DroppedBatches() uint64 {
	return h.droppedBatches.Load()
}

func (h *HybridWatcher) emitError(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		return
	}

	select {
	case h.errors <- err:
	default:
	}
}

// Stop stops the watcher and closes the Events and Errors channels.
// Safe to call multiple times.
func (h *HybridWatcher) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return nil
	}

	h.stopped = true
	close(h.stopCh)
	h.debouncer.Stop()

	if h.fsWatcher != nil {
		_ = h.fsWatcher.Close()
	}
	if h.pollWatcher != nil {
		_ = h.pollWatcher.Stop()
	}

	close(h.events)
	close(h.errors)
	return nil
}

// Events returns the channel of batched file events.
func (h *HybridWatcher) Events() <-chan []FileEvent {
	return h.events
}

// Errors returns the channel of non-fatal watcher errors.
func (h *HybridWatcher) Errors() <-chan error {
	return h.errors
}

// WatcherType returns "fsnotify" or "polling".
func (h *HybridWatcher) WatcherType() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.fsWatcher != nil {
		return "fsnotify"
	}
	return "polling"
}

// RootPath returns the root path being watched.
func (h *HybridWatcher) RootPath() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rootPath
}
