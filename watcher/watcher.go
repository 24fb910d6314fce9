// Package watcher observes the control file and signals when its contents
// change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the change event channel.
	eventChannelBuffer = 100
)

// Config configures the command file watcher.
type Config struct {
	// Path is the control file to watch.
	Path string

	// DebounceDelay coalesces bursts of writes into one change event.
	// Zero emits one change event per write notification.
	DebounceDelay time.Duration

	// Logger for logging events.
	Logger *slog.Logger

	// Recorder observes raw notifications for the control file. Optional.
	Recorder EventRecorder
}

// EventRecorder observes raw filesystem notifications.
type EventRecorder interface {
	ObserveWatchEvent(op string)
}

// ChangeEvent signals that the control file was written.
type ChangeEvent struct {
	// Path is the absolute control file path.
	Path string

	// Op is the notification that triggered the event.
	Op fsnotify.Op

	// At is when the notification was observed.
	At time.Time
}

// CommandWatcher watches a single control file. The file handle and the
// fsnotify watcher are held for the watcher's lifetime.
type CommandWatcher struct {
	config  Config
	path    string
	file    *os.File
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	events chan ChangeEvent

	closeOnce     sync.Once
	droppedEvents atomic.Int64
}

// New opens the control file and creates a watcher for it. The control file
// must already exist.
func New(config Config) (*CommandWatcher, error) {
	if config.Path == "" {
		return nil, errors.New("command file path is required")
	}

	absPath, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve command file path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open command file: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CommandWatcher{
		config:  config,
		path:    absPath,
		file:    file,
		watcher: fsw,
		logger:  logger,
		events:  make(chan ChangeEvent, eventChannelBuffer),
	}, nil
}

// Path returns the absolute control file path.
func (w *CommandWatcher) Path() string {
	return w.path
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (w *CommandWatcher) Events() <-chan ChangeEvent {
	return w.events
}

// Start begins watching. The parent directory is watched so notifications
// survive editors that truncate and rewrite the file.
func (w *CommandWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch command file directory: %w", err)
	}

	go w.processEvents(ctx)

	w.logger.Info("Command watcher started",
		"path", w.path,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher and releases the control file handle.
// The events channel is closed by processEvents when it exits.
func (w *CommandWatcher) Stop() error {
	var err error
	w.closeOnce.Do(func() {
		err = errors.Join(w.watcher.Close(), w.file.Close())
	})
	return err
}

// ReadCommand reads the whole control file from offset zero using the
// file's current size and returns the trimmed text. A file that grows
// between the stat and the read is read short.
func (w *CommandWatcher) ReadCommand() (string, error) {
	info, err := w.file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat command file: %w", err)
	}

	buf := make([]byte, info.Size())
	n, err := w.file.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read command file: %w", err)
	}

	return strings.TrimSpace(string(buf[:n])), nil
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *CommandWatcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// processEvents filters fsnotify events down to writes of the control file.
func (w *CommandWatcher) processEvents(ctx context.Context) {
	defer close(w.events)

	var (
		timer   *time.Timer
		flush   <-chan time.Time
		pending ChangeEvent
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := w.handleFSEvent(event)
			if !ok {
				continue
			}
			if w.config.DebounceDelay <= 0 {
				w.sendEvent(change)
				continue
			}
			pending = change
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceDelay)
			} else {
				timer.Reset(w.config.DebounceDelay)
			}
			flush = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-flush:
			flush = nil
			w.sendEvent(pending)
		}
	}
}

// handleFSEvent returns a change event for writes to the control file.
// Create, remove, rename and chmod notifications are ignored.
func (w *CommandWatcher) handleFSEvent(event fsnotify.Event) (ChangeEvent, bool) {
	if filepath.Clean(event.Name) != w.path {
		return ChangeEvent{}, false
	}

	if w.config.Recorder != nil {
		w.config.Recorder.ObserveWatchEvent(opLabel(event.Op))
	}

	if !event.Has(fsnotify.Write) {
		w.logger.Debug("Ignoring command file event", "op", event.Op.String())
		return ChangeEvent{}, false
	}

	return ChangeEvent{Path: w.path, Op: event.Op, At: time.Now()}, true
}

// sendEvent sends an event to the output channel. A dropped event is
// harmless while another is queued, since every pass rereads the file.
func (w *CommandWatcher) sendEvent(event ChangeEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent change event", "path", event.Path, "op", event.Op.String())
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

func opLabel(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	}
	return "other"
}
