package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/buttonctl/commands"
	"github.com/c360studio/buttonctl/config"
	"github.com/c360studio/buttonctl/document"
	"github.com/c360studio/buttonctl/metrics"
	"github.com/c360studio/buttonctl/registry"
	"github.com/c360studio/buttonctl/watcher"
)

// App is the main application that wires together all components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry   *registry.Registry
	mutator    *document.Mutator
	dispatcher *commands.Dispatcher
	metrics    *metrics.Metrics
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	reg := registry.New()
	mutator := document.NewMutator(cfg.Document.Path, reg)
	m := metrics.New()

	return &App{
		cfg:        cfg,
		logger:     logger,
		registry:   reg,
		mutator:    mutator,
		dispatcher: commands.NewDispatcher(mutator, logger, m),
		metrics:    m,
	}
}

// Prepare ensures the document exists and seeds the used-identifier set.
func (a *App) Prepare(ctx context.Context) error {
	created, err := document.EnsureDocument(a.cfg.Document.Path)
	if err != nil {
		return err
	}
	if created {
		a.logger.Info("Created document", "path", a.cfg.Document.Path)
	}

	if a.cfg.Reconcile() {
		seeded, err := a.mutator.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconcile document: %w", err)
		}
		if len(seeded) > 0 {
			a.logger.Info("Seeded existing buttons", "ids", seeded)
		}
	}

	a.metrics.SetButtonsPresent(a.registry.Len())
	return nil
}

// Apply dispatches a single command line.
func (a *App) Apply(ctx context.Context, line string) error {
	err := a.dispatcher.Dispatch(ctx, line)
	a.metrics.SetButtonsPresent(a.registry.Len())
	return err
}

// Run watches the control file and applies each change until ctx is done.
// Passes are processed one at a time: a pass finishes its document write
// before the next change event is read.
func (a *App) Run(ctx context.Context) error {
	if err := a.Prepare(ctx); err != nil {
		return err
	}
	if err := a.ensureCommandFile(); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		Path:          a.cfg.Command.Path,
		DebounceDelay: a.cfg.DebounceDelay(),
		Logger:        a.logger,
		Recorder:      a.metrics,
	})
	if err != nil {
		return err
	}
	defer w.Stop()
	defer func() {
		a.logger.Info("Command watcher stopped", "dropped_events", w.DroppedEvents())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	if a.cfg.Metrics.Addr != "" {
		go func() {
			serveErr <- a.metrics.Serve(ctx, a.cfg.Metrics.Addr, a.logger)
		}()
	}

	a.logger.Info("Watching for commands",
		"command_file", w.Path(),
		"document", a.cfg.Document.Path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}

		case _, ok := <-w.Events():
			if !ok {
				return nil
			}
			line, err := w.ReadCommand()
			if err != nil {
				return err
			}
			if err := a.Apply(ctx, line); err != nil {
				return err
			}
		}
	}
}

func (a *App) ensureCommandFile() error {
	path := a.cfg.Command.Path
	if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if !a.cfg.CreateCommandFile() {
		return fmt.Errorf("command file %s does not exist", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create command file directory: %w", err)
		}
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("create command file: %w", err)
	}
	a.logger.Info("Created command file", "path", path)
	return nil
}
