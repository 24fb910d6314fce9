// Package commands parses control-file lines and applies them to the document.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/c360studio/buttonctl/document"
	"github.com/google/uuid"
)

// Verb prefixes recognized at the start of a command line.
const (
	CreatePrefix = "create button"
	DeletePrefix = "delete button"
)

// Usage hints reported when a recognized verb is missing arguments.
const (
	CreateUsage = "Specify a name and color to create (e.g., 'create button btnRed red')."
	DeleteUsage = "Specify a name ID to delete (e.g., 'delete button btnRed')."
)

// Verb identifies the operation a command line requests.
type Verb string

// VerbCreate, VerbDelete, and VerbUnknown enumerate the command verbs.
const (
	VerbCreate  Verb = "create"
	VerbDelete  Verb = "delete"
	VerbUnknown Verb = "unknown"
)

// Outcome labels for recorded commands.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeUsage    = "usage"
	OutcomeIgnored  = "ignored"
	OutcomeError    = "error"
)

// Command is a parsed control-file line.
type Command struct {
	Verb  Verb
	ID    string
	Color string
}

// Complete reports whether the command carries every argument its verb needs.
func (c Command) Complete() bool {
	switch c.Verb {
	case VerbCreate:
		return c.ID != "" && c.Color != ""
	case VerbDelete:
		return c.ID != ""
	}
	return false
}

// Parse splits line on single spaces and extracts positional arguments.
// Tokens past the ones a verb consumes are ignored.
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, CreatePrefix):
		parts := strings.Split(line, " ")
		return Command{Verb: VerbCreate, ID: token(parts, 2), Color: token(parts, 3)}
	case strings.HasPrefix(line, DeletePrefix):
		parts := strings.Split(line, " ")
		return Command{Verb: VerbDelete, ID: token(parts, 2)}
	}
	return Command{Verb: VerbUnknown}
}

func token(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// ButtonMutator applies button operations to the document.
type ButtonMutator interface {
	Create(ctx context.Context, id, color string) error
	Delete(ctx context.Context, id string) error
	Path() string
}

// Recorder observes dispatch outcomes.
type Recorder interface {
	ObserveCommand(verb, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCommand(string, string) {}

// Dispatcher routes parsed commands to a ButtonMutator.
type Dispatcher struct {
	mutator  ButtonMutator
	logger   *slog.Logger
	recorder Recorder
}

// NewDispatcher creates a dispatcher. logger and recorder may be nil.
func NewDispatcher(mutator ButtonMutator, logger *slog.Logger, recorder Recorder) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Dispatcher{
		mutator:  mutator,
		logger:   logger,
		recorder: recorder,
	}
}

// Dispatch applies one command line. Validation rejections and usage errors
// are logged and swallowed; only I/O failures are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	cmd := Parse(line)
	logger := d.logger.With("pass_id", uuid.New().String())

	if cmd.Verb == VerbUnknown {
		logger.Debug("Ignoring unrecognized command", "length", len(line))
		d.recorder.ObserveCommand(string(cmd.Verb), OutcomeIgnored)
		return nil
	}

	if !cmd.Complete() {
		usage := CreateUsage
		if cmd.Verb == VerbDelete {
			usage = DeleteUsage
		}
		logger.Info(usage, "verb", cmd.Verb)
		d.recorder.ObserveCommand(string(cmd.Verb), OutcomeUsage)
		return nil
	}

	var err error
	switch cmd.Verb {
	case VerbCreate:
		err = d.mutator.Create(ctx, cmd.ID, cmd.Color)
	case VerbDelete:
		err = d.mutator.Delete(ctx, cmd.ID)
	}

	switch {
	case err == nil:
		d.recorder.ObserveCommand(string(cmd.Verb), OutcomeOK)
		if cmd.Verb == VerbCreate {
			logger.Info("Button added",
				"id", cmd.ID,
				"color", cmd.Color,
				"document", d.mutator.Path())
		} else {
			logger.Info("Button removed",
				"id", cmd.ID,
				"document", d.mutator.Path())
		}
		return nil

	case document.IsRejection(err):
		d.recorder.ObserveCommand(string(cmd.Verb), OutcomeRejected)
		logger.Warn("Command rejected",
			"verb", cmd.Verb,
			"id", cmd.ID,
			"color", cmd.Color,
			"reason", err.Error())
		return nil

	default:
		d.recorder.ObserveCommand(string(cmd.Verb), OutcomeError)
		logger.Error("Command failed",
			"verb", cmd.Verb,
			"id", cmd.ID,
			"error", err)
		return err
	}
}
