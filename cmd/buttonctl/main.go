// Package main provides the buttonctl binary entry point.
// buttonctl watches a command file and inserts or removes buttons in a
// static HTML document in response to the commands written there.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/c360studio/buttonctl/config"
	"github.com/c360studio/buttonctl/document"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "buttonctl"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath  string
	docPath     string
	commandPath string
	logLevel    string
	logFile     string
	metricsAddr string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Drive an HTML document's buttons from a command file",
		Long: `buttonctl watches a command file and edits a static HTML document
whenever the file changes. Supported commands:

  create button <identifier> <color>
  delete button <identifier>

Identifiers and colors are drawn from fixed vocabularies; anything else is
rejected and logged.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&opts.docPath, "document", "", "HTML document path (default ./index.html)")
	flags.StringVar(&opts.commandPath, "command-file", "", "Command file path (default ./command.txt)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "watch",
			Short: "Watch the command file and apply commands (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWatch(cmd, opts)
			},
		},
		&cobra.Command{
			Use:     "apply <command...>",
			Short:   "Apply a single command to the document and exit",
			Example: "  buttonctl apply create button btnRed red",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runApply(cmd, opts, strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the buttons currently in the document",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runList(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create the document skeleton if it does not exist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInit(cmd, opts)
			},
		},
		configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, *slog.Logger, func() error, error) {
	bootstrap := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(opts.logLevel)}))

	cfg, err := config.NewLoader(bootstrap).Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("document") {
		cfg.Document.Path = opts.docPath
	}
	if flags.Changed("command-file") {
		cfg.Command.Path = opts.commandPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
}

func runWatch(cmd *cobra.Command, opts *options) error {
	cfg, logger, closeLog, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("buttonctl starting", "version", Version)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewApp(cfg, logger).Run(ctx); err != nil {
		return err
	}

	logger.Info("buttonctl shutdown complete")
	return nil
}

func runApply(cmd *cobra.Command, opts *options, line string) error {
	cfg, logger, closeLog, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app := NewApp(cfg, logger)
	if err := app.Prepare(ctx); err != nil {
		return err
	}
	return app.Apply(ctx, line)
}

func runList(cmd *cobra.Command, opts *options) error {
	cfg, _, closeLog, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	buttons, err := document.Scan(cfg.Document.Path)
	if err != nil {
		return err
	}
	printButtons(cmd.OutOrStdout(), buttons)
	return nil
}

func runInit(cmd *cobra.Command, opts *options) error {
	cfg, _, closeLog, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	created, err := document.EnsureDocument(cfg.Document.Path)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cfg.Document.Path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", cfg.Document.Path)
	}
	return nil
}

func printButtons(w io.Writer, buttons []document.Button) {
	if len(buttons) == 0 {
		fmt.Fprintln(w, "No buttons")
		return
	}
	for _, b := range buttons {
		fmt.Fprintf(w, "%-14s %s\n", b.ID, b.Color)
	}
}
