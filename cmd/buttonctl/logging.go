package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// newLogger builds the process logger. When logFile is set, records fan out
// to both stderr and the file. The returned close func releases the file.
func newLogger(stderr io.Writer, logLevel, logFile string) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}
	terminal := slog.NewTextHandler(stderr, opts)

	if logFile == "" {
		return slog.New(terminal), func() error { return nil }, nil
	}

	if dir := filepath.Dir(logFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slogmulti.Fanout(terminal, slog.NewTextHandler(f, opts))
	return slog.New(handler), f.Close, nil
}
