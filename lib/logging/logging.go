// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds carryall's slog logger.
//
// Records go to stderr as text when stderr is a terminal and as JSON
// otherwise, so piped output stays machine-parseable. When a log file
// is configured, every record is also appended to it as JSON.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Level is debug, info, warn, or error. Empty means info.
	Level string

	// File, if set, receives a JSON copy of every record. It is
	// opened for append and created if missing.
	File string

	// Writer is the primary destination. Nil means os.Stderr.
	Writer io.Writer
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// New returns a logger and a function that closes the log file, if
// any. The close function is always non-nil.
func New(options Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, noop, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	writer := options.Writer
	if writer == nil {
		writer = os.Stderr
	}
	primary := consoleHandler(writer, handlerOptions)
	if options.File == "" {
		return slog.New(primary), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(options.File), 0o755); err != nil {
		return nil, noop, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(options.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("opening log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(file, handlerOptions)
	return slog.New(slogmulti.Fanout(primary, fileHandler)), file.Close, nil
}

// consoleHandler picks text for terminals and JSON for everything
// else.
func consoleHandler(writer io.Writer, options *slog.HandlerOptions) slog.Handler {
	if file, ok := writer.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return slog.NewTextHandler(writer, options)
	}
	return slog.NewJSONHandler(writer, options)
}
