// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/config"
	"github.com/carryall-dev/carryall/lib/logging"
	"github.com/carryall-dev/carryall/lib/platform"
	"github.com/carryall-dev/carryall/lib/probe"
	"github.com/carryall-dev/carryall/lib/resolver"
)

// App holds the process surfaces commands write to and read from.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the inherited environment. Nil means os.Environ().
	Environ []string

	// ConfigPath is set by the root --config flag.
	ConfigPath string
}

// resolution is satisfied by *resolver.Resolver and
// *resolver.Memoized.
type resolution interface {
	Resolve(name string) resolver.Executable
	SearchPath(inherited string) string
	Platform() platform.Key
	Packaged() bool
	Layout() bundle.Layout
}

// session is everything a command needs after configuration loads.
type session struct {
	config   *config.Config
	logger   *slog.Logger
	table    *bundle.Table
	resolver resolution
	close    func() error
}

func (a *App) stdout() io.Writer {
	if a.Stdout == nil {
		return os.Stdout
	}
	return a.Stdout
}

func (a *App) stderr() io.Writer {
	if a.Stderr == nil {
		return os.Stderr
	}
	return a.Stderr
}

func (a *App) environ() []string {
	if a.Environ == nil {
		return os.Environ()
	}
	return a.Environ
}

// getenv looks name up in the App environment.
func (a *App) getenv(name string) string {
	prefix := name + "="
	for _, pair := range a.environ() {
		if strings.HasPrefix(pair, prefix) {
			return pair[len(prefix):]
		}
	}
	return ""
}

func (a *App) loadConfig() (*config.Config, error) {
	if a.ConfigPath != "" {
		return config.LoadFile(a.ConfigPath)
	}
	return config.Load()
}

// open loads and validates configuration, then builds the logger,
// dependency table, and resolver. The caller must call close.
func (a *App) open() (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		File:   cfg.Paths.LogFile,
		Writer: a.stderr(),
	})
	if err != nil {
		return nil, err
	}

	table, err := cfg.Table()
	if err != nil {
		closeLog()
		return nil, err
	}

	base := resolver.New(resolver.Options{
		Table:             table,
		Layout:            cfg.Layout(),
		Packaged:          cfg.IsPackaged(),
		Logger:            logger,
		MinimumBinarySize: cfg.Resolver.MinimumBinarySize,
	})
	var active resolution = base
	if cfg.Resolver.Memoize {
		memoized, err := resolver.NewMemoized(base, cfg.Resolver.CacheSize)
		if err != nil {
			closeLog()
			return nil, err
		}
		active = memoized
	}

	logger.Debug("configuration loaded",
		"environment", cfg.Environment,
		"packaged", cfg.IsPackaged(),
		"platform", base.Platform(),
		"vendor", cfg.Layout().VendorDir(),
	)
	return &session{
		config:   cfg,
		logger:   logger,
		table:    table,
		resolver: active,
		close:    closeLog,
	}, nil
}

// purge drops memoized resolutions after the bundle changed on disk.
func (s *session) purge() {
	if memoized, ok := s.resolver.(*resolver.Memoized); ok {
		memoized.Purge()
	}
}

func (s *session) prober() *probe.Prober {
	return probe.New(probe.Options{
		Timeout: s.config.ProbeTimeout(),
		Logger:  s.logger,
	})
}
