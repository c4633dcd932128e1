// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/platform"
)

// Source says where a resolved executable comes from.
type Source string

const (
	// SourceBundle is a verified file inside the installed bundle.
	SourceBundle Source = "bundle"
	// SourceSystem is the bare command name, left to PATH lookup.
	SourceSystem Source = "system"
	// SourceNone means nothing can be invoked.
	SourceNone Source = "none"
)

// Executable is the answer to "what should I invoke for dependency
// X?". Path is an absolute path for bundle executables and the bare
// command name for system fallbacks. Placeholder is set when a bundle
// file was found but rejected as a stub.
type Executable struct {
	Name        string `json:"name"                  cbor:"name"`
	Path        string `json:"path,omitempty"        cbor:"path,omitempty"`
	Available   bool   `json:"available"             cbor:"available"`
	Placeholder bool   `json:"placeholder,omitempty" cbor:"placeholder,omitempty"`
	Source      Source `json:"source"                cbor:"source"`
}

// Options configures a Resolver. Table is required; every other field
// has a usable zero value.
type Options struct {
	// Table lists the dependencies the application ships.
	Table *bundle.Table

	// Layout locates the installed bundle.
	Layout bundle.Layout

	// Packaged is true for installed builds. In development mode no
	// bundle lookups happen at all.
	Packaged bool

	// Platform overrides the derived platform key. Zero means
	// platform.Current().
	Platform platform.Key

	// Logger receives resolution diagnostics. Nil discards them.
	Logger *slog.Logger

	// FileSystem overrides filesystem access. Nil means the real
	// filesystem.
	FileSystem FileSystem

	// MinimumBinarySize is the size below which a bundle file's
	// content is inspected for the placeholder signature. Zero means
	// DefaultMinimumBinarySize.
	MinimumBinarySize int64
}

// Resolver answers executable and search-path questions for one
// platform and one bundle. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	table             *bundle.Table
	layout            bundle.Layout
	packaged          bool
	platform          platform.Key
	logger            *slog.Logger
	fileSystem        FileSystem
	minimumBinarySize int64
}

// New creates a Resolver. It panics if options.Table is nil, which is
// a wiring mistake rather than a runtime condition.
func New(options Options) *Resolver {
	if options.Table == nil {
		panic("resolver: Options.Table is required")
	}
	resolver := &Resolver{
		table:             options.Table,
		layout:            options.Layout,
		packaged:          options.Packaged,
		platform:          options.Platform,
		logger:            options.Logger,
		fileSystem:        options.FileSystem,
		minimumBinarySize: options.MinimumBinarySize,
	}
	if resolver.platform == "" {
		resolver.platform = platform.Current()
	}
	if resolver.logger == nil {
		resolver.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if resolver.fileSystem == nil {
		resolver.fileSystem = OS()
	}
	if resolver.minimumBinarySize <= 0 {
		resolver.minimumBinarySize = DefaultMinimumBinarySize
	}
	return resolver
}

// Platform returns the key the resolver looks up.
func (r *Resolver) Platform() platform.Key { return r.platform }

// Packaged reports whether bundle lookups are enabled.
func (r *Resolver) Packaged() bool { return r.packaged }

// Layout returns the bundle layout.
func (r *Resolver) Layout() bundle.Layout { return r.layout }

// Resolve returns the executable to invoke for the named dependency.
// It never fails: problems are logged and produce either the system
// fallback or an unavailable result.
func (r *Resolver) Resolve(name string) Executable {
	dependency, ok := r.table.Lookup(name)
	if !ok {
		r.logger.Error("unknown vendor dependency", "dependency", name)
		return unavailable(name)
	}

	if !r.packaged {
		return systemCommand(dependency, false)
	}

	relative, ok := dependency.Path(r.platform)
	if !ok {
		r.logger.Error("no bundle path for platform",
			"dependency", name,
			"platform", r.platform,
		)
		return unavailable(name)
	}

	path := r.layout.ExecutablePath(relative)
	info, err := r.fileSystem.Stat(path)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", path)
	}
	if err != nil {
		if dependency.Preinstalled {
			r.logger.Warn("bundled executable missing, using system command",
				"dependency", name,
				"path", path,
				"command", dependency.Command,
				"error", err,
			)
			return systemCommand(dependency, false)
		}
		r.logger.Warn("bundled executable missing",
			"dependency", name,
			"path", path,
			"error", err,
		)
		return unavailable(name)
	}

	// Only suspiciously small files are read; real binaries
	// short-circuit on size.
	if info.Size() < r.minimumBinarySize {
		content, err := r.fileSystem.ReadFile(path)
		if err != nil {
			r.logger.Warn("cannot inspect bundled executable, using system command",
				"dependency", name,
				"path", path,
				"error", err,
			)
			return systemCommand(dependency, false)
		}
		if IsPlaceholder(content) {
			r.logger.Warn("bundled executable is a placeholder stub, using system command",
				"dependency", name,
				"path", path,
				"size", info.Size(),
			)
			return systemCommand(dependency, true)
		}
	}

	r.logger.Debug("resolved bundled executable",
		"dependency", name,
		"path", path,
	)
	return Executable{
		Name:      name,
		Path:      path,
		Available: true,
		Source:    SourceBundle,
	}
}

func systemCommand(dependency bundle.Dependency, placeholder bool) Executable {
	return Executable{
		Name:        dependency.Name,
		Path:        dependency.Command,
		Available:   true,
		Placeholder: placeholder,
		Source:      SourceSystem,
	}
}

func unavailable(name string) Executable {
	return Executable{Name: name, Source: SourceNone}
}
