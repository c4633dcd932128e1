// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/carryall-dev/carryall/lib/platform"
	"github.com/carryall-dev/carryall/lib/resolver"
)

// DefaultRuntimes is the runtime preference order when none is
// configured.
var DefaultRuntimes = []string{"bun"}

// Hint is an environment variable set for the child when a dependency
// resolves.
type Hint struct {
	Dependency string
	Variable   string
	Value      string
}

// DefaultHints tells uv to prefer an already installed Python over
// downloading its own.
var DefaultHints = []Hint{
	{Dependency: "uv", Variable: "UV_PYTHON_PREFERENCE", Value: "system"},
}

// Resolver is the resolution surface Build needs.
type Resolver interface {
	Resolve(name string) resolver.Executable
	SearchPath(inherited string) string
	Platform() platform.Key
}

// Inputs configure Build.
type Inputs struct {
	Resolver Resolver

	// Runtimes is the preference order for the executable override.
	// Nil means DefaultRuntimes.
	Runtimes []string

	// Hints are applied in order. Nil means DefaultHints.
	Hints []Hint

	// BaseEnv is the inherited environment as KEY=VALUE pairs.
	BaseEnv []string

	// EnvFile, if set, is a dotenv file merged into the environment
	// after hints. Its values win.
	EnvFile string

	Logger *slog.Logger
}

// Options is what the SDK receives.
type Options struct {
	// Executable is the runtime to spawn. Empty means no override.
	Executable string `json:"executable,omitempty" cbor:"executable,omitempty"`

	// Runtime names the dependency Executable was resolved from.
	Runtime string `json:"runtime,omitempty" cbor:"runtime,omitempty"`

	// Env is the complete child environment as KEY=VALUE pairs.
	Env []string `json:"env" cbor:"env"`

	// Hints lists the variables added on top of the inherited
	// environment, for display.
	Hints map[string]string `json:"hints,omitempty" cbor:"hints,omitempty"`
}

// Build computes the launch options.
func Build(inputs Inputs) Options {
	logger := inputs.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	runtimes := inputs.Runtimes
	if runtimes == nil {
		runtimes = DefaultRuntimes
	}
	hints := inputs.Hints
	if hints == nil {
		hints = DefaultHints
	}

	key := inputs.Resolver.Platform()
	env := newEnvironment(inputs.BaseEnv, key.IsWindows())
	var options Options

	for _, name := range runtimes {
		executable := inputs.Resolver.Resolve(name)
		if executable.Available {
			options.Executable = executable.Path
			options.Runtime = name
			break
		}
	}
	if options.Executable == "" {
		logger.Warn("no runtime available, SDK keeps its default", "runtimes", runtimes)
	}

	inherited, _ := env.get("PATH")
	if searchPath := inputs.Resolver.SearchPath(inherited); searchPath != "" {
		env.set("PATH", searchPath)
	}

	resolved := map[string]bool{}
	for _, hint := range hints {
		available, seen := resolved[hint.Dependency]
		if !seen {
			available = inputs.Resolver.Resolve(hint.Dependency).Available
			resolved[hint.Dependency] = available
		}
		if !available {
			continue
		}
		env.set(hint.Variable, hint.Value)
		if options.Hints == nil {
			options.Hints = map[string]string{}
		}
		options.Hints[hint.Variable] = hint.Value
	}

	if inputs.EnvFile != "" {
		values, err := godotenv.Read(inputs.EnvFile)
		if err != nil {
			logger.Warn("ignoring unreadable env file", "path", inputs.EnvFile, "error", err)
		} else {
			for _, name := range slices.Sorted(maps.Keys(values)) {
				env.set(name, values[name])
			}
			logger.Debug("merged env file", "path", inputs.EnvFile, "variables", len(values))
		}
	}

	options.Env = env.pairs()
	return options
}

// environment is an ordered KEY=VALUE list. Names compare
// case-insensitively on Windows, where "Path" and "PATH" are the same
// variable.
type environment struct {
	entries  []string
	foldCase bool
}

func newEnvironment(base []string, foldCase bool) *environment {
	return &environment{entries: slices.Clone(base), foldCase: foldCase}
}

func (e *environment) index(name string) int {
	for i, entry := range e.entries {
		existing, _, _ := strings.Cut(entry, "=")
		if existing == name || (e.foldCase && strings.EqualFold(existing, name)) {
			return i
		}
	}
	return -1
}

func (e *environment) get(name string) (string, bool) {
	i := e.index(name)
	if i < 0 {
		return "", false
	}
	_, value, _ := strings.Cut(e.entries[i], "=")
	return value, true
}

// set replaces an existing variable in place, keeping its original
// name spelling, or appends a new one.
func (e *environment) set(name, value string) {
	i := e.index(name)
	if i < 0 {
		e.entries = append(e.entries, name+"="+value)
		return
	}
	existing, _, _ := strings.Cut(e.entries[i], "=")
	e.entries[i] = existing + "=" + value
}

func (e *environment) pairs() []string {
	if e.entries == nil {
		return []string{}
	}
	return e.entries
}
