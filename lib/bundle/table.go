// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"errors"
	"fmt"
	"maps"

	"github.com/carryall-dev/carryall/lib/platform"
)

// Dependency describes one vendor executable.
type Dependency struct {
	// Name identifies the dependency in the table (e.g., "bun").
	Name string `yaml:"name"`

	// Command is the logical executable name used when falling back
	// to the system copy, and in development mode.
	Command string `yaml:"command"`

	// Preinstalled marks tools commonly present on user machines. When
	// the bundled copy is missing, resolution falls back to Command
	// instead of reporting the dependency unavailable.
	Preinstalled bool `yaml:"preinstalled"`

	// Paths maps a platform key to the executable path relative to the
	// bundle's vendor directory, slash-separated.
	Paths map[platform.Key]string `yaml:"paths"`
}

// Path returns the relative bundle path for key.
func (d Dependency) Path(key platform.Key) (string, bool) {
	relative, ok := d.Paths[key]
	return relative, ok && relative != ""
}

func (d Dependency) clone() Dependency {
	d.Paths = maps.Clone(d.Paths)
	return d
}

// Table is an immutable, declaration-ordered set of dependencies.
type Table struct {
	dependencies []Dependency
	index        map[string]int
}

// NewTable builds a table from dependencies in declaration order.
// Empty or duplicate names and empty commands are rejected: they are
// programming errors in the table definition, not runtime conditions.
func NewTable(dependencies ...Dependency) (*Table, error) {
	table := &Table{index: make(map[string]int, len(dependencies))}
	var errs []error
	for _, dependency := range dependencies {
		if dependency.Name == "" {
			errs = append(errs, errors.New("dependency with empty name"))
			continue
		}
		if dependency.Command == "" {
			errs = append(errs, fmt.Errorf("dependency %q has no command", dependency.Name))
			continue
		}
		if _, exists := table.index[dependency.Name]; exists {
			errs = append(errs, fmt.Errorf("dependency %q declared twice", dependency.Name))
			continue
		}
		table.index[dependency.Name] = len(table.dependencies)
		table.dependencies = append(table.dependencies, dependency.clone())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return table, nil
}

// Lookup returns a copy of the named dependency.
func (t *Table) Lookup(name string) (Dependency, bool) {
	position, ok := t.index[name]
	if !ok {
		return Dependency{}, false
	}
	return t.dependencies[position].clone(), true
}

// Dependencies returns copies of all dependencies in declaration
// order.
func (t *Table) Dependencies() []Dependency {
	result := make([]Dependency, len(t.dependencies))
	for i, dependency := range t.dependencies {
		result[i] = dependency.clone()
	}
	return result
}

// Names returns dependency names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.dependencies))
	for i, dependency := range t.dependencies {
		names[i] = dependency.Name
	}
	return names
}

// Len returns the number of dependencies.
func (t *Table) Len() int {
	return len(t.dependencies)
}

// Validate reports every dependency missing a path for one of keys.
// The result is a list of warnings; a gap only makes that dependency
// unavailable on that platform.
func (t *Table) Validate(keys []platform.Key) []error {
	var problems []error
	for _, dependency := range t.dependencies {
		for _, key := range keys {
			if _, ok := dependency.Path(key); !ok {
				problems = append(problems, fmt.Errorf("dependency %q has no bundle path for %s", dependency.Name, key))
			}
		}
	}
	return problems
}

// Default returns the built-in table: the bun script runtime, which
// is commonly installed and may fall back to the system copy, and the
// uv Python environment manager, which may not.
func Default() *Table {
	table, err := NewTable(
		Dependency{
			Name:         "bun",
			Command:      "bun",
			Preinstalled: true,
			Paths:        shippedPaths("bun", "bun"),
		},
		Dependency{
			Name:    "uv",
			Command: "uv",
			Paths:   shippedPaths("uv", "uv"),
		},
	)
	if err != nil {
		panic("bundle: built-in table is invalid: " + err.Error())
	}
	return table
}

// shippedPaths builds the conventional "<dep>-<key>/<command>" mapping
// for every shipped key.
func shippedPaths(name, command string) map[platform.Key]string {
	paths := make(map[platform.Key]string, len(platform.Shipped))
	for _, key := range platform.Shipped {
		paths[key] = DirectoryName(name, key) + "/" + command + key.ExecutableSuffix()
	}
	return paths
}

// DirectoryName returns the per-platform directory name for a
// dependency inside the vendor directory, e.g. "bun-darwin-arm64".
func DirectoryName(name string, key platform.Key) string {
	return name + "-" + key.String()
}
