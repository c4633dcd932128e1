// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"os"
	"sync"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/platform"
	"github.com/carryall-dev/carryall/lib/probe"
	"github.com/carryall-dev/carryall/lib/resolver"
)

// Resolver is the resolution surface a report needs. Both
// *resolver.Resolver and *resolver.Memoized satisfy it.
type Resolver interface {
	Resolve(name string) resolver.Executable
	Platform() platform.Key
	Packaged() bool
	Layout() bundle.Layout
}

// Prober runs a liveness probe.
type Prober interface {
	Check(ctx context.Context, executable string) probe.Result
}

// Inputs are the collaborators of Build.
type Inputs struct {
	Resolver Resolver
	Prober   Prober
	Table    *bundle.Table

	// Manifest is the loaded vendor manifest, or nil when the bundle
	// has none. Only consulted for packaged builds.
	Manifest *bundle.Manifest
}

// Dependency is one row of the report.
type Dependency struct {
	Name        string          `json:"name"                  cbor:"name"`
	Path        string          `json:"path,omitempty"        cbor:"path,omitempty"`
	Resolved    bool            `json:"resolved"              cbor:"resolved"`
	Live        bool            `json:"live"                  cbor:"live"`
	Placeholder bool            `json:"placeholder,omitempty" cbor:"placeholder,omitempty"`
	Source      resolver.Source `json:"source"                cbor:"source"`
	Detail      string          `json:"detail,omitempty"      cbor:"detail,omitempty"`

	// Integrity is the manifest check for a bundled file. Empty in
	// development mode and when no bundle file was found.
	Integrity       bundle.Integrity `json:"integrity,omitempty"        cbor:"integrity,omitempty"`
	IntegrityDetail string           `json:"integrity_detail,omitempty" cbor:"integrity_detail,omitempty"`

	// NotExecutable is set when the bundled file exists but has no
	// execute permission bits.
	NotExecutable bool `json:"not_executable,omitempty" cbor:"not_executable,omitempty"`
}

// Available reports whether the dependency can actually be used:
// it resolved and it ran.
func (d Dependency) Available() bool {
	return d.Resolved && d.Live
}

// Report is a point-in-time validation of every vendor dependency.
type Report struct {
	Platform     platform.Key `json:"platform"           cbor:"platform"`
	Packaged     bool         `json:"packaged"           cbor:"packaged"`
	Dependencies []Dependency `json:"dependencies"       cbor:"dependencies"`
	// Warnings lists table entries missing a path for a shipped
	// platform.
	Warnings []string `json:"warnings,omitempty" cbor:"warnings,omitempty"`
}

// Lookup returns the row for name.
func (r Report) Lookup(name string) (Dependency, bool) {
	for _, dependency := range r.Dependencies {
		if dependency.Name == name {
			return dependency, true
		}
	}
	return Dependency{}, false
}

// Build resolves and probes every dependency in inputs.Table.
func Build(ctx context.Context, inputs Inputs) Report {
	report := Report{
		Platform: inputs.Resolver.Platform(),
		Packaged: inputs.Resolver.Packaged(),
	}
	for _, problem := range inputs.Table.Validate(platform.Shipped) {
		report.Warnings = append(report.Warnings, problem.Error())
	}

	names := inputs.Table.Names()
	report.Dependencies = make([]Dependency, len(names))

	var group sync.WaitGroup
	for i, name := range names {
		group.Add(1)
		go func() {
			defer group.Done()
			report.Dependencies[i] = check(ctx, inputs, report.Packaged, name)
		}()
	}
	group.Wait()
	return report
}

func check(ctx context.Context, inputs Inputs, packaged bool, name string) Dependency {
	executable := inputs.Resolver.Resolve(name)
	row := Dependency{
		Name:        name,
		Path:        executable.Path,
		Resolved:    executable.Available,
		Placeholder: executable.Placeholder,
		Source:      executable.Source,
	}

	if executable.Available {
		result := inputs.Prober.Check(ctx, executable.Path)
		row.Live = result.Live
		row.Detail = result.Detail
	} else {
		row.Detail = "no executable resolved"
	}

	// A bundle file was found when the path is bundled or when a stub
	// was rejected in favor of the system command.
	if packaged && (executable.Source == resolver.SourceBundle || executable.Placeholder) {
		key := inputs.Resolver.Platform()
		path := executable.Path
		if executable.Source != resolver.SourceBundle {
			path = bundlePath(inputs, name, key)
		}
		row.Integrity, row.IntegrityDetail = inputs.Manifest.Verify(name, key, path)
		if executable.Source == resolver.SourceBundle && !key.IsWindows() {
			if info, err := os.Stat(executable.Path); err == nil && info.Mode().Perm()&0o111 == 0 {
				row.NotExecutable = true
			}
		}
	}
	return row
}

// bundlePath is where the table places name's executable for key. A
// placeholder row carries only the bare command as its path.
func bundlePath(inputs Inputs, name string, key platform.Key) string {
	dependency, ok := inputs.Table.Lookup(name)
	if !ok {
		return ""
	}
	relative, ok := dependency.Path(key)
	if !ok {
		return ""
	}
	return inputs.Resolver.Layout().ExecutablePath(relative)
}
