// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"os"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/doctor"
	"github.com/carryall-dev/carryall/lib/resolver"
)

// ExecutableMode is applied by the not-executable fix.
const ExecutableMode os.FileMode = 0o755

// Checks turns the report into doctor results: one for the table
// itself, then one per dependency in table order.
func (r Report) Checks() []doctor.Result {
	results := make([]doctor.Result, 0, len(r.Dependencies)+1)

	tableName := "dependency table"
	if len(r.Warnings) == 0 {
		results = append(results, doctor.Pass(tableName, fmt.Sprintf("%d dependencies mapped for every shipped platform", len(r.Dependencies))))
	} else {
		for _, warning := range r.Warnings {
			results = append(results, doctor.Warn(tableName, warning))
		}
	}

	for _, dependency := range r.Dependencies {
		results = append(results, dependency.check(r.Packaged))
	}
	return results
}

func (d Dependency) checkName() string {
	return "vendor " + d.Name
}

func (d Dependency) check(packaged bool) doctor.Result {
	name := d.checkName()

	if !d.Resolved {
		return doctor.Fail(name, "not available: "+d.Detail)
	}

	if !d.Live {
		if d.NotExecutable {
			return notExecutable(name, d.Path)
		}
		return doctor.Fail(name, fmt.Sprintf("%s does not run: %s", d.Path, d.Detail))
	}

	switch {
	case !packaged:
		return doctor.Pass(name, fmt.Sprintf("development mode, using %s from PATH", d.Path))
	case d.Placeholder:
		return doctor.Warn(name, fmt.Sprintf("bundled copy is a placeholder stub, using system %s", d.Path))
	case d.Source == resolver.SourceSystem:
		return doctor.Warn(name, fmt.Sprintf("not bundled, using system %s", d.Path))
	case d.Integrity == bundle.IntegrityMismatch:
		return doctor.Warn(name, fmt.Sprintf("%s runs but differs from the manifest: %s", d.Path, d.IntegrityDetail))
	case d.Integrity == bundle.IntegrityMatch:
		return doctor.Pass(name, fmt.Sprintf("%s (manifest verified)", d.Path))
	default:
		return doctor.Pass(name, d.Path)
	}
}

// notExecutable builds the chmod fix. The fix needs root when the
// file belongs to someone else, as in a system-wide install.
func notExecutable(name, path string) doctor.Result {
	message := path + " is not executable"
	hint := fmt.Sprintf("chmod %o %s", ExecutableMode, path)
	fix := func(context.Context) error {
		return os.Chmod(path, ExecutableMode)
	}
	if ownedByOther(path) {
		return doctor.FailElevated(name, message, hint, fix)
	}
	return doctor.FailWithFix(name, message, hint, fix)
}
