// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// IsRoot reports whether the process has effective UID 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// ExecuteFixes runs the fix for each fixable failure and updates
// results in place. Dry-run executes nothing.
func ExecuteFixes(ctx context.Context, results []Result, dryRun bool) Outcome {
	if dryRun {
		return Outcome{}
	}

	var outcome Outcome
	root := IsRoot()

	for i := range results {
		if results[i].Status != StatusFail || results[i].fix == nil {
			continue
		}
		if results[i].Elevated && !root {
			outcome.ElevatedSkipped++
			continue
		}
		if err := results[i].fix(ctx); err != nil {
			if isPermissionDenied(err) {
				outcome.PermissionDenied = true
				results[i].Message = fmt.Sprintf("%s (insufficient permissions)", results[i].Message)
			} else {
				results[i].Message = fmt.Sprintf("%s (fix failed: %v)", results[i].Message, err)
			}
			continue
		}
		results[i].Status = StatusFixed
		outcome.FixedCount++
	}
	return outcome
}

func isPermissionDenied(err error) bool {
	// EPERM and EACCES both match fs.ErrPermission.
	return errors.Is(err, fs.ErrPermission)
}

// Failed reports whether any result is still failing.
func Failed(results []Result) bool {
	for _, result := range results {
		if result.Status == StatusFail {
			return true
		}
	}
	return false
}

// BuildOutput assembles the machine-readable document.
func BuildOutput(results []Result, dryRun bool, outcome Outcome) Output {
	return Output{
		Checks:           results,
		OK:               !Failed(results),
		DryRun:           dryRun,
		PermissionDenied: outcome.PermissionDenied,
		ElevatedSkipped:  outcome.ElevatedSkipped,
	}
}

// MarkRepaired promotes results that now pass but failed in an
// earlier run to StatusFixed.
func MarkRepaired(results []Result, repairedNames map[string]bool) {
	for i := range results {
		if results[i].Status == StatusPass && repairedNames[results[i].Name] {
			results[i].Status = StatusFixed
		}
	}
}
