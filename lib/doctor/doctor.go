// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusWarn  Status = "warn"
	StatusSkip  Status = "skip"
	StatusFixed Status = "fixed"
)

// ErrChecksFailed is returned by Checklist.Print when any check is
// still failing after fixes.
var ErrChecksFailed = errors.New("doctor: checks failed")

// FixAction repairs a failed check. Whatever it needs (paths, modes)
// is captured in the closure when the check is built.
type FixAction func(ctx context.Context) error

// Result is the outcome of one check. Fixable failures carry a FixHint
// and an unexported fix function; fixes that need root set Elevated.
type Result struct {
	Name     string `json:"name"               cbor:"name"`
	Status   Status `json:"status"             cbor:"status"`
	Message  string `json:"message"            cbor:"message"`
	FixHint  string `json:"fix_hint,omitempty" cbor:"fix_hint,omitempty"`
	Elevated bool   `json:"elevated,omitempty" cbor:"elevated,omitempty"`
	fix      FixAction
}

// HasFix reports whether this result carries a fix action.
func (r *Result) HasFix() bool {
	return r.fix != nil
}

func Pass(name, message string) Result {
	return Result{Name: name, Status: StatusPass, Message: message}
}

func Fail(name, message string) Result {
	return Result{Name: name, Status: StatusFail, Message: message}
}

// FailWithFix creates a failing result with an automatic fix.
func FailWithFix(name, message, fixHint string, fix FixAction) Result {
	return Result{Name: name, Status: StatusFail, Message: message, FixHint: fixHint, fix: fix}
}

// FailElevated creates a failing result whose fix needs root.
func FailElevated(name, message, fixHint string, fix FixAction) Result {
	return Result{Name: name, Status: StatusFail, Message: message, FixHint: fixHint, Elevated: true, fix: fix}
}

// Warn creates a warning. Warnings never make doctor exit non-zero.
func Warn(name, message string) Result {
	return Result{Name: name, Status: StatusWarn, Message: message}
}

func Skip(name, message string) Result {
	return Result{Name: name, Status: StatusSkip, Message: message}
}

// Outcome aggregates a fix pass.
type Outcome struct {
	FixedCount int

	// PermissionDenied is set if any fix failed with a permission error.
	PermissionDenied bool

	// ElevatedSkipped counts fixes skipped because they need root.
	ElevatedSkipped int
}

// Output is the machine-readable doctor document.
type Output struct {
	Checks           []Result `json:"checks"                      cbor:"checks"`
	OK               bool     `json:"ok"                          cbor:"ok"`
	DryRun           bool     `json:"dry_run,omitempty"           cbor:"dry_run,omitempty"`
	PermissionDenied bool     `json:"permission_denied,omitempty" cbor:"permission_denied,omitempty"`
	ElevatedSkipped  int      `json:"elevated_skipped,omitempty"  cbor:"elevated_skipped,omitempty"`
}
