// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor is the check-and-repair workflow behind
// "carryall doctor".
//
// A check produces a [Result]: pass, warn, fail, or skip, with an
// optional fix closure. [ExecuteFixes] runs the closures in --fix mode,
// skipping fixes that need root when the process lacks it.
// [PrintChecklist] renders a colored checklist and [BuildJSON] the
// machine-readable form. What to check lives with the caller (see
// lib/report); this package is only the workflow.
package doctor
