// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package probe checks that an executable actually runs.
//
// The resolver's placeholder detection is a static look at file
// content. A probe is the dynamic counterpart: spawn the candidate with
// --version, discard its output, and call it live if it exits with
// status zero before a fixed timeout. Spawn failures, non-zero exits,
// and timeouts all classify as not live. A probe never returns an
// error and never retries.
//
// Probes are diagnostic only. Nothing on the startup path waits for
// one; the search path and resolver stay fast and side-effect free.
//
// On unix the candidate runs in its own process group, and the timeout
// path kills the whole group so a wrapper script cannot leave its
// children behind. Termination is idempotent: killing a process that
// already exited is not an error, and the child is always reaped
// before Check returns.
package probe
