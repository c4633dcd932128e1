// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for carryall packages.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// safety valve so tests never block forever on a channel. [Eventually]
// polls a condition for state that changes outside the test's control,
// such as the kernel reaping a killed process.
//
// [WriteScript] and [WriteBinary] build fixture executables: shell
// scripts for probe tests, and opaque files of a chosen size for the
// resolver's placeholder threshold.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
