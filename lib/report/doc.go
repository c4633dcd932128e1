// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package report aggregates resolution and liveness into a single
// read-only validation report.
//
// For every dependency in the table, [Build] resolves the executable
// and, when resolution produced something invocable, probes it.
// Probes run concurrently; the report keeps table order. In a
// packaged build each bundled file is also checked against the vendor
// manifest. A report describes the system; nothing in carryall makes
// decisions from one.
package report
