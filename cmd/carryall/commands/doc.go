// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the carryall command tree.
//
// Every command loads configuration the same way: the root --config
// flag, else CARRYALL_CONFIG, else the built-in development defaults.
// [App] carries the process surfaces (output streams and environment)
// so tests can run the whole tree in-process.
package commands
