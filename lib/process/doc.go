// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers that write to stderr
// directly, for failures that happen before a logger exists.
package process
