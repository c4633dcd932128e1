// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build information for the carryall binary.
//
// Four variables are injected at build time via -ldflags -X:
//
//   - [GitCommit]: short git SHA of the build
//   - [GitDirty]: "true" if there were uncommitted changes
//   - [BuildTime]: UTC timestamp of the build
//   - [Version]: semantic version (set manually for releases)
//
// They default to "unknown" / "0.1.0-dev" in development builds and
// tests. [Current] gathers them, with the platform key and the BLAKE3
// digest of the running binary, into one reportable value.
package version
