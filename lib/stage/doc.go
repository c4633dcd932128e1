// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package stage builds the vendor directory of an application bundle
// from per-platform runtime archives.
//
// The packaging pipeline downloads one archive per dependency and
// platform, named "<dependency>-<platform>.tar" with an optional
// ".zst" (zstd) or ".lz4" (LZ4 frame) suffix. [Extract] unpacks one
// archive into vendor/<dependency>-<platform>/, replacing what was
// there. [Directory] stages every archive in a directory and then
// regenerates the vendor manifest so doctor can verify the result.
// [Pack] produces archives in the same format.
//
// Archive entries must stay inside their destination: absolute names,
// ".." components, and symlinks pointing outside are rejected.
package stage
