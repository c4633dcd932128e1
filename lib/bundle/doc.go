// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle describes which vendor executables the application
// ships and where they live inside an installed bundle.
//
// The description is data, not code: a [Table] of [Dependency] values,
// each mapping a [platform.Key] to a path relative to the bundle's
// vendor directory. Adding a platform is a table edit. Tables are
// immutable once built; every accessor returns copies, so a table can
// be shared by the resolver, the launcher, and diagnostics without
// locking.
//
// On disk a bundle looks like:
//
//	<resources>/<unpacked>/vendor/<dep>-<platform>/<command>[.exe]
//	<resources>/<unpacked>/vendor/manifest.jsonc
//
// [Layout] computes those paths. The manifest, written by the staging
// pipeline, records the size and BLAKE3 digest of every staged
// executable. Only diagnostics read it; the resolver fast path never
// hashes files.
package bundle
