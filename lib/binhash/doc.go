// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing for bundled vendor
// binaries.
//
// The staging pipeline records a digest for every vendor executable in
// the bundle manifest. Diagnostics recompute the digest of the file on
// disk and compare, which catches truncated copies and placeholder
// stubs that the size-and-shebang heuristic in the resolver cannot
// distinguish from a tiny legitimate wrapper.
//
// Digests are keyed BLAKE3 hashes in a dedicated domain, so a vendor
// binary digest never collides with a digest computed for some other
// purpose over the same bytes.
//
// The API surface is three functions:
//
//   - [HashFile] -- streams a file through BLAKE3, returning a [Digest]
//     with constant memory usage regardless of file size
//   - [FormatDigest] -- converts a digest to its canonical hex string,
//     the form stored in manifests and printed in reports
//   - [ParseDigest] -- parses a hex string back to a [Digest],
//     validating length and encoding
//
// This package has no dependencies on other Carryall packages.
package binhash
