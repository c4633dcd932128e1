// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolver decides which executable to invoke for each vendor
// dependency and builds the search path handed to child processes.
//
// Two questions are answered here:
//
//   - [Resolver.Resolve]: what absolute path (or bare command) should
//     be invoked for dependency X?
//   - [Resolver.SearchPath]: what PATH value makes bundled tools win
//     over system ones?
//
// Both consult the filesystem on every call; nothing is cached unless
// the caller opts into [Memoized]. Both are gated on the packaged flag:
// a development checkout has no bundle, so Resolve returns the bare
// command and SearchPath returns the inherited value untouched.
//
// Nothing in this package returns an error or panics on bad input.
// Every failure (unknown dependency, missing platform mapping, absent
// file, placeholder stub, unreadable file) is logged at the level the
// failure deserves and degrades to a documented fallback. Vendor
// resolution is never the reason the host application fails to start.
//
// # Placeholder detection
//
// Packaging pipelines are themselves tested with tiny shell stubs in
// place of real runtimes. A file smaller than the minimum plausible
// binary size whose content starts with "#!" and contains "echo" is
// treated as such a stub and skipped in favor of the system command.
// This is a heuristic: a legitimate tiny wrapper script with an echo
// in it is misclassified the same way. The bundle manifest (see
// package bundle) is the precise check, used by diagnostics.
package resolver
