// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform derives the platform-arch key used to index the
// vendor dependency table.
//
// A key has the form "{os}-{arch}" using the product's naming rather
// than Go's: Windows is "win32" and amd64 is "x64". Only macOS
// distinguishes architectures. Linux and Windows are always keyed as
// x64 regardless of the reported host architecture; supporting arm64
// builds on those systems requires extending [Derive] and the shipped
// key list together.
//
// Unrecognized operating systems produce a raw "{goos}-{goarch}" key
// that matches no table entry, so lookups fail softly instead of
// panicking.
//
// This package has no Carryall-internal dependencies.
package platform
