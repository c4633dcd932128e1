// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import "bytes"

// DefaultMinimumBinarySize is the smallest file treated as a real
// runtime without looking at its content. Real runtimes are megabytes;
// placeholder stubs are tens of bytes.
const DefaultMinimumBinarySize = 1024

var (
	shebang    = []byte("#!")
	echoMarker = []byte("echo")
)

// IsPlaceholder reports whether content looks like a shell-script stub
// standing in for a real binary: a shebang first line and an echo
// somewhere in the body.
func IsPlaceholder(content []byte) bool {
	return bytes.HasPrefix(content, shebang) && bytes.Contains(content, echoMarker)
}
