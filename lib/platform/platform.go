// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
	"strings"
)

// Key identifies a platform-architecture combination, e.g.
// "darwin-arm64" or "win32-x64".
type Key string

// Keys the product ships bundles for.
const (
	DarwinARM64 Key = "darwin-arm64"
	DarwinX64   Key = "darwin-x64"
	LinuxX64    Key = "linux-x64"
	Win32X64    Key = "win32-x64"
)

// Shipped lists every key a release bundle is built for, in the order
// release artifacts are produced.
var Shipped = []Key{DarwinARM64, DarwinX64, LinuxX64, Win32X64}

// Derive computes the key for the given Go OS and architecture names.
func Derive(goos, goarch string) Key {
	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return DarwinARM64
		}
		return DarwinX64
	case "linux":
		return LinuxX64
	case "windows":
		return Win32X64
	default:
		return Key(goos + "-" + goarch)
	}
}

// Current returns the key for the running process.
func Current() Key {
	return Derive(runtime.GOOS, runtime.GOARCH)
}

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// OS returns the operating-system half of the key ("darwin", "win32",
// "linux", or the raw Go name for unrecognized systems).
func (k Key) OS() string {
	osName, _, _ := strings.Cut(string(k), "-")
	return osName
}

// Arch returns the architecture half of the key.
func (k Key) Arch() string {
	_, arch, _ := strings.Cut(string(k), "-")
	return arch
}

// IsWindows reports whether the key names the Windows family.
func (k Key) IsWindows() bool {
	return k.OS() == "win32"
}

// IsShipped reports whether the key is one the product builds bundles
// for.
func (k Key) IsShipped() bool {
	for _, shipped := range Shipped {
		if shipped == k {
			return true
		}
	}
	return false
}

// ListSeparator returns the separator for search-path style lists on
// the key's operating system.
func (k Key) ListSeparator() string {
	if k.IsWindows() {
		return ";"
	}
	return ":"
}

// ExecutableSuffix returns ".exe" for Windows keys and "" otherwise.
func (k Key) ExecutableSuffix() string {
	if k.IsWindows() {
		return ".exe"
	}
	return ""
}
