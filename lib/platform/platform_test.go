// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
	"testing"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		goos   string
		goarch string
		want   Key
	}{
		{name: "apple silicon", goos: "darwin", goarch: "arm64", want: DarwinARM64},
		{name: "intel mac", goos: "darwin", goarch: "amd64", want: DarwinX64},
		{name: "linux amd64", goos: "linux", goarch: "amd64", want: LinuxX64},
		// Single-arch assumption: linux arm64 still maps to x64.
		{name: "linux arm64", goos: "linux", goarch: "arm64", want: LinuxX64},
		{name: "windows amd64", goos: "windows", goarch: "amd64", want: Win32X64},
		{name: "windows arm64", goos: "windows", goarch: "arm64", want: Win32X64},
		{name: "unrecognized os", goos: "freebsd", goarch: "amd64", want: Key("freebsd-amd64")},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if got := Derive(testCase.goos, testCase.goarch); got != testCase.want {
				t.Errorf("Derive(%q, %q) = %q, want %q", testCase.goos, testCase.goarch, got, testCase.want)
			}
		})
	}
}

func TestCurrentMatchesRuntime(t *testing.T) {
	t.Parallel()

	if got, want := Current(), Derive(runtime.GOOS, runtime.GOARCH); got != want {
		t.Errorf("Current() = %q, want %q", got, want)
	}
}

func TestKeyParts(t *testing.T) {
	t.Parallel()

	if got := Win32X64.OS(); got != "win32" {
		t.Errorf("Win32X64.OS() = %q, want win32", got)
	}
	if got := DarwinARM64.Arch(); got != "arm64" {
		t.Errorf("DarwinARM64.Arch() = %q, want arm64", got)
	}
	if !Win32X64.IsWindows() {
		t.Error("Win32X64 should be Windows")
	}
	if LinuxX64.IsWindows() {
		t.Error("LinuxX64 should not be Windows")
	}
}

func TestListSeparator(t *testing.T) {
	t.Parallel()

	if got := Win32X64.ListSeparator(); got != ";" {
		t.Errorf("Win32X64.ListSeparator() = %q, want ;", got)
	}
	for _, key := range []Key{DarwinARM64, DarwinX64, LinuxX64, Key("plan9-386")} {
		if got := key.ListSeparator(); got != ":" {
			t.Errorf("%s.ListSeparator() = %q, want :", key, got)
		}
	}
}

func TestExecutableSuffix(t *testing.T) {
	t.Parallel()

	if got := Win32X64.ExecutableSuffix(); got != ".exe" {
		t.Errorf("Win32X64.ExecutableSuffix() = %q, want .exe", got)
	}
	if got := DarwinARM64.ExecutableSuffix(); got != "" {
		t.Errorf("DarwinARM64.ExecutableSuffix() = %q, want empty", got)
	}
}

func TestIsShipped(t *testing.T) {
	t.Parallel()

	for _, key := range Shipped {
		if !key.IsShipped() {
			t.Errorf("%s should be shipped", key)
		}
	}
	if Key("freebsd-amd64").IsShipped() {
		t.Error("freebsd-amd64 should not be shipped")
	}
}
