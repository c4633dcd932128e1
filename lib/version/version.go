// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"
	"runtime"

	"github.com/carryall-dev/carryall/lib/binhash"
	"github.com/carryall-dev/carryall/lib/platform"
)

// Set via -ldflags, for example:
//
//	go build -ldflags "-X github.com/carryall-dev/carryall/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// Info returns the one-line form used for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Build describes the running binary.
type Build struct {
	Version   string       `json:"version"          cbor:"version"`
	Commit    string       `json:"commit"           cbor:"commit"`
	Dirty     bool         `json:"dirty,omitempty"  cbor:"dirty,omitempty"`
	BuildTime string       `json:"build_time"       cbor:"build_time"`
	GoVersion string       `json:"go_version"       cbor:"go_version"`
	GOOS      string       `json:"goos"             cbor:"goos"`
	GOARCH    string       `json:"goarch"           cbor:"goarch"`
	Platform  platform.Key `json:"platform"         cbor:"platform"`
	Binary    string       `json:"binary,omitempty" cbor:"binary,omitempty"`
	Digest    string       `json:"digest,omitempty" cbor:"digest,omitempty"`
}

// Current returns the build information of the running process.
// Binary and Digest are left empty if the executable cannot be read.
func Current() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		Platform:  platform.Current(),
	}
	if binary, digest, err := SelfDigest(); err == nil {
		build.Binary = binary
		build.Digest = digest
	}
	return build
}

// SelfDigest hashes the running executable. Two installs report the
// same digest exactly when they run the same binary.
func SelfDigest() (binary, digest string, err error) {
	binary, err = os.Executable()
	if err != nil {
		return "", "", fmt.Errorf("locating executable: %w", err)
	}
	sum, err := binhash.HashFile(binary)
	if err != nil {
		return "", "", err
	}
	return binary, binhash.FormatDigest(sum), nil
}

// Full returns Info plus toolchain and platform details.
func (b Build) Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s (%s)",
		Info(), b.GoVersion, b.GOOS, b.GOARCH, b.Platform)
}
