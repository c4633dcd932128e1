// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"io/fs"
	"os"
)

// FileSystem is the subset of filesystem access the resolver needs.
// Paths are absolute host paths.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OS returns a FileSystem backed by the os package.
func OS() FileSystem { return osFileSystem{} }

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
