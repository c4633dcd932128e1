// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"bytes"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// fakeFile is one entry in a fakeFileSystem. size overrides the
// content length so large binaries need no real bytes.
type fakeFile struct {
	size      int64
	content   []byte
	directory bool
	readErr   error
}

// fakeFileSystem is an in-memory FileSystem that counts calls, so
// tests can assert which operations resolution performed.
type fakeFileSystem struct {
	mu    sync.Mutex
	files map[string]fakeFile
	stats []string
	reads []string
}

func newFakeFileSystem() *fakeFileSystem {
	return &fakeFileSystem{files: make(map[string]fakeFile)}
}

func (f *fakeFileSystem) add(path string, file fakeFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = file
}

func (f *fakeFileSystem) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, name)
	file, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	size := file.size
	if size == 0 {
		size = int64(len(file.content))
	}
	return fakeInfo{name: filepath.Base(name), size: size, directory: file.directory}, nil
}

func (f *fakeFileSystem) ReadFile(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, name)
	file, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if file.readErr != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: file.readErr}
	}
	return bytes.Clone(file.content), nil
}

func (f *fakeFileSystem) calls() (stats, reads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stats), len(f.reads)
}

type fakeInfo struct {
	name      string
	size      int64
	directory bool
}

func (i fakeInfo) Name() string { return i.name }
func (i fakeInfo) Size() int64 { return i.size }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool { return i.directory }
func (i fakeInfo) Sys() any { return nil }

func (i fakeInfo) Mode() fs.FileMode {
	if i.directory {
		return fs.ModeDir | 0755
	}
	return 0755
}

// logCapture returns a debug-level JSON logger writing into a buffer.
func logCapture() (*slog.Logger, *bytes.Buffer) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buffer
}
