// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable /bin/sh script with the given body
// to dir/name and returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	content := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("writing script %s: %v", path, err)
	}
	return path
}

// WriteBinary writes size bytes of non-script content to dir/name with
// the given mode and returns its path.
func WriteBinary(t testing.TB, dir, name string, size int, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	content := bytes.Repeat([]byte{0x7f, 'E', 'L', 'F'}, size/4+1)[:size]
	if err := os.WriteFile(path, content, mode); err != nil {
		t.Fatalf("writing binary %s: %v", path, err)
	}
	// WriteFile applies the umask; force the requested bits.
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
	return path
}
