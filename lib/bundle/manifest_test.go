// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/carryall-dev/carryall/lib/binhash"
	"github.com/carryall-dev/carryall/lib/platform"
)

// writeExecutable creates a file at the layout path for relative.
func writeExecutable(t *testing.T, layout Layout, relative string, content []byte) string {
	t.Helper()
	path := layout.ExecutablePath(relative)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, content, 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestManifestRoundTrip(t *testing.T) {
	layout := Layout{ResourcesRoot: t.TempDir()}
	writeExecutable(t, layout, "bun-linux-x64/bun", []byte("bun binary bytes"))
	writeExecutable(t, layout, "uv-darwin-arm64/uv", []byte("uv binary bytes"))

	built, err := BuildManifest(layout, Default())
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if len(built.Entries) != 2 {
		t.Fatalf("BuildManifest entries = %d, want 2", len(built.Entries))
	}
	if built.Entries[0].Dependency != "bun" || built.Entries[1].Dependency != "uv" {
		t.Errorf("entries not in table order: %+v", built.Entries)
	}

	if err := built.Write(layout); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := LoadManifest(layout)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	entry, ok := loaded.Entry("bun", platform.LinuxX64)
	if !ok {
		t.Fatal("bun linux entry missing after reload")
	}
	if entry.Size != int64(len("bun binary bytes")) {
		t.Errorf("entry size = %d", entry.Size)
	}

	integrity, detail := loaded.Verify("bun", platform.LinuxX64, layout.ExecutablePath("bun-linux-x64/bun"))
	if integrity != IntegrityMatch {
		t.Errorf("Verify = %s (%s), want match", integrity, detail)
	}
}

func TestManifestVerifyDetectsTampering(t *testing.T) {
	layout := Layout{ResourcesRoot: t.TempDir()}
	path := writeExecutable(t, layout, "bun-linux-x64/bun", []byte("original"))

	manifest, err := BuildManifest(layout, Default())
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}

	// Same size, different content: only the digest can catch it.
	if err := os.WriteFile(path, []byte("modified"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if integrity, _ := manifest.Verify("bun", platform.LinuxX64, path); integrity != IntegrityMismatch {
		t.Errorf("Verify after content change = %s, want mismatch", integrity)
	}

	if err := os.WriteFile(path, []byte("longer content"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if integrity, _ := manifest.Verify("bun", platform.LinuxX64, path); integrity != IntegrityMismatch {
		t.Errorf("Verify after size change = %s, want mismatch", integrity)
	}
}

func TestManifestVerifyOutcomes(t *testing.T) {
	layout := Layout{ResourcesRoot: t.TempDir()}
	bunPath := layout.ExecutablePath("bun-linux-x64/bun")

	var missing *Manifest
	if integrity, _ := missing.Verify("bun", platform.LinuxX64, bunPath); integrity != IntegrityNoManifest {
		t.Errorf("nil manifest Verify = %s, want no-manifest", integrity)
	}

	empty := &Manifest{Version: manifestVersion}
	if integrity, _ := empty.Verify("bun", platform.LinuxX64, bunPath); integrity != IntegrityUnlisted {
		t.Errorf("empty manifest Verify = %s, want unlisted", integrity)
	}

	listed := &Manifest{Version: manifestVersion, Entries: []ManifestEntry{{
		Dependency: "bun", Platform: platform.LinuxX64, Path: "bun-linux-x64/bun", Size: 1, Digest: "00",
	}}}
	if integrity, _ := listed.Verify("bun", platform.LinuxX64, bunPath); integrity != IntegrityError {
		t.Errorf("Verify with file absent = %s, want error", integrity)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(Layout{ResourcesRoot: t.TempDir()})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadManifest error = %v, want fs.ErrNotExist", err)
	}
}

func TestParseManifestAcceptsComments(t *testing.T) {
	data := []byte(`// hand annotated
{
  "version": 1,
  /* bun only for now */
  "entries": [
    {"dependency": "bun", "platform": "linux-x64", "path": "bun-linux-x64/bun", "size": 3, "digest": "ab",},
  ],
}`)
	manifest, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, ok := manifest.Entry("bun", platform.LinuxX64); !ok {
		t.Error("bun entry missing")
	}
}

func TestParseManifestRejectsUnknownVersion(t *testing.T) {
	if _, err := ParseManifest([]byte(`{"version": 7, "entries": []}`)); err == nil {
		t.Error("expected error for unknown manifest version")
	}
}

func TestManifestVerifyHashesResolvedPath(t *testing.T) {
	layout := Layout{ResourcesRoot: t.TempDir()}
	resolved := writeExecutable(t, layout, "bun-linux-x64/bun", []byte("tampered"))
	decoy := writeExecutable(t, layout, "decoy/bun", []byte("original"))
	digest, err := binhash.HashFile(decoy)
	if err != nil {
		t.Fatal(err)
	}

	// The entry points at an untouched copy; the file actually run has
	// the same size but different bytes.
	manifest := &Manifest{Version: manifestVersion, Entries: []ManifestEntry{{
		Dependency: "bun",
		Platform:   platform.LinuxX64,
		Path:       "decoy/bun",
		Size:       int64(len("original")),
		Digest:     digest.String(),
	}}}
	if integrity, _ := manifest.Verify("bun", platform.LinuxX64, resolved); integrity != IntegrityMismatch {
		t.Errorf("Verify of resolved file = %s, want mismatch", integrity)
	}
	if integrity, detail := manifest.Verify("bun", platform.LinuxX64, decoy); integrity != IntegrityMatch {
		t.Errorf("Verify of decoy = %s (%s), want match", integrity, detail)
	}
}

func TestParseManifestRejectsEscapingPaths(t *testing.T) {
	for _, path := range []string{"../../etc/passwd", "bun-linux-x64/../../x", "/usr/bin/bun", ""} {
		data := []byte(`{"version": 1, "entries": [{"dependency": "bun", "platform": "linux-x64", "path": "` + path + `", "size": 1, "digest": "ab"}]}`)
		if _, err := ParseManifest(data); err == nil {
			t.Errorf("ParseManifest accepted entry path %q", path)
		}
	}
}
