// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/platform"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseArchiveName(t *testing.T) {
	tests := []struct {
		name    string
		want    Archive
		wantErr bool
	}{
		{"bun-darwin-arm64.tar.zst", Archive{"bun", platform.DarwinARM64, CompressionZstd}, false},
		{"/tmp/uv-linux-x64.tar.lz4", Archive{"uv", platform.LinuxX64, CompressionLZ4}, false},
		{"uv-win32-x64.tar", Archive{"uv", platform.Win32X64, CompressionNone}, false},
		{"python-build-darwin-x64.tar.zst", Archive{"python-build", platform.DarwinX64, CompressionZstd}, false},
		{"bun-freebsd-amd64.tar.zst", Archive{}, true},
		{"-linux-x64.tar", Archive{}, true},
		{"bun-linux-x64.zip", Archive{}, true},
		{"README.md", Archive{}, true},
	}
	for _, test := range tests {
		got, err := ParseArchiveName(test.name)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseArchiveName(%q) error = %v, wantErr %v", test.name, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseArchiveName(%q) = %+v, want %+v", test.name, got, test.want)
		}
		if !test.wantErr && filepath.Base(test.name) != got.Name() {
			t.Errorf("Name() = %q, want %q", got.Name(), filepath.Base(test.name))
		}
	}
}

// writeTree creates a runtime tree: an executable and a data file.
func writeTree(t *testing.T, command string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, command), bytes.Repeat([]byte("binary"), 400), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib", "data.txt"), []byte("data\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("lib/data.txt", filepath.Join(dir, "data-link")); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestPackExtractRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			source := writeTree(t, "bun")
			archive := Archive{Dependency: "bun", Platform: platform.LinuxX64, Compression: compression}
			archivePath := filepath.Join(t.TempDir(), archive.Name())
			if err := Pack(context.Background(), source, archivePath); err != nil {
				t.Fatalf("Pack: %v", err)
			}

			layout := bundle.Layout{ResourcesRoot: t.TempDir()}
			staged, err := Extract(context.Background(), archivePath, layout, discardLogger())
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if staged.Files != 2 {
				t.Errorf("Files = %d, want 2", staged.Files)
			}
			if staged.Directory != layout.DependencyDir("bun", platform.LinuxX64) {
				t.Errorf("Directory = %q", staged.Directory)
			}

			info, err := os.Stat(filepath.Join(staged.Directory, "bun"))
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != 0o755 {
				t.Errorf("executable mode = %v, want 0755", info.Mode().Perm())
			}
			link, err := os.Readlink(filepath.Join(staged.Directory, "data-link"))
			if err != nil || link != "lib/data.txt" {
				t.Errorf("symlink = %q, %v", link, err)
			}
			data, err := os.ReadFile(filepath.Join(staged.Directory, "data-link"))
			if err != nil || string(data) != "data\n" {
				t.Errorf("data via symlink = %q, %v", data, err)
			}
		})
	}
}

func TestPackDeterministic(t *testing.T) {
	source := writeTree(t, "uv")
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "uv-linux-x64.tar.zst")
	second := filepath.Join(dir, "b", "uv-linux-x64.tar.zst")
	for _, path := range []string{first, second} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := Pack(context.Background(), source, path); err != nil {
			t.Fatal(err)
		}
	}
	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Error("packing the same tree twice produced different archives")
	}
}

func TestExtractReplacesPreviousContents(t *testing.T) {
	layout := bundle.Layout{ResourcesRoot: t.TempDir()}
	stale := filepath.Join(layout.DependencyDir("bun", platform.LinuxX64), "stale")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "bun-linux-x64.tar")
	if err := Pack(context.Background(), writeTree(t, "bun"), archivePath); err != nil {
		t.Fatal(err)
	}
	if _, err := Extract(context.Background(), archivePath, layout, discardLogger()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived extraction: %v", err)
	}
}

// writeRawTar builds a tar with hand-written headers, for entries Pack
// would never produce.
func writeRawTar(t *testing.T, path string, headers ...*tar.Header) {
	t.Helper()
	var buffer bytes.Buffer
	writer := tar.NewWriter(&buffer)
	for _, header := range headers {
		if header.Typeflag == tar.TypeReg {
			header.Size = int64(len("x"))
		}
		if err := writer.WriteHeader(header); err != nil {
			t.Fatal(err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := writer.Write([]byte("x")); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractRejectsEscapes(t *testing.T) {
	tests := []struct {
		name    string
		headers []*tar.Header
	}{
		{"parent traversal", []*tar.Header{{Name: "../evil", Typeflag: tar.TypeReg, Mode: 0o644}}},
		{"nested traversal", []*tar.Header{{Name: "bin/../../evil", Typeflag: tar.TypeReg, Mode: 0o644}}},
		{"absolute", []*tar.Header{{Name: "/etc/evil", Typeflag: tar.TypeReg, Mode: 0o644}}},
		{"absolute symlink", []*tar.Header{{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"}}},
		{"escaping symlink", []*tar.Header{{Name: "bin/link", Typeflag: tar.TypeSymlink, Linkname: "../../outside"}}},
		{"chained symlinks", []*tar.Header{
			{Name: "a", Typeflag: tar.TypeSymlink, Linkname: "."},
			{Name: "a/e", Typeflag: tar.TypeSymlink, Linkname: ".."},
			{Name: "e/evil", Typeflag: tar.TypeReg, Mode: 0o644},
		}},
		{"device", []*tar.Header{{Name: "dev", Typeflag: tar.TypeChar}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root := t.TempDir()
			layout := bundle.Layout{ResourcesRoot: filepath.Join(root, "resources")}
			archivePath := filepath.Join(root, "uv-linux-x64.tar")
			writeRawTar(t, archivePath, test.headers...)

			if _, err := Extract(context.Background(), archivePath, layout, discardLogger()); err == nil {
				t.Fatal("Extract accepted a hostile entry")
			}
			destination := layout.DependencyDir("uv", platform.LinuxX64)
			for _, outside := range []string{
				filepath.Join(root, "evil"),
				filepath.Join(filepath.Dir(destination), "evil"),
			} {
				if _, err := os.Lstat(outside); !os.IsNotExist(err) {
					t.Errorf("hostile entry written outside the destination at %s", outside)
				}
			}
			if _, err := os.Stat(destination); !os.IsNotExist(err) {
				t.Error("failed extraction left a destination directory")
			}
		})
	}
}

func TestExtractCancelled(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "bun-linux-x64.tar.lz4")
	if err := Pack(context.Background(), writeTree(t, "bun"), archivePath); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Extract(ctx, archivePath, bundle.Layout{ResourcesRoot: t.TempDir()}, discardLogger())
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("Extract with cancelled context = %v", err)
	}
}

func TestDirectory(t *testing.T) {
	archives := t.TempDir()
	for _, name := range []string{"bun-linux-x64.tar.zst", "uv-linux-x64.tar.lz4", "node-linux-x64.tar"} {
		command := strings.SplitN(name, "-", 2)[0]
		if err := Pack(context.Background(), writeTree(t, command), filepath.Join(archives, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(archives, "SHA256SUMS"), []byte("ignored\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	layout := bundle.Layout{ResourcesRoot: t.TempDir()}
	table := bundle.Default()
	result, err := Directory(context.Background(), archives, layout, table, discardLogger())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}

	if len(result.Staged) != 2 || result.Staged[0].Dependency != "bun" || result.Staged[1].Dependency != "uv" {
		t.Errorf("Staged = %+v, want bun then uv", result.Staged)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("Skipped = %v, want node archive and SHA256SUMS", result.Skipped)
	}

	manifest, err := bundle.LoadManifest(layout)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(manifest.Entries) != 2 {
		t.Fatalf("manifest entries = %+v, want bun and uv for linux-x64", manifest.Entries)
	}
	for _, name := range []string{"bun", "uv"} {
		entry, _ := manifest.Entry(name, platform.LinuxX64)
		integrity, detail := manifest.Verify(name, platform.LinuxX64, layout.ExecutablePath(entry.Path))
		if integrity != bundle.IntegrityMatch {
			t.Errorf("%s integrity = %q (%s)", name, integrity, detail)
		}
	}
}
