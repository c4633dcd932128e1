// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/carryall-dev/carryall/lib/binhash"
	"github.com/carryall-dev/carryall/lib/platform"
)

// ManifestName is the file name of the manifest inside the vendor
// directory.
const ManifestName = "manifest.jsonc"

// manifestVersion is the current manifest format version.
const manifestVersion = 1

// manifestHeader is written above the JSON body. Manifests are JSONC
// so release engineers can annotate them by hand.
const manifestHeader = "// Vendor bundle manifest. Generated by \"carryall stage\".\n" +
	"// Digests are keyed BLAKE3 (see lib/binhash).\n"

// Manifest records the expected size and digest of every staged
// vendor executable.
type Manifest struct {
	Version int             `json:"version"`
	Entries []ManifestEntry `json:"entries"`
}

// ManifestEntry describes one staged executable.
type ManifestEntry struct {
	Dependency string       `json:"dependency"`
	Platform   platform.Key `json:"platform"`
	// Path is relative to the vendor directory, slash-separated.
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// Integrity is the outcome of checking a file against the manifest.
type Integrity string

const (
	IntegrityMatch      Integrity = "match"
	IntegrityMismatch   Integrity = "mismatch"
	IntegrityUnlisted   Integrity = "unlisted"
	IntegrityNoManifest Integrity = "no-manifest"
	IntegrityError      Integrity = "error"
)

// ParseManifest strips JSONC comments and trailing commas, then
// decodes the manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if manifest.Version != manifestVersion {
		return nil, fmt.Errorf("manifest version %d is not supported (want %d)", manifest.Version, manifestVersion)
	}
	for _, entry := range manifest.Entries {
		if !filepath.IsLocal(filepath.FromSlash(entry.Path)) {
			return nil, fmt.Errorf("manifest entry %s for %s: path %q leaves the vendor directory", entry.Dependency, entry.Platform, entry.Path)
		}
	}
	return &manifest, nil
}

// LoadManifest reads the manifest from layout. A missing manifest is
// reported with an error wrapping fs.ErrNotExist.
func LoadManifest(layout Layout) (*Manifest, error) {
	data, err := os.ReadFile(layout.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// Entry returns the manifest entry for a dependency on a platform.
func (m *Manifest) Entry(dependency string, key platform.Key) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	for _, entry := range m.Entries {
		if entry.Dependency == dependency && entry.Platform == key {
			return entry, true
		}
	}
	return ManifestEntry{}, false
}

// Verify checks the file at path, the location resolution actually
// uses, against the manifest entry for a dependency. The entry's own
// Path is never opened. The size is compared first; the file is hashed
// only when the size matches. The returned string explains non-match
// outcomes.
func (m *Manifest) Verify(dependency string, key platform.Key, path string) (Integrity, string) {
	if m == nil {
		return IntegrityNoManifest, "no manifest in bundle"
	}
	entry, ok := m.Entry(dependency, key)
	if !ok {
		return IntegrityUnlisted, fmt.Sprintf("%s for %s is not listed in the manifest", dependency, key)
	}

	info, err := os.Stat(path)
	if err != nil {
		return IntegrityError, err.Error()
	}
	if info.Size() != entry.Size {
		return IntegrityMismatch, fmt.Sprintf("size %d, manifest says %d", info.Size(), entry.Size)
	}

	want, err := binhash.ParseDigest(entry.Digest)
	if err != nil {
		return IntegrityError, fmt.Sprintf("manifest entry: %v", err)
	}
	got, err := binhash.HashFile(path)
	if err != nil {
		return IntegrityError, err.Error()
	}
	if got != want {
		return IntegrityMismatch, fmt.Sprintf("digest %s, manifest says %s", got, want)
	}
	return IntegrityMatch, ""
}

// BuildManifest hashes every table executable present under layout
// and returns a manifest describing them. Entries follow table
// declaration order, then [platform.Shipped] order, so the same tree
// always yields the same manifest.
func BuildManifest(layout Layout, table *Table) (*Manifest, error) {
	manifest := &Manifest{Version: manifestVersion, Entries: []ManifestEntry{}}
	for _, dependency := range table.Dependencies() {
		for _, key := range platform.Shipped {
			relative, ok := dependency.Path(key)
			if !ok {
				continue
			}
			path := layout.ExecutablePath(relative)
			info, err := os.Stat(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			digest, err := binhash.HashFile(path)
			if err != nil {
				return nil, err
			}
			manifest.Entries = append(manifest.Entries, ManifestEntry{
				Dependency: dependency.Name,
				Platform:   key,
				Path:       relative,
				Size:       info.Size(),
				Digest:     binhash.FormatDigest(digest),
			})
		}
	}
	return manifest, nil
}

// Write stores the manifest in layout's vendor directory. The file is
// written to a temporary name and renamed into place so readers never
// observe a partial manifest.
func (m *Manifest) Write(layout Layout) error {
	body, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	var buffer bytes.Buffer
	buffer.WriteString(manifestHeader)
	buffer.Write(body)
	buffer.WriteByte('\n')

	target := layout.ManifestPath()
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating vendor directory: %w", err)
	}
	temporary := target + ".tmp"
	if err := os.WriteFile(temporary, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(temporary, target); err != nil {
		_ = os.Remove(temporary)
		return fmt.Errorf("installing manifest: %w", err)
	}
	return nil
}
