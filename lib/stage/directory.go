// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carryall-dev/carryall/lib/bundle"
)

// Result summarizes a Directory run.
type Result struct {
	Staged   []Staged         `json:"staged"            cbor:"staged"`
	Skipped  []string         `json:"skipped,omitempty" cbor:"skipped,omitempty"`
	Manifest *bundle.Manifest `json:"manifest"          cbor:"manifest"`
}

// Directory stages every archive in dir whose dependency is in table,
// in file name order, then rewrites the vendor manifest. Files that
// are not archives, or name a dependency outside the table, are
// skipped with a warning. The first extraction error stops the run
// before the manifest is written.
func Directory(ctx context.Context, dir string, layout bundle.Layout, table *bundle.Table, logger *slog.Logger) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("reading archive directory: %w", err)
	}

	var result Result
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		archive, err := ParseArchiveName(path)
		if err != nil {
			logger.Warn("skipping file", "path", path, "reason", err)
			result.Skipped = append(result.Skipped, entry.Name())
			continue
		}
		dependency, ok := table.Lookup(archive.Dependency)
		if !ok {
			logger.Warn("skipping archive for unknown dependency", "path", path, "dependency", archive.Dependency)
			result.Skipped = append(result.Skipped, entry.Name())
			continue
		}

		staged, err := Extract(ctx, path, layout, logger)
		if err != nil {
			return result, err
		}
		result.Staged = append(result.Staged, staged)

		if relative, ok := dependency.Path(archive.Platform); ok {
			if _, err := os.Stat(layout.ExecutablePath(relative)); err != nil {
				logger.Warn("archive does not contain the expected executable",
					"archive", entry.Name(),
					"expected", relative,
				)
			}
		}
	}

	manifest, err := WriteManifest(layout, table)
	if err != nil {
		return result, err
	}
	result.Manifest = manifest
	return result, nil
}

// WriteManifest hashes the executables currently under layout and
// writes the vendor manifest.
func WriteManifest(layout bundle.Layout, table *bundle.Table) (*bundle.Manifest, error) {
	manifest, err := bundle.BuildManifest(layout, table)
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}
	if err := manifest.Write(layout); err != nil {
		return nil, err
	}
	return manifest, nil
}
