// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"path/filepath"

	"github.com/carryall-dev/carryall/lib/platform"
)

// DefaultUnpacked is the directory beside the packed application
// archive where files that must stay real on disk (executables) are
// extracted.
const DefaultUnpacked = "app.asar.unpacked"

// vendorDirectoryName is the directory under the unpacked root holding
// every vendor dependency.
const vendorDirectoryName = "vendor"

// Layout locates vendor files inside an installed bundle.
type Layout struct {
	// ResourcesRoot is the application's resources directory.
	ResourcesRoot string

	// Unpacked is the subdirectory of ResourcesRoot containing
	// unpacked files. Empty means [DefaultUnpacked].
	Unpacked string
}

func (l Layout) unpacked() string {
	if l.Unpacked == "" {
		return DefaultUnpacked
	}
	return l.Unpacked
}

// VendorDir returns <resources>/<unpacked>/vendor.
func (l Layout) VendorDir() string {
	return filepath.Join(l.ResourcesRoot, l.unpacked(), vendorDirectoryName)
}

// ExecutablePath returns the absolute path for a slash-separated path
// relative to the vendor directory.
func (l Layout) ExecutablePath(relative string) string {
	return filepath.Join(l.VendorDir(), filepath.FromSlash(relative))
}

// DependencyDir returns the per-platform directory for a dependency.
func (l Layout) DependencyDir(name string, key platform.Key) string {
	return filepath.Join(l.VendorDir(), DirectoryName(name, key))
}

// ManifestPath returns the location of the bundle manifest.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.VendorDir(), ManifestName)
}
