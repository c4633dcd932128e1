// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"path/filepath"
	"strings"
)

// SearchPath returns the value to install as PATH for child processes
// that should see bundled tools first.
//
// In development mode inherited is returned byte-for-byte. In packaged
// mode, the directory of every dependency that [Resolver.Resolve]
// answers from the bundle is prepended in table declaration order. A
// dependency that falls back to the system command (missing file,
// directory, placeholder stub) contributes nothing, so PATH never
// points a bare command name at a rejected bundle entry. Entries are
// deduplicated with the first occurrence winning, so a bundle
// directory already present in inherited moves to the front rather
// than appearing twice. When no bundle directory is found, inherited
// is returned unchanged.
func (r *Resolver) SearchPath(inherited string) string {
	if !r.packaged {
		return inherited
	}

	var bundleDirectories []string
	for _, dependency := range r.table.Dependencies() {
		executable := r.Resolve(dependency.Name)
		if executable.Source != SourceBundle {
			r.logger.Debug("not added to search path",
				"dependency", dependency.Name,
				"source", executable.Source,
				"placeholder", executable.Placeholder,
			)
			continue
		}
		bundleDirectories = append(bundleDirectories, filepath.Dir(executable.Path))
	}

	if len(bundleDirectories) == 0 {
		return inherited
	}

	separator := r.platform.ListSeparator()
	entries := bundleDirectories
	if inherited != "" {
		entries = append(entries, strings.Split(inherited, separator)...)
	}
	return strings.Join(deduplicate(entries), separator)
}

// deduplicate removes repeated entries, keeping the first occurrence
// and the original order.
func deduplicate(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, duplicate := seen[entry]; duplicate {
			continue
		}
		seen[entry] = struct{}{}
		result = append(result, entry)
	}
	return result
}
