// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/platform"
)

// Archive identifies a runtime archive by its file name.
type Archive struct {
	Dependency  string
	Platform    platform.Key
	Compression Compression
}

// Name returns the canonical file name for the archive.
func (a Archive) Name() string {
	return bundle.DirectoryName(a.Dependency, a.Platform) + a.Compression.Extension()
}

// ParseArchiveName recognizes "<dependency>-<platform>.tar[.zst|.lz4]".
// Only shipped platform keys are recognized, which is what lets a
// dependency name contain dashes.
func ParseArchiveName(path string) (Archive, error) {
	name := filepath.Base(path)
	for _, compression := range compressions {
		stem, ok := strings.CutSuffix(name, compression.Extension())
		if !ok {
			continue
		}
		for _, key := range platform.Shipped {
			dependency, ok := strings.CutSuffix(stem, "-"+key.String())
			if ok && dependency != "" {
				return Archive{Dependency: dependency, Platform: key, Compression: compression}, nil
			}
		}
		return Archive{}, fmt.Errorf("archive %q: no shipped platform suffix", name)
	}
	return Archive{}, fmt.Errorf("archive %q: not a .tar, .tar.zst, or .tar.lz4 file", name)
}
