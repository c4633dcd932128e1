// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Pack writes the tree under sourceDir to archivePath. The compression
// comes from the archive name, which must parse with
// ParseArchiveName. Entries are written in lexical order with zeroed
// ownership and timestamps, so the same tree always yields the same
// tar stream.
func Pack(ctx context.Context, sourceDir, archivePath string) error {
	archive, err := ParseArchiveName(archivePath)
	if err != nil {
		return err
	}

	temporary := archivePath + ".tmp"
	file, err := os.Create(temporary)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer os.Remove(temporary)

	if err := writeArchive(ctx, file, sourceDir, archive.Compression); err != nil {
		file.Close()
		return fmt.Errorf("packing %s: %w", sourceDir, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(temporary, archivePath)
}

func writeArchive(ctx context.Context, w io.Writer, sourceDir string, compression Compression) error {
	compressed, err := compress(w, compression)
	if err != nil {
		return err
	}
	writer := tar.NewWriter(compressed)

	walkErr := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		relative, err := filepath.Rel(sourceDir, path)
		if err != nil || relative == "." {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relative)
		if info.IsDir() {
			header.Name += "/"
		}
		header.Uid, header.Gid = 0, 0
		header.Uname, header.Gname = "", ""
		header.ModTime = time.Unix(0, 0)
		header.AccessTime, header.ChangeTime = time.Time{}, time.Time{}
		if err := writer.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		source, err := os.Open(path)
		if err != nil {
			return err
		}
		defer source.Close()
		_, err = io.Copy(writer, source)
		return err
	})
	if walkErr != nil {
		return walkErr
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return compressed.Close()
}
