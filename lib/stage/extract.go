// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package stage

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/platform"
)

// Staged describes one extracted archive.
type Staged struct {
	Archive    Archive      `json:"-"          cbor:"-"`
	Dependency string       `json:"dependency" cbor:"dependency"`
	Platform   platform.Key `json:"platform"   cbor:"platform"`
	Directory  string       `json:"directory"  cbor:"directory"`
	Files      int          `json:"files"      cbor:"files"`
	Bytes      int64        `json:"bytes"      cbor:"bytes"`
}

// Extract unpacks archivePath into layout's vendor directory. The
// archive is unpacked beside its destination and renamed into place,
// so a failed extraction leaves the previous contents untouched.
func Extract(ctx context.Context, archivePath string, layout bundle.Layout, logger *slog.Logger) (Staged, error) {
	archive, err := ParseArchiveName(archivePath)
	if err != nil {
		return Staged{}, err
	}

	destination := layout.DependencyDir(archive.Dependency, archive.Platform)
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return Staged{}, fmt.Errorf("creating vendor directory: %w", err)
	}
	scratch, err := os.MkdirTemp(filepath.Dir(destination), "."+filepath.Base(destination)+".staging-")
	if err != nil {
		return Staged{}, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	file, err := os.Open(archivePath)
	if err != nil {
		return Staged{}, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	reader, err := decompress(file, archive.Compression)
	if err != nil {
		return Staged{}, fmt.Errorf("%s: %w", archivePath, err)
	}
	defer reader.Close()

	staged := Staged{
		Archive:    archive,
		Dependency: archive.Dependency,
		Platform:   archive.Platform,
		Directory:  destination,
	}
	if err := unpack(ctx, tar.NewReader(reader), scratch, &staged); err != nil {
		return Staged{}, fmt.Errorf("%s: %w", archivePath, err)
	}
	// MkdirTemp creates the directory 0700.
	if err := os.Chmod(scratch, 0o755); err != nil {
		return Staged{}, err
	}

	if err := os.RemoveAll(destination); err != nil {
		return Staged{}, fmt.Errorf("removing previous %s: %w", destination, err)
	}
	if err := os.Rename(scratch, destination); err != nil {
		return Staged{}, fmt.Errorf("installing %s: %w", destination, err)
	}

	logger.Info("staged vendor archive",
		"dependency", staged.Dependency,
		"platform", staged.Platform,
		"directory", staged.Directory,
		"files", staged.Files,
		"bytes", staged.Bytes,
	)
	return staged, nil
}

func unpack(ctx context.Context, reader *tar.Reader, dir string, staged *Staged) error {
	// Every write goes through root, so a symlink planted by an earlier
	// entry cannot redirect a later one outside dir.
	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		name, err := entryPath(header.Name)
		if err != nil {
			return err
		}
		if name == "." {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(name, 0o755); err != nil {
				return fmt.Errorf("entry %q: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := writeFile(root, reader, name, header); err != nil {
				return fmt.Errorf("entry %q: %w", header.Name, err)
			}
			staged.Files++
			staged.Bytes += header.Size
		case tar.TypeSymlink:
			if err := checkLink(name, header.Linkname); err != nil {
				return err
			}
			if err := mkdirParent(root, name); err != nil {
				return fmt.Errorf("entry %q: %w", header.Name, err)
			}
			if err := root.Symlink(header.Linkname, name); err != nil {
				return fmt.Errorf("entry %q: %w", header.Name, err)
			}
		default:
			return fmt.Errorf("entry %q: unsupported type %q", header.Name, header.Typeflag)
		}
	}
}

// entryPath cleans an archive entry name into a path relative to the
// extraction root, rejecting names that would land outside it.
func entryPath(name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("entry %q: absolute path", name)
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if escapes(cleaned) {
		return "", fmt.Errorf("entry %q: escapes the destination", name)
	}
	return cleaned, nil
}

// checkLink rejects symlinks whose target, read relative to the link's
// own directory, leaves the extraction root. Links that pass can still
// chain through other links; the os.Root in unpack catches those.
func checkLink(link, target string) error {
	if filepath.IsAbs(target) || strings.HasPrefix(target, "/") {
		return fmt.Errorf("symlink %q: absolute target %q", link, target)
	}
	resolved := filepath.Join(filepath.Dir(link), filepath.FromSlash(target))
	if escapes(resolved) {
		return fmt.Errorf("symlink %q: target %q escapes the destination", link, target)
	}
	return nil
}

func escapes(relative string) bool {
	return relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator))
}

func mkdirParent(root *os.Root, name string) error {
	parent := filepath.Dir(name)
	if parent == "." {
		return nil
	}
	return root.MkdirAll(parent, 0o755)
}

func writeFile(root *os.Root, reader io.Reader, name string, header *tar.Header) error {
	if err := mkdirParent(root, name); err != nil {
		return err
	}
	mode := os.FileMode(header.Mode).Perm()
	file, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(file, reader, header.Size); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	// OpenFile applies the umask; restore the archived bits.
	return root.Chmod(name, mode)
}
