// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package report

import (
	"os"

	"golang.org/x/sys/unix"
)

// ownedByOther reports whether path belongs to a user other than the
// effective user, so only root may change its mode.
func ownedByOther(path string) bool {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return false
	}
	return int(stat.Uid) != os.Geteuid()
}
