// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package probe

import (
	"errors"
	"os"
	"os/exec"
)

func isolateProcessGroup(*exec.Cmd) {}

// killProcessTree kills the probe process. Without process groups,
// grandchildren of a wrapper script are not reached.
func killProcessTree(process *os.Process) error {
	if err := process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
