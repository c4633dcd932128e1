// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package probe

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// isolateProcessGroup puts the probe in its own process group so the
// whole tree can be signalled at once.
func isolateProcessGroup(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree sends SIGKILL to the probe's process group, then to
// the process itself. A group or process that is already gone is not
// an error.
func killProcessTree(process *os.Process) error {
	groupErr := unix.Kill(-process.Pid, unix.SIGKILL)
	if errors.Is(groupErr, unix.ESRCH) {
		groupErr = nil
	}
	processErr := process.Kill()
	if errors.Is(processErr, os.ErrProcessDone) {
		processErr = nil
	}
	return errors.Join(groupErr, processErr)
}
