// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Fatal writes "carryall: err" to stderr and exits with code 1. Use it
// in main() for errors from run() where no logger is configured.
func Fatal(err error) {
	Exit(os.Stderr, err, 1)
}

// Exit writes err, if non-nil, to w and exits with code.
func Exit(w io.Writer, err error, code int) {
	if err != nil {
		fmt.Fprintf(w, "carryall: %v\n", err)
	}
	exit(code)
}
