// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Command carryall resolves, checks, and stages the runtime
// dependencies vendored into a desktop application bundle.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carryall-dev/carryall/cmd/carryall/commands"
	"github.com/carryall-dev/carryall/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root(&commands.App{}).Execute(ctx, os.Args[1:])
	stop()
	if err == nil {
		return
	}
	// Commands that print their own failure output (doctor, resolve)
	// return an error carrying only the exit code.
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		process.Exit(os.Stderr, nil, coder.ExitCode())
	}
	process.Fatal(err)
}
