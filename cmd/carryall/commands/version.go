// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/version"
)

type versionParams struct {
	cli.Output
}

func versionCommand(app *App) *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("version", &params) },
		Run: func(ctx context.Context, args []string) error {
			build := version.Current()
			if done, err := params.Emit(app.stdout(), build); done {
				return err
			}
			fmt.Fprintf(app.stdout(), "carryall %s\n", build.Full())
			if build.Digest != "" {
				fmt.Fprintf(app.stdout(), "  Binary: %s\n  Digest: %s\n", build.Binary, build.Digest)
			}
			return nil
		},
	}
}
