// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/stage"
)

type manifestParams struct {
	cli.Output
}

func manifestCommand(app *App) *cli.Command {
	var params manifestParams
	return &cli.Command{
		Name:    "manifest",
		Summary: "Regenerate the vendor manifest from the staged bundle",
		Description: `Hash every staged vendor executable and rewrite the manifest. Use this
after changing files under vendor/ by hand; "carryall stage" writes the
manifest itself.`,
		Usage: "carryall manifest [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("manifest", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if err := params.Validate(); err != nil {
				return err
			}
			session, err := app.open()
			if err != nil {
				return err
			}
			defer session.close()

			manifest, err := stage.WriteManifest(session.config.Layout(), session.table)
			if err != nil {
				return err
			}
			if done, err := params.Emit(app.stdout(), manifest); done {
				return err
			}
			for _, entry := range manifest.Entries {
				fmt.Fprintf(app.stdout(), "%s  %s  %s\n", entry.Digest, entry.Platform, entry.Path)
			}
			fmt.Fprintf(app.stdout(), "wrote %s (%d entries)\n", session.config.Layout().ManifestPath(), len(manifest.Entries))
			return nil
		},
	}
}
