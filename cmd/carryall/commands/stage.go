// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/stage"
)

type stageParams struct {
	cli.Output
}

func stageCommand(app *App) *cli.Command {
	var params stageParams
	return &cli.Command{
		Name:    "stage",
		Summary: "Install vendor archives into the bundle and write the manifest",
		Description: `Extract every archive in a directory into the vendor directory of the
configured bundle, then regenerate the vendor manifest.

Archives are named <dependency>-<platform>.tar, .tar.zst, or .tar.lz4
(for example bun-darwin-arm64.tar.zst). Each replaces the directory of
the same name under vendor/.`,
		Usage: "carryall stage [flags] <archive-dir>",
		Examples: []cli.Example{
			{Description: "Stage release archives", Command: "carryall --config release.yaml stage dist/vendor"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("stage", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: carryall stage <archive-dir>")
			}
			return runStage(ctx, app, params, args[0])
		},
	}
}

func runStage(ctx context.Context, app *App, params stageParams, dir string) error {
	if err := params.Validate(); err != nil {
		return err
	}
	session, err := app.open()
	if err != nil {
		return err
	}
	defer session.close()

	result, err := stage.Directory(ctx, dir, session.config.Layout(), session.table, session.logger)
	if err != nil {
		return err
	}
	session.logger.Info("bundle staged",
		"archives", len(result.Staged),
		"skipped", len(result.Skipped),
		"manifest", session.config.Layout().ManifestPath(),
	)

	if done, err := params.Emit(app.stdout(), result); done {
		return err
	}
	writer := tabwriter.NewWriter(app.stdout(), 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "DEPENDENCY\tPLATFORM\tFILES\tBYTES")
	for _, staged := range result.Staged {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%d\n", staged.Dependency, staged.Platform, staged.Files, staged.Bytes)
	}
	writer.Flush()
	for _, name := range result.Skipped {
		fmt.Fprintf(app.stdout(), "skipped %s\n", name)
	}
	return nil
}

func packCommand(app *App) *cli.Command {
	return &cli.Command{
		Name:    "pack",
		Summary: "Create a reproducible vendor archive from a directory",
		Description: `Pack a dependency directory into a vendor archive that "carryall stage"
accepts. The archive name selects the compression and must name a
shipped platform. Entries carry no ownership or timestamps, so packing
the same tree twice produces identical archives.`,
		Usage: "carryall pack <source-dir> <archive>",
		Examples: []cli.Example{
			{Command: "carryall pack build/bun-linux-x64 dist/vendor/bun-linux-x64.tar.zst"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return errors.New("usage: carryall pack <source-dir> <archive>")
			}
			if err := stage.Pack(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout(), args[1])
			return nil
		},
	}
}
