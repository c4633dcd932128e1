// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/resolver"
)

type resolveParams struct {
	cli.Output
}

func resolveCommand(app *App) *cli.Command {
	var params resolveParams
	return &cli.Command{
		Name:    "resolve",
		Summary: "Print the executable each dependency resolves to",
		Description: `Resolve dependencies to the executable the host application would
invoke. With no arguments every dependency in the table is resolved.

Exits 1 when any named dependency has nothing to invoke.`,
		Usage: "carryall resolve [flags] [dependency...]",
		Examples: []cli.Example{
			{Description: "Resolve every dependency", Command: "carryall resolve"},
			{Description: "Path to the bundled bun, for scripts", Command: "carryall resolve --json bun"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("resolve", &params) },
		Run: func(ctx context.Context, args []string) error {
			return runResolve(app, params, args)
		},
	}
}

func runResolve(app *App, params resolveParams, names []string) error {
	if err := params.Validate(); err != nil {
		return err
	}
	session, err := app.open()
	if err != nil {
		return err
	}
	defer session.close()

	if len(names) == 0 {
		names = session.table.Names()
	}
	executables := make([]resolver.Executable, 0, len(names))
	missing := false
	for _, name := range names {
		executable := session.resolver.Resolve(name)
		executables = append(executables, executable)
		if !executable.Available {
			missing = true
		}
	}

	if done, err := params.Emit(app.stdout(), executables); done {
		if err != nil {
			return err
		}
	} else {
		writer := tabwriter.NewWriter(app.stdout(), 2, 0, 3, ' ', 0)
		fmt.Fprintln(writer, "NAME\tSOURCE\tPATH")
		for _, executable := range executables {
			source := string(executable.Source)
			if executable.Placeholder {
				source += " (placeholder skipped)"
			}
			path := executable.Path
			if path == "" {
				path = "-"
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\n", executable.Name, source, path)
		}
		writer.Flush()
	}

	if missing {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
