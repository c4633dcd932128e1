// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/launch"
)

type launchEnvParams struct {
	cli.Output
	All bool `flag:"all" desc:"print the complete child environment"`
}

func launchEnvCommand(app *App) *cli.Command {
	var params launchEnvParams
	return &cli.Command{
		Name:    "launch-env",
		Summary: "Print the options the agent SDK is launched with",
		Description: `Compute the runtime executable and child environment the host
application passes to the agent SDK: the first available runtime, the
enhanced PATH, dependency hints, and the optional env file.`,
		Usage: "carryall launch-env [flags]",
		Examples: []cli.Example{
			{Command: "carryall launch-env"},
			{Description: "Complete environment as JSON", Command: "carryall launch-env --json"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("launch-env", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runLaunchEnv(app, params)
		},
	}
}

func runLaunchEnv(app *App, params launchEnvParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	session, err := app.open()
	if err != nil {
		return err
	}
	defer session.close()

	options := launch.Build(launch.Inputs{
		Resolver: session.resolver,
		Runtimes: session.config.Launch.Runtimes,
		BaseEnv:  app.environ(),
		EnvFile:  session.config.Launch.EnvFile,
		Logger:   session.logger,
	})

	if done, err := params.Emit(app.stdout(), options); done {
		return err
	}

	w := app.stdout()
	if options.Executable == "" {
		fmt.Fprintln(w, "runtime:    (SDK default)")
	} else {
		fmt.Fprintf(w, "runtime:    %s (%s)\n", options.Runtime, options.Executable)
	}
	for _, name := range slices.Sorted(maps.Keys(options.Hints)) {
		fmt.Fprintf(w, "hint:       %s=%s\n", name, options.Hints[name])
	}
	if params.All {
		fmt.Fprintln(w)
		for _, pair := range options.Env {
			fmt.Fprintln(w, pair)
		}
		return nil
	}
	for _, pair := range options.Env {
		if name, value, _ := strings.Cut(pair, "="); strings.EqualFold(name, "PATH") {
			fmt.Fprintf(w, "path:       %s\n", value)
		}
	}
	return nil
}
