// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/config"
)

// Root returns the carryall command tree bound to app.
func Root(app *App) *cli.Command {
	return &cli.Command{
		Name: "carryall",
		Description: `Resolve the runtime dependencies a desktop application ships inside
its bundle, check that they run, and stage new bundles.

Configuration is read from --config, else $` + config.EnvironmentVariable + `,
else built-in development defaults.`,
		HelpOutput: app.stderr(),
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("carryall", pflag.ContinueOnError)
			flagSet.StringVar(&app.ConfigPath, "config", app.ConfigPath, "path to the configuration file")
			return flagSet
		},
		Subcommands: []*cli.Command{
			resolveCommand(app),
			pathCommand(app),
			doctorCommand(app),
			launchEnvCommand(app),
			stageCommand(app),
			packCommand(app),
			manifestCommand(app),
			versionCommand(app),
		},
	}
}
