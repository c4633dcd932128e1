// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
)

type pathParams struct {
	Inherited string `flag:"inherited" desc:"search path to extend (default $PATH)"`
	List      bool   `flag:"list" desc:"print one directory per line"`
}

func pathCommand(app *App) *cli.Command {
	var params pathParams
	return &cli.Command{
		Name:    "path",
		Summary: "Print the search path for child processes",
		Description: `Print the search path child processes should receive: the bundle
directories that exist for this platform, then the inherited entries,
with duplicates removed.`,
		Usage: "carryall path [flags]",
		Examples: []cli.Example{
			{Command: "carryall path"},
			{Description: "Extend an explicit path", Command: "carryall path --inherited /usr/bin:/bin"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("path", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runPath(app, params)
		},
	}
}

func runPath(app *App, params pathParams) error {
	session, err := app.open()
	if err != nil {
		return err
	}
	defer session.close()

	inherited := params.Inherited
	if inherited == "" {
		inherited = app.getenv("PATH")
	}
	searchPath := session.resolver.SearchPath(inherited)

	if !params.List {
		fmt.Fprintln(app.stdout(), searchPath)
		return nil
	}
	separator := session.resolver.Platform().ListSeparator()
	for _, entry := range strings.Split(searchPath, separator) {
		fmt.Fprintln(app.stdout(), entry)
	}
	return nil
}
