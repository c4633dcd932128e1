// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/carryall-dev/carryall/cmd/carryall/cli"
	"github.com/carryall-dev/carryall/lib/bundle"
	"github.com/carryall-dev/carryall/lib/doctor"
	"github.com/carryall-dev/carryall/lib/report"
)

type doctorParams struct {
	cli.Output
	Fix    bool `flag:"fix" desc:"repair failed checks that have a fix"`
	DryRun bool `flag:"dry-run" desc:"with --fix, report what would be repaired"`
}

func doctorCommand(app *App) *cli.Command {
	var params doctorParams
	return &cli.Command{
		Name:    "doctor",
		Summary: "Check that every vendored dependency resolves and runs",
		Description: `Resolve every dependency, run it with --version, and check bundled
files against the vendor manifest.

Failures that have a known repair (a bundled executable missing its
execute permission) are fixed with --fix. Fixes for files owned by
another user need root.

Exits 1 when any check fails.`,
		Usage: "carryall doctor [flags]",
		Examples: []cli.Example{
			{Description: "Check the installed bundle", Command: "carryall doctor"},
			{Description: "Show what --fix would change", Command: "carryall doctor --fix --dry-run"},
			{Description: "Machine-readable report", Command: "carryall doctor --json"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("doctor", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			return runDoctor(ctx, app, params)
		},
	}
}

func runDoctor(ctx context.Context, app *App, params doctorParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.DryRun && !params.Fix {
		return errors.New("--dry-run requires --fix")
	}
	session, err := app.open()
	if err != nil {
		return err
	}
	defer session.close()

	inputs := report.Inputs{
		Resolver: session.resolver,
		Prober:   session.prober(),
		Table:    session.table,
		Manifest: loadManifest(session),
	}
	results := report.Build(ctx, inputs).Checks()

	var outcome doctor.Outcome
	if params.Fix {
		outcome = doctor.ExecuteFixes(ctx, results, params.DryRun)
		if outcome.FixedCount > 0 {
			// Re-run so the report reflects the repaired bundle; a
			// fixed file still has to pass its probe.
			repaired := map[string]bool{}
			for _, result := range results {
				if result.Status == doctor.StatusFixed {
					repaired[result.Name] = true
				}
			}
			session.purge()
			results = report.Build(ctx, inputs).Checks()
			doctor.MarkRepaired(results, repaired)
		}
	}

	if done, err := params.Emit(app.stdout(), doctor.BuildOutput(results, params.DryRun, outcome)); done {
		if err != nil {
			return err
		}
		if doctor.Failed(results) {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	checklist := doctor.Checklist{
		Writer:  app.stdout(),
		Palette: doctor.DefaultPalette,
		Color:   isTerminal(app.stdout()),
	}
	if err := checklist.Print(results, params.Fix, params.DryRun, outcome); err != nil {
		if errors.Is(err, doctor.ErrChecksFailed) {
			return &cli.ExitError{Code: 1}
		}
		return err
	}
	return nil
}

// loadManifest returns nil when the bundle has no manifest, which
// the report shows as an unverified bundle rather than an error.
func loadManifest(session *session) *bundle.Manifest {
	if !session.resolver.Packaged() {
		return nil
	}
	manifest, err := bundle.LoadManifest(session.resolver.Layout())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			session.logger.Debug("no vendor manifest", "path", session.resolver.Layout().ManifestPath())
		} else {
			session.logger.Warn("ignoring unreadable vendor manifest", "error", err)
		}
		return nil
	}
	return manifest
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
