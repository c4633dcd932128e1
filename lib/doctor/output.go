// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette colors each status label. ANSI 256-color codes, as in the
// rest of carryall's terminal output.
type Palette struct {
	Pass  lipgloss.Color
	Fail  lipgloss.Color
	Warn  lipgloss.Color
	Skip  lipgloss.Color
	Fixed lipgloss.Color
	Faint lipgloss.Color
}

// DefaultPalette suits dark and light terminals alike.
var DefaultPalette = Palette{
	Pass:  lipgloss.Color("34"),
	Fail:  lipgloss.Color("196"),
	Warn:  lipgloss.Color("214"),
	Skip:  lipgloss.Color("245"),
	Fixed: lipgloss.Color("39"),
	Faint: lipgloss.Color("243"),
}

func (p Palette) color(status Status) lipgloss.Color {
	switch status {
	case StatusPass:
		return p.Pass
	case StatusFail:
		return p.Fail
	case StatusWarn:
		return p.Warn
	case StatusFixed:
		return p.Fixed
	default:
		return p.Skip
	}
}

// Checklist renders results. Color is applied only when Color is set;
// lipgloss further degrades to plain text when the writer is not a
// terminal.
type Checklist struct {
	Writer  io.Writer
	Palette Palette
	Color   bool
}

func (c Checklist) label(status Status) string {
	text := fmt.Sprintf("[%-5s]", strings.ToUpper(string(status)))
	if !c.Color {
		return text
	}
	return lipgloss.NewStyle().Foreground(c.Palette.color(status)).Bold(true).Render(text)
}

func (c Checklist) faint(text string) string {
	if !c.Color {
		return text
	}
	return lipgloss.NewStyle().Foreground(c.Palette.Faint).Render(text)
}

// Print writes the checklist and a summary line. It returns
// ErrChecksFailed if any check is still failing.
func (c Checklist) Print(results []Result, fixMode, dryRun bool, outcome Outcome) error {
	w := c.Writer
	fixableCount := 0
	fixedCount := 0
	var elevatedHints []string

	for _, result := range results {
		fmt.Fprintf(w, "%s  %-28s  %s\n", c.label(result.Status), result.Name, result.Message)

		switch result.Status {
		case StatusFail:
			if result.FixHint == "" {
				continue
			}
			fixableCount++
			if dryRun {
				note := ""
				if result.Elevated {
					note = " (requires sudo)"
				}
				fmt.Fprintf(w, "         %-28s  %s\n", "", c.faint("would fix: "+result.FixHint+note))
			}
			if result.Elevated {
				elevatedHints = append(elevatedHints, result.FixHint)
			}
		case StatusFixed:
			fixedCount++
		}
	}

	fmt.Fprintln(w)

	if Failed(results) {
		switch {
		case dryRun && fixableCount > 0:
			fmt.Fprintf(w, "%d issue(s) would be repaired. Run without --dry-run to apply.\n", fixableCount)
		case !fixMode && fixableCount > 0:
			fmt.Fprintf(w, "Run with --fix to repair %d issue(s).\n", fixableCount)
		default:
			fmt.Fprintln(w, "Some checks failed.")
		}
		if outcome.PermissionDenied {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Some fixes failed due to insufficient permissions.")
		}
		if outcome.ElevatedSkipped > 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%d fix(es) require root privileges:\n", outcome.ElevatedSkipped)
			for _, hint := range elevatedHints {
				fmt.Fprintf(w, "  - %s\n", hint)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Re-run with sudo to apply these fixes:")
			fmt.Fprintln(w, "  sudo carryall doctor --fix")
		}
		return ErrChecksFailed
	}

	if fixedCount > 0 {
		fmt.Fprintf(w, "%d issue(s) repaired.\n", fixedCount)
		return nil
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
