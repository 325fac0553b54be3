// Package menu drives the interactive editing session: a numbered prompt
// loop over the same mutations the CLI subcommands expose. Input and output
// are injected, so the loop runs against scripted readers in tests exactly
// as it runs against a terminal.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/aturpin0504/scancfg/internal/report"
	"github.com/aturpin0504/scancfg/internal/settings"
)

// Applier runs one mutation against the settings document and records it.
// The menu never persists anything itself.
type Applier func(ctx context.Context, op, target, detail string, fn func(*settings.Settings) error) (*settings.Settings, error)

// Loader reads the current document.
type Loader func(ctx context.Context) (*settings.Settings, settings.LoadStats, error)

var (
	promptStyle = color.New(color.Bold)
	okStyle     = color.New(color.FgGreen)
	errStyle    = color.New(color.FgRed)
)

// Menu is one interactive session.
type Menu struct {
	load  Loader
	apply Applier
	in    *bufio.Scanner
	out   io.Writer
}

// New builds a session reading commands from in and writing to out.
func New(load Loader, apply Applier, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		load:  load,
		apply: apply,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run loops until the user quits or input ends. A failed operation is
// reported and the loop continues; only a cancelled context or closed
// input ends the session.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		m.printChoices()
		choice, ok := m.promptLine("choose")
		if !ok {
			return nil
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.showSettings(ctx)
		case "2":
			err = m.addDirectory(ctx)
		case "3":
			err = m.removeDirectory(ctx)
		case "4":
			err = m.editExclusions(ctx)
		case "5":
			err = m.addMapping(ctx)
		case "6":
			err = m.removeMapping(ctx)
		case "7":
			err = m.updateMapping(ctx)
		case "8":
			err = m.setStagingArea(ctx)
		case "9":
			err = m.setVDrivePath(ctx)
		case "q", "Q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(m.out, "unknown choice %q\n", choice)
			continue
		}

		if err != nil {
			fmt.Fprintf(m.out, "%s %v\n", errStyle.Sprint("error:"), err)
		}
	}
}

func (m *Menu) printChoices() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, promptStyle.Sprint("Scan Settings Menu"))
	fmt.Fprintln(m.out, " 1) show settings")
	fmt.Fprintln(m.out, " 2) add monitored directory")
	fmt.Fprintln(m.out, " 3) remove monitored directory")
	fmt.Fprintln(m.out, " 4) edit directory exclusions")
	fmt.Fprintln(m.out, " 5) add drive mapping")
	fmt.Fprintln(m.out, " 6) remove drive mapping")
	fmt.Fprintln(m.out, " 7) update drive mapping")
	fmt.Fprintln(m.out, " 8) set staging area")
	fmt.Fprintln(m.out, " 9) set V drive path")
	fmt.Fprintln(m.out, " q) quit")
}

// promptLine writes "label: " and reads one line. ok is false once input
// is exhausted.
func (m *Menu) promptLine(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s: ", label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) showSettings(ctx context.Context) error {
	s, stats, err := m.load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out)
	fmt.Fprint(m.out, report.FormatSettings(s, stats))
	return nil
}

func (m *Menu) addDirectory(ctx context.Context) error {
	path, ok := m.promptLine("directory path")
	if !ok {
		return nil
	}
	raw, ok := m.promptLine("exclusions (comma separated, empty for none)")
	if !ok {
		return nil
	}
	exclusions := splitExclusions(raw)

	_, err := m.apply(ctx, "dir add", strings.TrimSpace(path),
		fmt.Sprintf("%d exclusions", len(exclusions)),
		func(s *settings.Settings) error {
			return s.AddDirectory(path, exclusions)
		})
	if err != nil {
		return err
	}
	m.ok("directory added")
	return nil
}

func (m *Menu) removeDirectory(ctx context.Context) error {
	path, ok := m.promptLine("directory path")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "dir remove", strings.TrimSpace(path), "",
		func(s *settings.Settings) error {
			return s.RemoveDirectory(path)
		})
	if err != nil {
		return err
	}
	m.ok("directory removed")
	return nil
}

func (m *Menu) editExclusions(ctx context.Context) error {
	path, ok := m.promptLine("directory path")
	if !ok {
		return nil
	}
	raw, ok := m.promptLine("new exclusions (comma separated, empty clears)")
	if !ok {
		return nil
	}
	exclusions := splitExclusions(raw)

	_, err := m.apply(ctx, "dir set-exclusions", strings.TrimSpace(path),
		fmt.Sprintf("%d exclusions", len(exclusions)),
		func(s *settings.Settings) error {
			return s.SetDirectoryExclusions(path, exclusions)
		})
	if err != nil {
		return err
	}
	m.ok("exclusions replaced")
	return nil
}

func (m *Menu) addMapping(ctx context.Context) error {
	letter, ok := m.promptLine("drive letter")
	if !ok {
		return nil
	}
	path, ok := m.promptLine("path (UNC or local)")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "mapping add", canonicalTarget(letter), path,
		func(s *settings.Settings) error {
			return s.AddMapping(letter, path)
		})
	if err != nil {
		return err
	}
	m.ok("mapping added")
	return nil
}

func (m *Menu) removeMapping(ctx context.Context) error {
	letter, ok := m.promptLine("drive letter")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "mapping remove", canonicalTarget(letter), "",
		func(s *settings.Settings) error {
			return s.RemoveMapping(letter)
		})
	if err != nil {
		return err
	}
	m.ok("mapping removed")
	return nil
}

func (m *Menu) updateMapping(ctx context.Context) error {
	letter, ok := m.promptLine("drive letter")
	if !ok {
		return nil
	}
	path, ok := m.promptLine("new path (UNC or local)")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "mapping set", canonicalTarget(letter), path,
		func(s *settings.Settings) error {
			return s.SetMapping(letter, path)
		})
	if err != nil {
		return err
	}
	m.ok("mapping updated")
	return nil
}

func (m *Menu) setStagingArea(ctx context.Context) error {
	path, ok := m.promptLine("staging area path")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "set-staging", strings.TrimSpace(path), "",
		func(s *settings.Settings) error {
			return s.SetStagingArea(path)
		})
	if err != nil {
		return err
	}
	m.ok("staging area set")
	return nil
}

func (m *Menu) setVDrivePath(ctx context.Context) error {
	path, ok := m.promptLine("V drive path")
	if !ok {
		return nil
	}
	_, err := m.apply(ctx, "set-vdrive", strings.TrimSpace(path), "",
		func(s *settings.Settings) error {
			return s.SetVDrivePath(path)
		})
	if err != nil {
		return err
	}
	m.ok("V drive path set")
	return nil
}

func (m *Menu) ok(msg string) {
	fmt.Fprintf(m.out, "%s %s\n", okStyle.Sprint("done:"), msg)
}

// splitExclusions turns comma-separated input into a trimmed list, dropping
// empty segments. Blank input yields an empty list, never nil.
func splitExclusions(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// canonicalTarget uppercases a drive-letter input for journal targets. The
// real validation happens in the mutation itself.
func canonicalTarget(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}
