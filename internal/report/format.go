// Package report renders settings, revision history, and change records as
// terminal tables or JSON. Formatting is pure: every function takes values
// and returns a string, so commands own all writing and exit codes.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/aturpin0504/scancfg/internal/gitver"
	"github.com/aturpin0504/scancfg/internal/journal"
	"github.com/aturpin0504/scancfg/internal/pathmatch"
	"github.com/aturpin0504/scancfg/internal/settings"
)

// Colors degrade to plain text when stdout is not a terminal.
var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	caution = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
)

// FormatSettings renders the whole document: overview, drive mappings, and
// monitored directories.
func FormatSettings(s *settings.Settings, stats settings.LoadStats) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Scan Settings") + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString(fmt.Sprintf("%-15s %s\n", "Staging area:", s.StagingArea))
	vdrive := s.VDrivePath
	if vdrive == "" {
		vdrive = caution.Sprint("(not set)")
	}
	b.WriteString(fmt.Sprintf("%-15s %s\n", "V drive:", vdrive))
	b.WriteString(fmt.Sprintf("%-15s %s\n", "Load:", stats.Summary()))
	b.WriteString("\n")

	b.WriteString(FormatMappings(s.DriveMappings))
	b.WriteString("\n")
	b.WriteString(FormatDirectories(s.MonitoredDirectories))

	return b.String()
}

// FormatMappings renders the drive mapping table.
func FormatMappings(ms []settings.DriveMapping) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Drive Mappings") + "\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	if len(ms) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-8s %s\n", "Letter", "Path"))
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, m := range ms {
		b.WriteString(fmt.Sprintf("%-8s %s\n", m.Letter, m.Path))
	}
	return b.String()
}

// FormatDirectories renders the monitored directory table with exclusion
// and compiled-rule counts.
func FormatDirectories(dirs []settings.MonitoredDirectory) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Monitored Directories") + "\n")
	b.WriteString(strings.Repeat("-", 66) + "\n")
	if len(dirs) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-42s %10s %10s\n", "Path", "Exclusions", "Compiled"))
	b.WriteString(strings.Repeat("-", 66) + "\n")
	for _, d := range dirs {
		b.WriteString(fmt.Sprintf("%-42s %10d %10d\n",
			truncate(d.Path, 42), len(d.Exclusions), len(d.Compiled)))
	}
	return b.String()
}

// FormatExclusions renders one directory's exclusion list alongside its
// compiled patterns, marking entries that failed to compile.
func FormatExclusions(d settings.MonitoredDirectory) string {
	var b strings.Builder

	b.WriteString(heading.Sprint(d.Path) + "\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	if len(d.Exclusions) == 0 {
		b.WriteString("(no exclusions)\n")
		return b.String()
	}

	compiled := make(map[string]bool, len(d.Compiled))
	for _, r := range d.Compiled {
		compiled[r.Pattern()] = true
	}

	for _, raw := range d.Exclusions {
		norm := pathmatch.Normalize(raw)
		if compiled[norm] {
			b.WriteString(fmt.Sprintf("  %s %-25s -> %s\n", good.Sprint("+"), quoted(raw), norm))
		} else {
			b.WriteString(fmt.Sprintf("  %s %-25s (not compiled)\n", bad.Sprint("!"), quoted(raw)))
		}
	}
	return b.String()
}

// FormatCheck renders the result of a document check: load counters plus
// an overall verdict. A strict validation failure makes the verdict FAIL;
// repaired entries downgrade it to OK with notes.
func FormatCheck(stats settings.LoadStats, strictErr error) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Settings Check") + "\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString(stats.Summary() + "\n")
	if stats.DroppedMappings > 0 {
		b.WriteString(fmt.Sprintf("%d drive mapping entries dropped\n", stats.DroppedMappings))
	}
	b.WriteString("\n")

	switch {
	case strictErr != nil:
		b.WriteString(bad.Sprint("FAIL") + " " + strictErr.Error() + "\n")
	case stats.SkippedEntries > 0 || stats.DroppedMappings > 0:
		b.WriteString(caution.Sprint("OK") + " (some entries were repaired or skipped)\n")
	default:
		b.WriteString(good.Sprint("OK") + "\n")
	}
	return b.String()
}

// FormatHistory renders revision history entries, newest first.
func FormatHistory(entries []gitver.Entry) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Revision History") + "\n")
	b.WriteString(strings.Repeat("-", 72) + "\n")
	if len(entries) == 0 {
		b.WriteString("(no revisions)\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-10s %-20s %s\n", "Revision", "When", "Message"))
	b.WriteString(strings.Repeat("-", 72) + "\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-10s %-20s %s\n",
			shortHash(e.Hash), e.When.Format("2006-01-02 15:04:05"), firstLine(e.Message)))
	}
	return b.String()
}

// FormatChanges renders journal entries, newest first.
func FormatChanges(cs []journal.Change) string {
	var b strings.Builder

	b.WriteString(heading.Sprint("Change Journal") + "\n")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	if len(cs) == 0 {
		b.WriteString("(no recorded changes)\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-6s %-20s %-16s %-24s %s\n", "ID", "When", "Op", "Target", "Detail"))
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, c := range cs {
		b.WriteString(fmt.Sprintf("%-6d %-20s %-16s %-24s %s\n",
			c.ID, c.Timestamp.Local().Format("2006-01-02 15:04:05"),
			c.Op, truncate(c.Target, 24), c.Detail))
	}
	return b.String()
}

// FormatJSON marshals any value as indented JSON.
func FormatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// truncate shortens s to max characters, keeping the tail.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-(max-3):]
}

// shortHash abbreviates a full commit hash for display.
func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// firstLine returns the first line of a possibly multi-line message.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// quoted wraps a raw exclusion so blank and whitespace-only strings stay
// visible in listings.
func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}
