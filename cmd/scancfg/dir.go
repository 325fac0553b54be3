package main

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/aturpin0504/scancfg/internal/report"
	"github.com/aturpin0504/scancfg/internal/settings"
)

func dirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Manage monitored directories",
	}
	cmd.AddCommand(dirAddCmd())
	cmd.AddCommand(dirRemoveCmd())
	cmd.AddCommand(dirSetCmd())
	cmd.AddCommand(dirListCmd())
	cmd.AddCommand(dirShowCmd())
	return cmd
}

func dirAddCmd() *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "add PATH",
		Short: "Add a monitored directory",
		Long: `Add a directory to the monitored set. Paths are compared after
trimming whitespace; adding a path that is already present fails.

Exclusion patterns are given with repeated --exclude flags, e.g.

  scancfg dir add "V:\tools" --exclude "Temp/" --exclude LOGS`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := applyChange(cmd.Context(), "dir add", strings.TrimSpace(path),
				fmt.Sprintf("%d exclusions", len(exclude)),
				func(s *settings.Settings) error {
					return s.AddDirectory(path, exclude)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%d directories monitored)\n", strings.TrimSpace(path), len(s.MonitoredDirectories))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Exclusion pattern (repeatable)")
	return cmd
}

func dirRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove PATH",
		Short: "Remove a monitored directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := applyChange(cmd.Context(), "dir remove", strings.TrimSpace(path), "",
				func(s *settings.Settings) error {
					return s.RemoveDirectory(path)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Removed %s (%d directories monitored)\n", strings.TrimSpace(path), len(s.MonitoredDirectories))
			return nil
		},
	}
	return cmd
}

func dirSetCmd() *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "set PATH",
		Short: "Replace the exclusion list of a monitored directory",
		Long: `Replace the exclusion list of an already-monitored directory with the
given --exclude patterns. With no --exclude flags the list is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			_, err := applyChange(cmd.Context(), "dir set-exclusions", strings.TrimSpace(path),
				fmt.Sprintf("%d exclusions", len(exclude)),
				func(s *settings.Settings) error {
					return s.SetDirectoryExclusions(path, exclude)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Set %d exclusions on %s\n", len(exclude), strings.TrimSpace(path))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Exclusion pattern (repeatable)")
	return cmd
}

func dirListCmd() *cobra.Command {
	var (
		filter     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored directories",
		Long: `List the monitored directories with their exclusion and compiled
pattern counts.

--filter narrows the list with a case-insensitive glob over the directory
path, where * does not cross a backslash, e.g. --filter "v:\*\tools".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}

			dirs := s.MonitoredDirectories
			if filter != "" {
				g, err := glob.Compile(strings.ToLower(filter), '\\')
				if err != nil {
					return errors.Errorf("invalid filter %q: %w", filter, err)
				}
				matched := make([]settings.MonitoredDirectory, 0, len(dirs))
				for _, d := range dirs {
					if g.Match(strings.ToLower(d.Path)) {
						matched = append(matched, d)
					}
				}
				dirs = matched
			}

			if jsonOutput {
				fmt.Println(report.FormatJSON(dirs))
			} else {
				fmt.Print(report.FormatDirectories(dirs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Glob filter on the directory path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func dirShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Show one monitored directory and how its exclusions compiled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}

			path := strings.TrimSpace(args[0])
			for _, d := range s.MonitoredDirectories {
				if d.Path == path {
					fmt.Print(report.FormatExclusions(d))
					return nil
				}
			}
			return &settings.NotFoundError{Kind: "directory", Key: path}
		},
	}
	return cmd
}
