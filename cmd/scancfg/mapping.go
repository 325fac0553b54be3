package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aturpin0504/scancfg/internal/report"
	"github.com/aturpin0504/scancfg/internal/settings"
)

func mappingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage drive letter mappings",
	}
	cmd.AddCommand(mappingAddCmd())
	cmd.AddCommand(mappingRemoveCmd())
	cmd.AddCommand(mappingSetCmd())
	cmd.AddCommand(mappingListCmd())
	return cmd
}

func mappingAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add LETTER PATH",
		Short: "Map a drive letter to a network share or local path",
		Long: `Map a single drive letter to a UNC share or a local path, e.g.

  scancfg mapping add V \\fileserver\scans
  scancfg mapping add L "D:\LocalScans"

Letters are stored uppercase; adding a letter that is already mapped
fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			letter, path := args[0], args[1]
			s, err := applyChange(cmd.Context(), "mapping add", mappingTarget(letter), path,
				func(s *settings.Settings) error {
					return s.AddMapping(letter, path)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Mapped %s to %s (%d mappings)\n", mappingTarget(letter), path, len(s.DriveMappings))
			return nil
		},
	}
	return cmd
}

func mappingRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove LETTER",
		Short: "Remove a drive letter mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			letter := args[0]
			s, err := applyChange(cmd.Context(), "mapping remove", mappingTarget(letter), "",
				func(s *settings.Settings) error {
					return s.RemoveMapping(letter)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Removed %s (%d mappings)\n", mappingTarget(letter), len(s.DriveMappings))
			return nil
		},
	}
	return cmd
}

func mappingSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set LETTER PATH",
		Short: "Change the path of an existing drive letter mapping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			letter, path := args[0], args[1]
			_, err := applyChange(cmd.Context(), "mapping set", mappingTarget(letter), path,
				func(s *settings.Settings) error {
					return s.SetMapping(letter, path)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Mapped %s to %s\n", mappingTarget(letter), path)
			return nil
		},
	}
	return cmd
}

func mappingListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drive letter mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(report.FormatJSON(s.DriveMappings))
			} else {
				fmt.Print(report.FormatMappings(s.DriveMappings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// mappingTarget is the canonical journal target for a letter argument.
func mappingTarget(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}
