package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/aturpin0504/scancfg/internal/gitver"
	"github.com/aturpin0504/scancfg/internal/journal"
	"github.com/aturpin0504/scancfg/internal/logging"
	"github.com/aturpin0504/scancfg/internal/menu"
	"github.com/aturpin0504/scancfg/internal/report"
	"github.com/aturpin0504/scancfg/internal/settings"
	"github.com/aturpin0504/scancfg/internal/storage"
)

var (
	settingsFile string
	dataDir      string
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scancfg",
		Short: "Manage the scan settings document",
		Long: `scancfg manages the scan settings document: the staging area, the
virtual drive path, drive letter mappings, and the monitored directories
with their exclusion lists.

The document is plain JSON and is rewritten wholesale on every change.
Each accepted change is also appended to a change journal and committed
to a revision history under the data directory, so earlier states can be
listed and read back.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "file", storage.DefaultSettingsPath(), "Settings document path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", storage.DefaultDataDir(), "Directory for the change journal and revision history")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(dirCmd())
	rootCmd.AddCommand(mappingCmd())
	rootCmd.AddCommand(setStagingCmd())
	rootCmd.AddCommand(setVDriveCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(changesCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(menuCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	var (
		staging string
		vdrive  string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new settings document",
		Long: `Create a settings document at the --file path with empty collections
and the default staging area.

Refuses to overwrite an existing document unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.NewStore(settingsFile)
			if st.Exists() && !force {
				return errors.Errorf("%s already exists (rerun with --force to overwrite)", settingsFile)
			}

			s := settings.Default()
			if staging != "" {
				if err := s.SetStagingArea(staging); err != nil {
					return err
				}
			}
			if vdrive != "" {
				if err := s.SetVDrivePath(vdrive); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if err := st.Save(ctx, s); err != nil {
				return err
			}
			recordChange(ctx, s, "init", settingsFile, "document created")

			fmt.Printf("Created %s\n", settingsFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&staging, "staging", "", "Initial staging area path")
	cmd.Flags().StringVar(&vdrive, "vdrive", "", "Initial virtual drive path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing document")
	return cmd
}

func showCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the assembled settings document",
		Long: `Load the settings document, repair what can be repaired, and print the
result. The load summary reports how many entries were kept, skipped, and
compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, stats, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(report.FormatJSON(s))
			} else {
				fmt.Print(report.FormatSettings(s, stats))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		strict     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that the settings document loads cleanly",
		Long: `Load the settings document and report what the lenient load had to
repair or drop. The command fails only when the document itself cannot be
parsed.

With --strict it additionally fails when any entry was skipped, any
pattern failed to compile, or a required field is missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, stats, err := loadDocument(cmd.Context())
			if err != nil {
				return err
			}

			var strictErr error
			if strict {
				strictErr = s.ValidateStrict()
				if strictErr == nil && stats.SkippedEntries > 0 {
					strictErr = errors.Errorf("%d entries were skipped during load", stats.SkippedEntries)
				}
				if strictErr == nil && stats.CompiledPatterns < stats.TotalExclusions {
					strictErr = errors.Errorf("%d of %d exclusion patterns failed to compile",
						stats.TotalExclusions-stats.CompiledPatterns, stats.TotalExclusions)
				}
			}

			if jsonOutput {
				out := struct {
					Stats  settings.LoadStats `json:"stats"`
					Strict string             `json:"strict,omitempty"`
				}{Stats: stats}
				if strict {
					if strictErr != nil {
						out.Strict = strictErr.Error()
					} else {
						out.Strict = "ok"
					}
				}
				fmt.Println(report.FormatJSON(out))
			} else {
				fmt.Print(report.FormatCheck(stats, strictErr))
			}

			if strictErr != nil {
				return errors.Errorf("strict check failed: %w", strictErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on anything the lenient load repaired or dropped")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func setStagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-staging PATH",
		Short: "Set the staging area path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := applyChange(cmd.Context(), "set-staging", strings.TrimSpace(path), "",
				func(s *settings.Settings) error {
					return s.SetStagingArea(path)
				})
			if err != nil {
				return err
			}
			fmt.Printf("Staging area set to %s\n", s.StagingArea)
			return nil
		},
	}
	return cmd
}

func setVDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-vdrive PATH",
		Short: "Set the virtual drive path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := applyChange(cmd.Context(), "set-vdrive", strings.TrimSpace(path), "",
				func(s *settings.Settings) error {
					return s.SetVDrivePath(path)
				})
			if err != nil {
				return err
			}
			fmt.Printf("V drive path set to %s\n", s.VDrivePath)
			return nil
		},
	}
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		limit      int
		show       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded revisions of the settings document",
		Long: `List the revisions committed to the history repository, newest first.

With --show HASH, print the full document as of that revision instead.
Abbreviated hashes are accepted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := gitver.Open(storage.HistoryDir(dataDir))
			if err != nil {
				return err
			}

			if show != "" {
				doc, err := h.Content(show)
				if err != nil {
					return err
				}
				fmt.Print(string(doc))
				return nil
			}

			entries, err := h.Entries(limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(report.FormatJSON(entries))
			} else {
				fmt.Print(report.FormatHistory(entries))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum revisions to list")
	cmd.Flags().StringVar(&show, "show", "", "Print the document as of this revision hash")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func changesCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List recorded changes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.EnsureDataDir(dataDir); err != nil {
				return err
			}
			j, err := journal.Open(storage.JournalPath(dataDir))
			if err != nil {
				return err
			}
			defer j.Close()

			cs, err := j.Recent(limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(report.FormatJSON(cs))
			} else {
				fmt.Print(report.FormatChanges(cs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum changes to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the settings document whenever it changes on disk",
		Long: `Watch the settings document and reassemble it after each rewrite.
Bursts of file events collapse into a single reload. Runs until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st := storage.NewStore(settingsFile)
			s, stats, err := st.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Print(report.FormatSettings(s, stats))

			w := storage.NewWatcher(st, func(s *settings.Settings, stats settings.LoadStats) {
				fmt.Printf("reloaded: %s\n", stats.Summary())
			})
			defer w.Stop()

			fmt.Printf("Watching %s (ctrl-c to stop)\n", settingsFile)
			return w.Start(ctx)
		},
	}
	return cmd
}

func menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Edit the settings document interactively",
		Long: `Run a numbered prompt loop over the same operations the subcommands
expose. Every accepted change is persisted, journaled, and committed
immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := menu.New(loadDocument, applyChange, os.Stdin, os.Stdout)
			return m.Run(cmd.Context())
		},
	}
	return cmd
}

// loadDocument assembles the settings document at the --file path.
func loadDocument(ctx context.Context) (*settings.Settings, settings.LoadStats, error) {
	s, stats, err := storage.NewStore(settingsFile).Load(ctx)
	if errors.Is(err, storage.ErrNotExists) {
		return nil, stats, errors.Errorf("%w (run \"scancfg init\" to create it)", err)
	}
	return s, stats, err
}

// applyChange runs one mutation through the store, then records it in the
// change journal and the revision history. The rewritten document is the
// source of truth; recording failures are logged and never undo it.
func applyChange(ctx context.Context, op, target, detail string, fn func(*settings.Settings) error) (*settings.Settings, error) {
	s, err := storage.NewStore(settingsFile).Update(ctx, fn)
	if err != nil {
		return nil, err
	}
	recordChange(ctx, s, op, target, detail)
	return s, nil
}

// recordChange appends one journal entry and one history revision for an
// already-persisted document. Both sinks are best effort.
func recordChange(ctx context.Context, s *settings.Settings, op, target, detail string) {
	log := zerolog.Ctx(ctx)

	if err := storage.EnsureDataDir(dataDir); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("data dir unavailable, change not recorded")
		return
	}

	if j, err := journal.Open(storage.JournalPath(dataDir)); err != nil {
		log.Warn().Err(err).Msg("change journal unavailable")
	} else {
		if err := j.Record(op, target, detail); err != nil {
			log.Warn().Err(err).Msg("recording change failed")
		}
		if err := j.Close(); err != nil {
			log.Warn().Err(err).Msg("closing change journal failed")
		}
	}

	doc, err := s.Encode()
	if err != nil {
		log.Warn().Err(err).Msg("encoding document for history failed")
		return
	}
	h, err := gitver.Open(storage.HistoryDir(dataDir))
	if err != nil {
		log.Warn().Err(err).Msg("revision history unavailable")
		return
	}
	message := strings.TrimSpace(op + " " + target)
	if _, err := h.Record(doc, message); err != nil && !errors.Is(err, gitver.ErrNoChanges) {
		log.Warn().Err(err).Msg("recording revision failed")
	}
}
