package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/istighfar/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV or a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			path, _ := cmd.Flags().GetString("out")
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}

			return r.withSession(func(s *session) error {
				if path == "" {
					home, err := os.UserHomeDir()
					if err != nil {
						return err
					}
					path = filepath.Join(home, fmt.Sprintf("istighfar-export-%s.%s", s.tracker.Today(), format))
				}

				l := s.tracker.Ledger()
				var err error
				if format == "csv" {
					err = export.ToCSV(l.Entries(), path)
				} else {
					err = export.ToJSON(l, path)
				}
				if err != nil {
					return err
				}
				s.log.Info("ledger exported", zap.String("path", path), zap.String("format", format))
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d days to %s\n", l.EntryCount(), path)
				return nil
			})
		},
	}
	cmd.Flags().String("format", "csv", "export format: csv or json")
	cmd.Flags().StringP("out", "o", "", "output file (default: ~/istighfar-export-<date>.<format>)")
	return cmd
}

func newImportCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the ledger with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, stats, err := export.FromJSON(args[0])
			if err != nil {
				return err
			}
			return r.withSession(func(s *session) error {
				if stats.Dropped > 0 {
					s.log.Warn("import dropped invalid records",
						zap.String("path", args[0]), zap.Int("dropped", stats.Dropped))
				}
				if err := s.tracker.Replace(l); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d days and %d plans", l.EntryCount(), l.PlanCount())
				if stats.Dropped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d invalid records skipped)", stats.Dropped)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}
