package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/spf13/cobra"
)

func newStreakCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Print the current streak of consecutive active days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withSession(func(s *session) error {
				fmt.Fprintln(cmd.OutOrStdout(), s.tracker.Streak())
				return nil
			})
		},
	}
}

func newStatsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show today's progress, streak, lifetime total and recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			return r.withSession(func(s *session) error {
				if days <= 0 {
					days = s.tracker.Settings().HistoryDays
				}
				sum, err := s.tracker.Summary()
				if err != nil {
					return err
				}
				history, err := s.tracker.History(days, 0)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				t := sum.Today
				fmt.Fprintf(out, "%s  %s / %s (%.0f%%)\n", Primary("Today"),
					humanize.Comma(int64(t.Count)), humanize.Comma(int64(t.Target)), ledger.Progress(t.Count, t.Target))
				fmt.Fprintf(out, "%s  %d %s\n", Primary("Streak"), sum.Streak, plural(sum.Streak, "day", "days"))
				fmt.Fprintf(out, "%s  %s\n", Primary("Lifetime"), humanize.Comma(int64(sum.Lifetime)))
				fmt.Fprintf(out, "%s  %d of %d days\n", Primary("Targets met"), sum.DaysMet, sum.DaysRecorded)
				if sum.Best.Count > 0 {
					fmt.Fprintf(out, "%s  %s on %s\n", Primary("Best day"), humanize.Comma(int64(sum.Best.Count)), sum.Best.Date)
				}
				if sum.Planned > 0 {
					fmt.Fprintf(out, "%s  %d upcoming\n", Primary("Plans"), sum.Planned)
				}

				fmt.Fprintln(out)
				for _, e := range history {
					mark := " "
					if ledger.Met(e) {
						mark = Success("✓")
					}
					// Unrecorded past days carry no target.
					target, pct := "-", "-"
					if e.Target > 0 {
						target = humanize.Comma(int64(e.Target))
						pct = fmt.Sprintf("%.0f%%", ledger.Progress(e.Count, e.Target))
					}
					fmt.Fprintf(out, "%s %-12s %8s / %-8s %s\n", mark, e.Date,
						humanize.Comma(int64(e.Count)), target, Silent(pct))
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("days", 0, "number of recent days to list (default: history_days setting)")
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
