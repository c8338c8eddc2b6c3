package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/spf13/cobra"
)

func newAddCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "add [n]",
		Short: "Add to today's count (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := 1
			if len(args) == 1 {
				n, err := parseInt(args[0], "count")
				if err != nil {
					return err
				}
				delta = n
			}
			return r.withSession(func(s *session) error {
				res, err := s.tracker.Add(delta)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newCountCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <n>",
		Short: "Set the count for today or another day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt(args[0], "count")
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			return r.withSession(func(s *session) error {
				if date == "" {
					date = s.tracker.Today()
				}
				res, err := s.tracker.SetCount(date, n)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	cmd.Flags().String("date", "", "day to record (YYYY-MM-DD, default: today)")
	return cmd
}

func newTargetCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target <n>",
		Short: "Set today's target, plan a future one, or correct a past one",
		Long: `Set the daily target.

Without --date the target applies to today. A future --date records a plan
that becomes the target when that day arrives. Past days keep the target
they were recorded with; pass --correct to change one anyway.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt(args[0], "target")
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			correct, _ := cmd.Flags().GetBool("correct")

			return r.withSession(func(s *session) error {
				today := s.tracker.Today()
				if date == "" {
					date = today
				}
				out := cmd.OutOrStdout()
				if correct {
					if err := s.tracker.CorrectTarget(date, n); err != nil {
						return err
					}
					fmt.Fprintf(out, "Target for %s corrected to %d\n", date, n)
					return nil
				}
				if err := s.tracker.SetTarget(date, n); err != nil {
					if date < today {
						return fmt.Errorf("%w (use --correct to edit a past day)", err)
					}
					return err
				}
				if date > today {
					fmt.Fprintf(out, "Planned target %d for %s\n", n, date)
				} else {
					fmt.Fprintf(out, "Today's target set to %d\n", n)
				}
				return nil
			})
		},
	}
	cmd.Flags().String("date", "", "day to set (YYYY-MM-DD, default: today)")
	cmd.Flags().Bool("correct", false, "allow changing the target of a past day")
	return cmd
}

func printRecord(w io.Writer, res ledger.RecordResult) {
	e := res.Entry
	fmt.Fprintf(w, "%s: %d / %d (%.0f%%)\n", e.Date, e.Count, e.Target, ledger.Progress(e.Count, e.Target))
	if res.TargetJustMet {
		fmt.Fprintln(w, "Target reached. May it be accepted.")
	}
}

func parseInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %q", ledger.ErrInvalidArgument, what, s)
	}
	return n, nil
}
