package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or edit targets for upcoming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			return r.withSession(func(s *session) error {
				if days <= 0 {
					days = s.tracker.Settings().PlanDays
				}
				rows, err := s.tracker.Upcoming(days)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, Silent(fmt.Sprintf("%-12s %8s  %s", "DATE", "TARGET", "SOURCE")))
				for _, row := range rows {
					source := Silent("default")
					switch {
					case row.Recorded:
						source = Primary("recorded")
					case row.Planned:
						source = Primary("planned")
					}
					fmt.Fprintf(out, "%-12s %8d  %s\n", row.Date, row.Target, source)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("days", 0, "number of upcoming days (default: plan_days setting)")

	cmd.AddCommand(newPlanSetCmd(r), newPlanClearCmd(r))
	return cmd
}

func newPlanSetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "set <date> <n>",
		Short: "Plan the target for a future day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			n, err := parseInt(args[1], "target")
			if err != nil {
				return err
			}
			return r.withSession(func(s *session) error {
				if date <= s.tracker.Today() {
					return fmt.Errorf("plan date %s must be after today; use 'target' for today", date)
				}
				if err := s.tracker.SetTarget(date, n); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Planned target %d for %s\n", n, date)
				if e, ok := s.tracker.Ledger().Entry(date); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already has a count; its target stays %d\n", date, e.Target)
				}
				return nil
			})
		},
	}
}

func newPlanClearCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <date>",
		Short: "Remove the planned target for a future day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			return r.withSession(func(s *session) error {
				removed, err := s.tracker.ClearPlan(date)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared plan for %s\n", date)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "No plan for %s\n", date)
				}
				return nil
			})
		},
	}
}
