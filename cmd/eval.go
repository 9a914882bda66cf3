package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/tracker"
)

func newEvalCmd(flags *rootFlags) *cobra.Command {
	eval := &cobra.Command{
		Use:   "eval",
		Short: "Schedule and list evaluations of the active term",
	}

	var kind string
	add := &cobra.Command{
		Use:   "add COURSE DATE",
		Short: "Schedule an evaluation on DATE (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				ev, err := s.tracker.AddEvaluation(ctx, args[0], args[1], kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s %s on %s (%s)\n", ev.Course, ev.Kind, ev.Date, ev.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&kind, "kind", tracker.KindQuiz, "Evaluation kind: quiz, midterm, final or any label")
	eval.AddCommand(add)

	eval.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an evaluation by ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.DeleteEvaluation(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted evaluation %s\n", args[0])
				return nil
			})
		},
	})

	eval.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List evaluations by date",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				out := cmd.OutOrStdout()
				evals := tracker.SortedEvaluations(s.tracker.State().Active())
				if len(evals) == 0 {
					fmt.Fprintln(out, "Nothing scheduled")
					return nil
				}
				now := s.tracker.Now()
				for _, ev := range evals {
					when := "past"
					if days, err := tracker.DaysUntil(ev.Date, now); err == nil && days >= 0 {
						when = tracker.ProximityFor(days).String()
					}
					fmt.Fprintf(out, "%s  %-10s %-8s %-9s %s\n", ev.Date, ev.Course, ev.Kind, when, ev.ID)
				}
				return nil
			})
		},
	})

	return eval
}

func newTargetCmd(flags *rootFlags) *cobra.Command {
	target := &cobra.Command{
		Use:   "target",
		Short: "Weekly study targets",
	}

	target.AddCommand(&cobra.Command{
		Use:   "set COURSE HOURS",
		Short: "Set the weekly study target of a course",
		Long: "Set the weekly study target of a course. Negative hours are stored as 0;\n" +
			"pass them after -- so they are not read as flags.",
		Example: "  lexa target set Algebra 6.5\n  lexa target set Algebra -- -2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("hours must be a number: %q", args[1])
			}
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.SetWeeklyTarget(ctx, args[0], hours); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %.1f h per week\n", args[0], s.tracker.State().WeeklyTargets[args[0]])
				return nil
			})
		},
	})

	return target
}
