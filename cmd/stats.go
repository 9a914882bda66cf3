package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the active term at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				d := s.tracker.Dashboard(s.cfg.Dashboard.UpcomingLimit)
				writeDashboard(cmd, d)
				return nil
			})
		},
	}
}

func writeDashboard(cmd *cobra.Command, d tracker.Dashboard) {
	out := cmd.OutOrStdout()
	sum := d.Summary

	fmt.Fprintf(out, "Term %s\n", d.TermKey)
	fmt.Fprintf(out, "Average: %s\n", components.Score(sum.Average))
	fmt.Fprintf(out, "Graded:  %d of %d courses\n", sum.GradedCourses, sum.TotalCourses)
	fmt.Fprintf(out, "Study:   %.2f h\n", tracker.Hours(sum.StudyMinutes))
	if len(sum.AtRisk) > 0 {
		fmt.Fprintf(out, "At risk: %s\n", strings.Join(sum.AtRisk, ", "))
	}

	fmt.Fprintln(out)
	if len(d.Upcoming) == 0 {
		fmt.Fprintln(out, "Nothing scheduled")
	} else {
		fmt.Fprintln(out, "Upcoming")
		for _, u := range d.Upcoming {
			fmt.Fprintf(out, "  %s  %-10s %-8s %s\n", u.Date, u.Course, u.Kind, u.Proximity)
		}
	}

	if len(d.Courses) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.CourseTable(d.Courses, false))
	}
}
