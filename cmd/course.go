package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
)

func newCourseCmd(flags *rootFlags) *cobra.Command {
	course := &cobra.Command{
		Use:   "course",
		Short: "Manage courses of the active term",
	}

	course.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.AddCourse(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", args[0], s.tracker.ActiveTermKey())
				return nil
			})
		},
	})

	course.AddCommand(&cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Delete a course with its evaluations",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.DeleteCourse(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	})

	course.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the course table of the active term",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				d := s.tracker.Dashboard(s.cfg.Dashboard.UpcomingLimit)
				out := cmd.OutOrStdout()
				if len(d.Courses) == 0 {
					fmt.Fprintf(out, "No courses in %s\n", d.TermKey)
					return nil
				}
				fmt.Fprintln(out, components.CourseTable(d.Courses, false))
				return nil
			})
		},
	})

	return course
}

func newGradeCmd(flags *rootFlags) *cobra.Command {
	grade := &cobra.Command{
		Use:   "grade",
		Short: "Record or remove course grades",
	}

	grade.AddCommand(&cobra.Command{
		Use:   "add COURSE SCORE WEIGHT",
		Short: "Add a score (1-7) worth WEIGHT percent of the course",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("score must be a number: %q", args[1])
			}
			weight, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("weight must be a number: %q", args[2])
			}
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.AddGrade(ctx, args[0], score, weight); err != nil {
					return err
				}
				c := s.tracker.State().Active().Courses[args[0]]
				fmt.Fprintln(cmd.OutOrStdout(), c.Status().Message())
				return nil
			})
		},
	})

	grade.AddCommand(&cobra.Command{
		Use:     "rm COURSE [N]",
		Aliases: []string{"remove"},
		Short:   "Remove grade N (1-based), or the last one",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				c, ok := s.tracker.State().Active().Courses[args[0]]
				if !ok {
					return fmt.Errorf("%q: %w", args[0], tracker.ErrCourseNotFound)
				}
				index := len(c.Grades) - 1
				if len(args) == 2 {
					n, err := strconv.Atoi(args[1])
					if err != nil {
						return fmt.Errorf("grade number must be an integer: %q", args[1])
					}
					index = n - 1
				}
				if err := s.tracker.DeleteGrade(ctx, args[0], index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed grade %d of %s\n", index+1, args[0])
				return nil
			})
		},
	})

	return grade
}
