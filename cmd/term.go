package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTermCmd(flags *rootFlags) *cobra.Command {
	term := &cobra.Command{
		Use:   "term",
		Short: "List, create and switch terms",
	}

	term.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List terms, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				out := cmd.OutOrStdout()
				for _, h := range s.tracker.History() {
					marker := " "
					if h.Active {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s  %d courses\n", marker, h.Key, len(h.Courses))
				}
				return nil
			})
		},
	})

	term.AddCommand(&cobra.Command{
		Use:   "new KEY",
		Short: "Create a term (e.g. 2026-1) and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.CreateTerm(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active term: %s\n", s.tracker.ActiveTermKey())
				return nil
			})
		},
	})

	term.AddCommand(&cobra.Command{
		Use:   "use KEY",
		Short: "Switch the active term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := s.tracker.SwitchTerm(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active term: %s\n", s.tracker.ActiveTermKey())
				return nil
			})
		},
	})

	return term
}
