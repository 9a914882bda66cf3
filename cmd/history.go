package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List stored revisions of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				revs, err := s.store.Documents().Revisions(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range revs {
					fmt.Fprintf(out, "%6d  %s  %-8s %6d bytes\n",
						r.Sequence, r.SavedAt.Local().Format("2006-01-02 15:04:05"), r.FormatVersion, r.Size)
				}
				return nil
			})
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 10, "Number of revisions to show (0 for all)")

	history.AddCommand(&cobra.Command{
		Use:   "restore SEQ",
		Short: "Make a stored revision the current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("revision must be an integer: %q", args[0])
			}
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				st, err := s.store.Documents().Revision(ctx, seq)
				if err != nil {
					return err
				}
				if err := s.tracker.Replace(ctx, st); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored revision %d (active term %s)\n", seq, s.tracker.ActiveTermKey())
				return nil
			})
		},
	})

	return history
}
