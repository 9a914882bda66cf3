package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/backup"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		format string
		out    string
	)

	export := &cobra.Command{
		Use:   "export",
		Short: "Write the tracked data to a backup, spreadsheet or calendar file",
		Long: "Export writes the whole document as JSON (the format import reads back),\n" +
			"an XLSX workbook with one sheet per term, or an ICS calendar of the\n" +
			"active term's evaluations. Use --out - to write to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := backup.ParseFormat(format)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				now := s.tracker.Now()
				state := s.tracker.State()

				if out == "-" {
					return backup.Export(cmd.OutOrStdout(), state, f, now)
				}

				path := out
				if path == "" {
					path = backup.FileName(now, f)
				}
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := backup.Export(file, state, f, now); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}

	names := make([]string, len(backup.Formats))
	for i, f := range backup.Formats {
		names[i] = string(f)
	}
	export.Flags().StringVarP(&format, "format", "f", string(backup.FormatJSON), "Output format: "+strings.Join(names, ", "))
	export.Flags().StringVarP(&out, "out", "o", "", "Output path (default lexa-backup-YYYY-MM-DD.<format>)")
	return export
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all tracked data with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer file.Close()

			return withSession(cmd, flags, func(ctx context.Context, s *session) error {
				if err := backup.Import(ctx, file, s.tracker); err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				st := s.tracker.State()
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d terms, active term %s\n", len(st.Terms), st.ActiveTerm)
				return nil
			})
		},
	}
}
