package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/store"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	db       string
	config   string
	logLevel string
}

// NewRootCmd builds the lexa command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "lexa",
		Short: "Personal academic tracker",
		Long: "Lexa tracks grades, exams and study time per term, tells you what you need\n" +
			"on the remaining evaluations to pass, and times your study sessions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.db, "db", "", "Path to SQLite database file (overrides LEXA_DB and config)")
	root.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (default $XDG_CONFIG_HOME/lexa/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newTermCmd(flags),
		newCourseCmd(flags),
		newGradeCmd(flags),
		newEvalCmd(flags),
		newTargetCmd(flags),
		newStatsCmd(flags),
		newHistoryCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
		newResetCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(flagPath, configured string) (string, error) {
	if flagPath != "" {
		return flagPath, store.EnsureDir(flagPath)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
