package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lexa/internal/app"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/studytimer"
)

// runApp opens the session and launches the TUI.
func runApp(cmd *cobra.Command, flags *rootFlags) error {
	s, err := openSession(cmd, flags, true)
	if err != nil {
		return err
	}
	defer s.Close()

	env := &screen.Env{
		Tracker:       s.tracker,
		Timer:         studytimer.New(),
		Logger:        s.log,
		Tick:          s.cfg.Timer.Tick,
		UpcomingLimit: s.cfg.Dashboard.UpcomingLimit,
	}
	return app.Run(ctxOf(cmd), env)
}
