package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/config"
	"github.com/abhisek/lexa/internal/logger"
	"github.com/abhisek/lexa/internal/store"
	"github.com/abhisek/lexa/internal/tracker"
)

// session is everything a command needs to work on the saved state.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

// openSession loads configuration, builds the logger and opens the store
// and tracker. When tui is set and no log file is configured, logs go to
// <data dir>/lexa.log so they stay off the screen.
func openSession(cmd *cobra.Command, flags *rootFlags, tui bool) (*session, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if tui && cfg.Log.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.Log.File = filepath.Join(dir, "lexa.log")
		if err := store.EnsureDir(cfg.Log.File); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(flags.db, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath,
		store.WithKeepRevisions(cfg.Store.KeepRevisions),
		store.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	tr, err := tracker.Open(ctxOf(cmd), st.Documents(),
		tracker.WithLogger(log),
		tracker.WithDefaultWeeklyHours(cfg.Planner.DefaultWeeklyHours),
	)
	if err != nil {
		st.Close()
		return nil, err
	}
	log.Debug("session opened", zap.String("db", dbPath), zap.String("term", tr.ActiveTermKey()))

	return &session{cfg: cfg, log: log, store: st, tracker: tr}, nil
}

// Close releases the store and flushes the logger.
func (s *session) Close() error {
	_ = s.log.Sync()
	return s.store.Close()
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(cmd, flags, false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctxOf(cmd), s)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
