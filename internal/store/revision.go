package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

// seedCounter inserts the counter row unless an earlier Open already did.
func seedCounter(ctx context.Context, db *sql.DB) error {
	query, args := builder().Insert(counterTable).
		Columns(colID, colLastSequence).
		Values(counterRowID, 0).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed revision counter: %w", err)
	}
	return nil
}

// nextSequence bumps the counter inside tx and returns the new value. The
// bump commits or rolls back together with the revision that uses it, so
// sequences have no gaps from failed saves. Sequences start at 1.
func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	b := builder()
	query, args := b.Update(counterTable).
		Add(colLastSequence, 1).
		Where(entsql.EQ(colID, counterRowID)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("bump revision counter: %w", err)
	}

	query, args = b.Select(colLastSequence).
		From(b.Table(counterTable)).
		Where(entsql.EQ(colID, counterRowID)).
		Query()
	var seq int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("read revision counter: %w", err)
	}
	return seq, nil
}

// inTx runs fn inside a transaction and commits when it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			s.logger.Warn("rollback failed", zap.Error(rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
