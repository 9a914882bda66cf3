package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/tracker"
)

// ErrRevisionNotFound is returned when a requested revision does not exist.
var ErrRevisionNotFound = errors.New("revision not found")

// Revision describes one stored copy of the document.
type Revision struct {
	Sequence      int64
	SavedAt       time.Time
	FormatVersion string
	Size          int
}

// DocumentRepo persists the whole AppState as one JSON document. Every
// Save appends a revision; Load reads the newest.
type DocumentRepo struct {
	store *Store
}

var _ tracker.Store = (*DocumentRepo)(nil)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Load returns the newest revision, or nil when nothing has been saved.
// A document that does not decode wraps tracker.ErrCorruptState.
func (r *DocumentRepo) Load(ctx context.Context) (*tracker.AppState, error) {
	b := builder()
	query, args := b.Select(colSequence, colDocument).
		From(b.Table(revisionsTable)).
		OrderBy(entsql.Desc(colSequence)).
		Limit(1).
		Query()

	var (
		seq int64
		doc []byte
	)
	err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&seq, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest revision: %w", err)
	}
	return decodeDocument(seq, doc)
}

// Revision loads the document stored under sequence seq.
func (r *DocumentRepo) Revision(ctx context.Context, seq int64) (*tracker.AppState, error) {
	b := builder()
	query, args := b.Select(colDocument).
		From(b.Table(revisionsTable)).
		Where(entsql.EQ(colSequence, seq)).
		Query()

	var doc []byte
	err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("revision %d: %w", seq, ErrRevisionNotFound)
		}
		return nil, fmt.Errorf("query revision %d: %w", seq, err)
	}
	return decodeDocument(seq, doc)
}

// Save appends s as the newest revision and prunes old ones.
func (r *DocumentRepo) Save(ctx context.Context, s *tracker.AppState) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = r.store.inTx(ctx, func(tx *sql.Tx) error {
		return r.insertRevision(ctx, tx, s.FormatVersion, doc)
	})
	if err != nil {
		return err
	}

	if err := r.Prune(ctx, r.store.keep); err != nil {
		r.store.logger.Warn("prune revisions failed", zap.Error(err))
	}
	return nil
}

// Reset deletes every revision and saves s as the only one, in a single
// transaction. Sequence numbers keep counting from where they were.
func (r *DocumentRepo) Reset(ctx context.Context, s *tracker.AppState) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		query, args := builder().Delete(revisionsTable).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear revisions: %w", err)
		}
		return r.insertRevision(ctx, tx, s.FormatVersion, doc)
	})
}

func (r *DocumentRepo) insertRevision(ctx context.Context, tx *sql.Tx, version string, doc []byte) error {
	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return err
	}
	query, args := builder().Insert(revisionsTable).
		Columns(colSequence, colSavedAt, colFormatVersion, colDocument).
		Values(seq, r.store.now().UTC(), version, string(doc)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save revision: %w", err)
	}
	return nil
}

// Prune deletes all but the newest keep revisions. The newest revision is
// always kept.
func (r *DocumentRepo) Prune(ctx context.Context, keep int) error {
	keep = max(keep, 1)
	b := builder()
	query, args := b.Select(colSequence).
		From(b.Table(revisionsTable)).
		OrderBy(entsql.Desc(colSequence)).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int64
	err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep revisions exist
		}
		return fmt.Errorf("query revisions for prune: %w", err)
	}

	query, args = b.Delete(revisionsTable).
		Where(entsql.LTE(colSequence, threshold)).
		Query()
	res, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		r.store.logger.Debug("pruned revisions", zap.Int64("deleted", n), zap.Int64("through", threshold))
	}
	return nil
}

// Revisions lists stored revisions, newest first. A limit of 0 lists all.
func (r *DocumentRepo) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	b := builder()
	sel := b.Select(colSequence, colSavedAt, colFormatVersion, colDocument).
		From(b.Table(revisionsTable)).
		OrderBy(entsql.Desc(colSequence))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev Revision
			doc []byte
		)
		if err := rows.Scan(&rev.Sequence, &rev.SavedAt, &rev.FormatVersion, &doc); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		rev.Size = len(doc)
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return out, nil
}

func decodeDocument(seq int64, doc []byte) (*tracker.AppState, error) {
	var st tracker.AppState
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("decode revision %d: %w: %w", seq, tracker.ErrCorruptState, err)
	}
	return &st, nil
}
