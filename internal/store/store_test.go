package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/tracker"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lexa.db"), opts...)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDocument(key string) *tracker.AppState {
	st := tracker.NewState(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	st.ActiveTerm = key
	st.Terms[key] = &tracker.Term{
		Courses: map[string]*tracker.Course{
			"Calculus": {Grades: []grading.Entry{{Score: 5.5, Weight: 30}}, StudyMinutes: 45},
		},
		Evaluations: []tracker.Evaluation{{ID: "e1", Date: "2026-04-02", Course: "Calculus", Kind: "midterm"}},
	}
	st.WeeklyTargets["Calculus"] = 4
	return st
}

func countRevisions(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM revisions").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='revisions'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != "revisions" {
		t.Errorf("table name = %q, want 'revisions'", name)
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t)

	st, err := s.Documents().Load(context.Background())
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if st != nil {
		t.Fatal("expected nil document when none saved")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a document")
	}
	if got.ActiveTerm != "2026-1" {
		t.Errorf("active term = %q, want 2026-1", got.ActiveTerm)
	}
	c := got.Terms["2026-1"].Courses["Calculus"]
	if c == nil || len(c.Grades) != 1 || c.Grades[0].Score != 5.5 || c.StudyMinutes != 45 {
		t.Errorf("course = %+v, want one 5.5 grade and 45 minutes", c)
	}
	if n := len(got.Terms["2026-1"].Evaluations); n != 1 {
		t.Errorf("evaluations = %d, want 1", n)
	}
}

func TestLoadReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	for _, key := range []string{"2025-1", "2025-2", "2026-1"} {
		if err := repo.Save(ctx, sampleDocument(key)); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ActiveTerm != "2026-1" {
		t.Errorf("active term = %q, want 2026-1", got.ActiveTerm)
	}
}

func TestSavePrunesToKeep(t *testing.T) {
	s := openTestStore(t, WithKeepRevisions(3))
	repo := s.Documents()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if n := countRevisions(t, s); n != 3 {
		t.Errorf("remaining revisions = %d, want 3", n)
	}

	revs, err := repo.Revisions(ctx, 0)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 3 || revs[0].Sequence != 7 || revs[2].Sequence != 5 {
		t.Errorf("revisions = %+v, want sequences 7..5", revs)
	}
}

func TestPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countRevisions(t, s); n != 2 {
		t.Errorf("remaining revisions = %d, want 2", n)
	}

	// Zero still keeps the newest revision.
	if err := repo.Prune(ctx, 0); err != nil {
		t.Fatalf("prune 0: %v", err)
	}
	if n := countRevisions(t, s); n != 1 {
		t.Errorf("remaining revisions = %d, want 1", n)
	}
}

func TestRevisionsListing(t *testing.T) {
	saved := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := openTestStore(t, WithClock(func() time.Time { return saved }))
	repo := s.Documents()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	revs, err := repo.Revisions(ctx, 2)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("len = %d, want 2", len(revs))
	}
	if revs[0].Sequence != 3 {
		t.Errorf("first sequence = %d, want 3", revs[0].Sequence)
	}
	if !revs[0].SavedAt.Equal(saved) {
		t.Errorf("saved at = %v, want %v", revs[0].SavedAt, saved)
	}
	if revs[0].FormatVersion != tracker.FormatVersion {
		t.Errorf("format version = %q", revs[0].FormatVersion)
	}
	if revs[0].Size == 0 {
		t.Error("expected non-zero document size")
	}
}

func TestRevisionBySequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	for _, key := range []string{"2025-2", "2026-1"} {
		if err := repo.Save(ctx, sampleDocument(key)); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	got, err := repo.Revision(ctx, 1)
	if err != nil {
		t.Fatalf("revision 1: %v", err)
	}
	if got.ActiveTerm != "2025-2" {
		t.Errorf("active term = %q, want 2025-2", got.ActiveTerm)
	}

	_, err = repo.Revision(ctx, 99)
	if !errors.Is(err, ErrRevisionNotFound) {
		t.Errorf("err = %v, want ErrRevisionNotFound", err)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Reset(ctx, sampleDocument("2027-1")); err != nil {
		t.Fatalf("reset: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.ActiveTerm != "2027-1" {
		t.Fatalf("document after reset = %+v, want active term 2027-1", got)
	}

	// Sequence numbers keep increasing across a reset.
	revs, err := repo.Revisions(ctx, 0)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 1 || revs[0].Sequence != 4 {
		t.Errorf("revisions = %+v, want a single sequence 4", revs)
	}
}

func TestResetRollsBackOnFailure(t *testing.T) {
	s := openTestStore(t)
	repo := s.Documents()
	ctx := context.Background()

	if err := repo.Save(ctx, sampleDocument("2026-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := s.DB().Exec(`CREATE TRIGGER reject_revisions BEFORE INSERT ON revisions
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := repo.Reset(ctx, sampleDocument("2027-1")); err == nil {
		t.Fatal("expected reset to fail")
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.ActiveTerm != "2026-1" {
		t.Fatalf("document after failed reset = %+v, want the earlier save", got)
	}
	if n := countRevisions(t, s); n != 1 {
		t.Errorf("revisions after failed reset = %d, want 1", n)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(
		"INSERT INTO revisions (sequence, saved_at, format_version, document) VALUES (?, ?, ?, ?)",
		1, time.Now().UTC(), "v1.0.0", "{not json",
	)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = s.Documents().Load(ctx)
	if !errors.Is(err, tracker.ErrCorruptState) {
		t.Fatalf("err = %v, want ErrCorruptState", err)
	}
}

func TestTrackerOverStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexa.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tr, err := tracker.Open(ctx, s.Documents())
	if err != nil {
		t.Fatalf("tracker open: %v", err)
	}
	if err := tr.AddCourse(ctx, "History"); err != nil {
		t.Fatalf("add course: %v", err)
	}
	if err := tr.AddGrade(ctx, "History", 6.2, 40); err != nil {
		t.Fatalf("add grade: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	tr, err = tracker.Open(ctx, s.Documents())
	if err != nil {
		t.Fatalf("tracker reopen: %v", err)
	}
	c := tr.State().Active().Courses["History"]
	if c == nil || len(c.Grades) != 1 {
		t.Fatalf("course after reopen = %+v", c)
	}
}

func TestRevisionSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexa.db")
	ctx := context.Background()

	s, err := Open(path, WithKeepRevisions(2))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Documents().Save(ctx, sampleDocument("2026-1")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	s.Close()

	// Reopening reseeds nothing; the counter continues after pruned rows.
	s, err = Open(path, WithKeepRevisions(2))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if err := s.Documents().Save(ctx, sampleDocument("2026-1")); err != nil {
		t.Fatalf("save after reopen: %v", err)
	}

	revs, err := s.Documents().Revisions(ctx, 0)
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	var seqs []int64
	for _, r := range revs {
		seqs = append(seqs, r.Sequence)
	}
	if len(seqs) != 2 || seqs[0] != 4 || seqs[1] != 3 {
		t.Errorf("sequences = %v, want [4 3]", seqs)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("LEXA_DB", filepath.Join(dir, "custom", "my.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path (env): %v", err)
	}
	if p != filepath.Join(dir, "custom", "my.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("LEXA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path (xdg): %v", err)
	}
	if p != filepath.Join(dir, "lexa", "lexa.db") {
		t.Errorf("path = %q", p)
	}
}
