package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/grading"
)

// Store persists the whole AppState as one document.
type Store interface {
	// Load returns the saved state, or nil if nothing was saved yet.
	Load(ctx context.Context) (*AppState, error)

	// Save overwrites the saved state with s.
	Save(ctx context.Context, s *AppState) error

	// Reset discards every saved state and saves s in its place. It either
	// succeeds as a whole or leaves the saved state untouched.
	Reset(ctx context.Context, s *AppState) error
}

// Tracker owns the application state. Every mutation validates its input,
// applies the change to a copy, saves the whole document and only then
// replaces the in-memory state.
type Tracker struct {
	store       Store
	state       *AppState
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
	weeklyHours float64
	validator   *inputValidator
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides the UUID generator for evaluations and sessions.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// WithDefaultWeeklyHours sets the weekly target given to new courses.
func WithDefaultWeeklyHours(h float64) Option {
	return func(t *Tracker) { t.weeklyHours = h }
}

// Open loads the saved state, or starts a fresh one. An unreadable document
// is logged and replaced with defaults.
func Open(ctx context.Context, store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:       store,
		logger:      zap.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
		weeklyHours: DefaultWeeklyHours,
		validator:   newInputValidator(),
	}
	for _, opt := range opts {
		opt(t)
	}

	state, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptState):
		t.logger.Warn("discarding unreadable saved state", zap.Error(err))
		state = nil
	case err != nil:
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state == nil {
		state = NewState(t.now())
	}
	state.Normalize(t.now())
	state.fillWeeklyTargets(t.weeklyHours)

	if err := store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save initial state: %w", err)
	}
	t.state = state
	return t, nil
}

// State returns a copy of the current state.
func (t *Tracker) State() *AppState {
	return t.state.Clone()
}

// ActiveTermKey returns the key of the active term.
func (t *Tracker) ActiveTermKey() string {
	return t.state.ActiveTerm
}

// Summary aggregates the active term.
func (t *Tracker) Summary() TermSummary {
	return Summarize(t.state.Active())
}

// CreateTerm creates a term (if new) and makes it active.
func (t *Tracker) CreateTerm(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if err := t.validator.check(termInput{Key: key}); err != nil {
		return err
	}
	return t.mutate(ctx, "create term", func(s *AppState) error {
		s.ensureTerm(key)
		s.ActiveTerm = key
		return nil
	})
}

// SwitchTerm activates an existing term. Unknown keys must be valid term
// keys and are created.
func (t *Tracker) SwitchTerm(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if _, ok := t.state.Terms[key]; !ok {
		return t.CreateTerm(ctx, key)
	}
	return t.mutate(ctx, "switch term", func(s *AppState) error {
		s.ActiveTerm = key
		return nil
	})
}

// AddCourse adds an empty course to the active term.
func (t *Tracker) AddCourse(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := t.validator.check(courseInput{Name: name}); err != nil {
		return err
	}
	return t.mutate(ctx, "add course", func(s *AppState) error {
		term := s.Active()
		if _, ok := term.Courses[name]; ok {
			return fmt.Errorf("%q: %w", name, ErrCourseExists)
		}
		term.Courses[name] = &Course{Grades: []grading.Entry{}}
		if _, ok := s.WeeklyTargets[name]; !ok {
			s.WeeklyTargets[name] = t.weeklyHours
		}
		return nil
	})
}

// DeleteCourse removes a course from the active term together with its
// evaluations, its study sessions and its weekly target.
func (t *Tracker) DeleteCourse(ctx context.Context, name string) error {
	return t.mutate(ctx, "delete course", func(s *AppState) error {
		term := s.Active()
		if _, ok := term.Courses[name]; !ok {
			return fmt.Errorf("%q: %w", name, ErrCourseNotFound)
		}
		delete(term.Courses, name)
		term.Evaluations = slices.DeleteFunc(term.Evaluations, func(e Evaluation) bool {
			return e.Course == name
		})
		s.Sessions = slices.DeleteFunc(s.Sessions, func(ss StudySession) bool {
			return ss.Course == name
		})
		delete(s.WeeklyTargets, name)
		return nil
	})
}

// AddGrade appends a grade entry to a course of the active term. Score and
// weight are stored rounded to two decimals; the weight is validated after
// rounding so nothing below 0.005 is stored as a zero weight.
func (t *Tracker) AddGrade(ctx context.Context, course string, score, weight float64) error {
	weight = grading.Round2(weight)
	in := gradeInput{Course: course, Score: score, Weight: weight}
	if err := t.validator.check(in); err != nil {
		return err
	}
	return t.mutate(ctx, "add grade", func(s *AppState) error {
		c, ok := s.Active().Courses[course]
		if !ok {
			return fmt.Errorf("%q: %w", course, ErrCourseNotFound)
		}
		if grading.Round2(grading.TotalWeight(c.Grades)+weight) > grading.FullWeight {
			return ErrWeightExceeded
		}
		c.Grades = append(c.Grades, grading.Entry{
			Score:  grading.Round2(score),
			Weight: weight,
		})
		return nil
	})
}

// DeleteGrade removes the grade entry at index from a course.
func (t *Tracker) DeleteGrade(ctx context.Context, course string, index int) error {
	return t.mutate(ctx, "delete grade", func(s *AppState) error {
		c, ok := s.Active().Courses[course]
		if !ok {
			return fmt.Errorf("%q: %w", course, ErrCourseNotFound)
		}
		if index < 0 || index >= len(c.Grades) {
			return fmt.Errorf("index %d: %w", index, ErrGradeNotFound)
		}
		c.Grades = slices.Delete(c.Grades, index, index+1)
		return nil
	})
}

// AddEvaluation schedules an evaluation for a course of the active term.
func (t *Tracker) AddEvaluation(ctx context.Context, course, date, kind string) (Evaluation, error) {
	in := evaluationInput{
		Course: course,
		Date:   strings.TrimSpace(date),
		Kind:   strings.TrimSpace(kind),
	}
	if err := t.validator.check(in); err != nil {
		return Evaluation{}, err
	}
	ev := Evaluation{ID: t.newID(), Date: in.Date, Course: course, Kind: in.Kind}
	err := t.mutate(ctx, "add evaluation", func(s *AppState) error {
		term := s.Active()
		if _, ok := term.Courses[course]; !ok {
			return fmt.Errorf("%q: %w", course, ErrCourseNotFound)
		}
		term.Evaluations = append(term.Evaluations, ev)
		return nil
	})
	if err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// DeleteEvaluation removes an evaluation of the active term by ID.
func (t *Tracker) DeleteEvaluation(ctx context.Context, id string) error {
	return t.mutate(ctx, "delete evaluation", func(s *AppState) error {
		term := s.Active()
		i := slices.IndexFunc(term.Evaluations, func(e Evaluation) bool { return e.ID == id })
		if i < 0 {
			return fmt.Errorf("%q: %w", id, ErrEvaluationNotFound)
		}
		term.Evaluations = slices.Delete(term.Evaluations, i, i+1)
		return nil
	})
}

// SetWeeklyTarget sets the suggested weekly study hours for a course.
// Negative values clamp to zero; NaN resets to the default.
func (t *Tracker) SetWeeklyTarget(ctx context.Context, course string, hours float64) error {
	switch {
	case math.IsNaN(hours):
		hours = t.weeklyHours
	case hours < 0:
		hours = 0
	}
	return t.mutate(ctx, "set weekly target", func(s *AppState) error {
		if _, ok := s.Active().Courses[course]; !ok {
			return fmt.Errorf("%q: %w", course, ErrCourseNotFound)
		}
		s.WeeklyTargets[course] = hours
		return nil
	})
}

// CommitStudy adds minutes of study to a course of the active term and
// logs a study session. It reports false without error when there is
// nothing to record or the course no longer exists.
func (t *Tracker) CommitStudy(ctx context.Context, course string, minutes int, at time.Time) (bool, error) {
	if minutes <= 0 {
		return false, nil
	}
	if _, ok := t.state.Active().Courses[course]; !ok {
		t.logger.Info("study time dropped, course is gone",
			zap.String("course", course), zap.Int("minutes", minutes))
		return false, nil
	}
	err := t.mutate(ctx, "commit study", func(s *AppState) error {
		s.Active().Courses[course].StudyMinutes += minutes
		s.Sessions = append(s.Sessions, StudySession{
			ID:      t.newID(),
			Date:    at.Format(DateLayout),
			Course:  course,
			Minutes: minutes,
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Replace swaps the whole state for an imported one.
func (t *Tracker) Replace(ctx context.Context, s *AppState) error {
	next := s.Clone()
	next.Normalize(t.now())
	next.fillWeeklyTargets(t.weeklyHours)
	if err := t.store.Save(ctx, next); err != nil {
		return fmt.Errorf("replace: save state: %w", err)
	}
	t.state = next
	t.logger.Info("state replaced", zap.Int("terms", len(next.Terms)))
	return nil
}

// ResetAll wipes the store and starts over with the first-run state. On
// failure both the store and the in-memory state keep their old contents.
func (t *Tracker) ResetAll(ctx context.Context) error {
	next := NewState(t.now())
	if err := t.store.Reset(ctx, next); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	t.state = next
	t.logger.Info("state reset")
	return nil
}

func (t *Tracker) mutate(ctx context.Context, op string, fn func(*AppState) error) error {
	next := t.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.Normalize(t.now())
	next.fillWeeklyTargets(t.weeklyHours)
	if err := t.store.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: save state: %w", op, err)
	}
	t.state = next
	t.logger.Debug("state updated", zap.String("op", op), zap.String("term", next.ActiveTerm))
	return nil
}
