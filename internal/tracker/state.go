package tracker

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/abhisek/lexa/internal/grading"
)

// FormatVersion is the document format written by this version.
const FormatVersion = "v1.0.0"

// DefaultWeeklyHours is the suggested weekly study time for a new course.
const DefaultWeeklyHours = 4.0

// DateLayout is the calendar date format used throughout the document.
const DateLayout = "2006-01-02"

// Evaluation kinds offered by the planner. Any non-empty kind is accepted.
const (
	KindQuiz    = "quiz"
	KindMidterm = "midterm"
	KindFinal   = "final"
)

// Course is a subject tracked within a term.
type Course struct {
	Grades       []grading.Entry `json:"notas"`
	StudyMinutes int             `json:"horasEstudiadas"`
}

// Status evaluates the course's grade entries.
func (c *Course) Status() grading.Status {
	return grading.Evaluate(c.Grades)
}

// Evaluation is a scheduled graded event.
type Evaluation struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Course string `json:"ramo"`
	Kind   string `json:"tipo"`
}

// StudySession is a logged block of focused study time.
type StudySession struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Course  string `json:"ramo"`
	Minutes int    `json:"minutes"`
}

// Term is an academic period keyed as "YYYY-1" or "YYYY-2".
type Term struct {
	Courses     map[string]*Course `json:"ramos"`
	Evaluations []Evaluation       `json:"evaluaciones"`
}

// CourseNames returns the term's course names in sorted order.
func (t *Term) CourseNames() []string {
	return slices.Sorted(maps.Keys(t.Courses))
}

// AppState is the whole persisted document.
type AppState struct {
	FormatVersion string             `json:"formatVersion,omitempty"`
	ActiveTerm    string             `json:"activeSemester"`
	Terms         map[string]*Term   `json:"semestres"`
	Sessions      []StudySession     `json:"studySessions"`
	WeeklyTargets map[string]float64 `json:"weeklyTargets"`
}

// NewState returns the first-run state: one empty term for the current
// calendar half.
func NewState(now time.Time) *AppState {
	key := TermKeyFor(now)
	return &AppState{
		FormatVersion: FormatVersion,
		ActiveTerm:    key,
		Terms:         map[string]*Term{key: newTerm()},
		Sessions:      []StudySession{},
		WeeklyTargets: map[string]float64{},
	}
}

// TermKeyFor returns the term key of the calendar half containing t.
// January through June is the first half.
func TermKeyFor(t time.Time) string {
	half := 1
	if t.Month() > time.June {
		half = 2
	}
	return fmt.Sprintf("%d-%d", t.Year(), half)
}

// TermKeys returns all term keys, newest first.
func (s *AppState) TermKeys() []string {
	keys := slices.Collect(maps.Keys(s.Terms))
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// Active returns the active term. The term always exists after Normalize.
func (s *AppState) Active() *Term {
	return s.Terms[s.ActiveTerm]
}

// Normalize fills missing collections with empty defaults and heals the
// active-term invariant. A missing active key falls back to the newest term,
// then to the term for now.
func (s *AppState) Normalize(now time.Time) {
	if s.FormatVersion == "" {
		s.FormatVersion = FormatVersion
	}
	if s.Terms == nil {
		s.Terms = map[string]*Term{}
	}
	if s.Sessions == nil {
		s.Sessions = []StudySession{}
	}
	if s.WeeklyTargets == nil {
		s.WeeklyTargets = map[string]float64{}
	}
	for key, term := range s.Terms {
		if term == nil {
			term = newTerm()
			s.Terms[key] = term
		}
		if term.Courses == nil {
			term.Courses = map[string]*Course{}
		}
		if term.Evaluations == nil {
			term.Evaluations = []Evaluation{}
		}
		for name, c := range term.Courses {
			if c == nil {
				term.Courses[name] = &Course{Grades: []grading.Entry{}}
			} else if c.Grades == nil {
				c.Grades = []grading.Entry{}
			}
		}
	}
	if s.ActiveTerm == "" {
		if keys := s.TermKeys(); len(keys) > 0 {
			s.ActiveTerm = keys[0]
		} else {
			s.ActiveTerm = TermKeyFor(now)
		}
	}
	s.ensureTerm(s.ActiveTerm)
}

// ensureTerm creates an empty term for key if missing.
func (s *AppState) ensureTerm(key string) *Term {
	term, ok := s.Terms[key]
	if !ok {
		term = newTerm()
		s.Terms[key] = term
	}
	return term
}

// fillWeeklyTargets gives every course of the active term a weekly target.
func (s *AppState) fillWeeklyTargets(hours float64) {
	for name := range s.Active().Courses {
		if _, ok := s.WeeklyTargets[name]; !ok {
			s.WeeklyTargets[name] = hours
		}
	}
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		FormatVersion: s.FormatVersion,
		ActiveTerm:    s.ActiveTerm,
		Terms:         make(map[string]*Term, len(s.Terms)),
		Sessions:      slices.Clone(s.Sessions),
		WeeklyTargets: maps.Clone(s.WeeklyTargets),
	}
	for key, term := range s.Terms {
		if term == nil {
			out.Terms[key] = nil
			continue
		}
		t := &Term{
			Courses:     make(map[string]*Course, len(term.Courses)),
			Evaluations: slices.Clone(term.Evaluations),
		}
		for name, c := range term.Courses {
			if c == nil {
				t.Courses[name] = nil
				continue
			}
			t.Courses[name] = &Course{
				Grades:       slices.Clone(c.Grades),
				StudyMinutes: c.StudyMinutes,
			}
		}
		out.Terms[key] = t
	}
	return out
}

func newTerm() *Term {
	return &Term{
		Courses:     map[string]*Course{},
		Evaluations: []Evaluation{},
	}
}
