package tracker

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/lexa/internal/grading"
)

// DefaultUpcomingLimit is how many upcoming evaluations the dashboard shows.
const DefaultUpcomingLimit = 5

// Proximity buckets how close an evaluation is.
type Proximity int

const (
	ProximityToday    Proximity = iota // due today
	ProximitySoon                      // within 3 days
	ProximityThisWeek                  // within 7 days
	ProximityLater
)

func (p Proximity) String() string {
	switch p {
	case ProximityToday:
		return "today"
	case ProximitySoon:
		return "soon"
	case ProximityThisWeek:
		return "this week"
	default:
		return "later"
	}
}

// ProximityFor buckets a day distance.
func ProximityFor(days int) Proximity {
	switch {
	case days == 0:
		return ProximityToday
	case days <= 3:
		return ProximitySoon
	case days <= 7:
		return ProximityThisWeek
	default:
		return ProximityLater
	}
}

// UpcomingEvaluation is an evaluation on or after today.
type UpcomingEvaluation struct {
	Evaluation
	DaysUntil int
	Proximity Proximity
}

// CourseRow is one course as shown in tables.
type CourseRow struct {
	Name         string
	Status       grading.Status
	StudyMinutes int
	WeeklyTarget float64
}

// Dashboard is the projection backing the home view and `lexa stats`.
type Dashboard struct {
	TermKey  string
	Summary  TermSummary
	Upcoming []UpcomingEvaluation
	Courses  []CourseRow
}

// TermHistory is one term as listed in the history view.
type TermHistory struct {
	Key     string
	Active  bool
	Summary TermSummary
	Courses []CourseRow
}

// BuildDashboard projects the active term of s.
func BuildDashboard(s *AppState, now time.Time, limit int) Dashboard {
	term := s.Active()
	d := Dashboard{
		TermKey: s.ActiveTerm,
		Summary: Summarize(term),
		Courses: courseRows(s, term),
	}

	for _, ev := range SortedEvaluations(term) {
		days, err := DaysUntil(ev.Date, now)
		if err != nil || days < 0 {
			continue
		}
		d.Upcoming = append(d.Upcoming, UpcomingEvaluation{
			Evaluation: ev,
			DaysUntil:  days,
			Proximity:  ProximityFor(days),
		})
		if limit > 0 && len(d.Upcoming) == limit {
			break
		}
	}
	return d
}

// BuildHistory lists every term, newest key first.
func BuildHistory(s *AppState) []TermHistory {
	keys := s.TermKeys()
	out := make([]TermHistory, 0, len(keys))
	for _, key := range keys {
		out = append(out, TermHistory{
			Key:     key,
			Active:  key == s.ActiveTerm,
			Summary: Summarize(s.Terms[key]),
			Courses: courseRows(s, s.Terms[key]),
		})
	}
	return out
}

// SortedEvaluations returns a term's evaluations ordered by date.
func SortedEvaluations(term *Term) []Evaluation {
	if term == nil {
		return nil
	}
	evs := slices.Clone(term.Evaluations)
	slices.SortStableFunc(evs, func(a, b Evaluation) int {
		return strings.Compare(a.Date, b.Date)
	})
	return evs
}

// DaysUntil returns the number of calendar days from now's date to date.
func DaysUntil(date string, now time.Time) (int, error) {
	loc := now.Location()
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return 0, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(d.Sub(today).Hours() / 24)), nil
}

// Dashboard projects the active term using the tracker clock.
func (t *Tracker) Dashboard(limit int) Dashboard {
	return BuildDashboard(t.state, t.now(), limit)
}

// WeekMinutes sums the study sessions logged for course in the Monday-based
// week containing now.
func WeekMinutes(s *AppState, course string, now time.Time) int {
	loc := now.Location()
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 7)

	total := 0
	for _, ss := range s.Sessions {
		if ss.Course != course {
			continue
		}
		d, err := time.ParseInLocation(DateLayout, ss.Date, loc)
		if err != nil || d.Before(start) || !d.Before(end) {
			continue
		}
		total += ss.Minutes
	}
	return total
}

// WeekMinutes sums this week's study sessions for course.
func (t *Tracker) WeekMinutes(course string) int {
	return WeekMinutes(t.state, course, t.now())
}

// Now returns the tracker clock's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// History projects all terms.
func (t *Tracker) History() []TermHistory {
	return BuildHistory(t.state)
}

func courseRows(s *AppState, term *Term) []CourseRow {
	if term == nil {
		return nil
	}
	names := term.CourseNames()
	rows := make([]CourseRow, 0, len(names))
	for _, name := range names {
		c := term.Courses[name]
		target, ok := s.WeeklyTargets[name]
		if !ok {
			target = DefaultWeeklyHours
		}
		rows = append(rows, CourseRow{
			Name:         name,
			Status:       c.Status(),
			StudyMinutes: c.StudyMinutes,
			WeeklyTarget: target,
		})
	}
	return rows
}
