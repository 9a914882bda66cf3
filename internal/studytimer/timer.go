package studytimer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrRunning    = errors.New("timer is already running")
	ErrNotRunning = errors.New("timer is not running")
	ErrNoCourse   = errors.New("choose a course before starting the timer")
)

// DefaultTick is how often the display refreshes while running.
const DefaultTick = 250 * time.Millisecond

// Status is the timer state.
type Status int

const (
	Idle Status = iota
	Running
)

func (s Status) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Committer records finished study time. It reports whether the minutes
// were recorded; a course that no longer exists is not an error.
type Committer interface {
	CommitStudy(ctx context.Context, course string, minutes int, at time.Time) (bool, error)
}

// Commit describes the result of PauseAndCommit.
type Commit struct {
	Course   string
	Minutes  int
	Recorded bool
}

// Timer tracks focused time for one course at a time. Elapsed time is
// derived from the wall clock, so missed ticks do not cause drift.
type Timer struct {
	status    Status
	course    string
	startedAt time.Time
	elapsed   time.Duration
	now       func() time.Time
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// New creates an idle timer.
func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Status returns the current state.
func (t *Timer) Status() Status { return t.status }

// Running reports whether the timer is accumulating time.
func (t *Timer) Running() bool { return t.status == Running }

// Course returns the course being timed, or the last one timed.
func (t *Timer) Course() string { return t.course }

// Elapsed returns the accumulated whole seconds.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// Start begins timing course. Time left over from a pause that was not
// committed carries on.
func (t *Timer) Start(course string) error {
	if t.status == Running {
		return ErrRunning
	}
	if course == "" {
		return ErrNoCourse
	}
	t.course = course
	t.status = Running
	t.startedAt = t.now().Add(-t.elapsed)
	return nil
}

// Tick refreshes the elapsed time from the wall clock and returns it.
func (t *Timer) Tick() time.Duration {
	if t.status == Running {
		t.elapsed = t.now().Sub(t.startedAt).Truncate(time.Second)
	}
	return t.elapsed
}

// PauseAndCommit stops the timer and hands the elapsed time, rounded to
// whole minutes, to c. Zero minutes commit nothing. The timer is idle and
// zeroed afterwards even when c fails.
func (t *Timer) PauseAndCommit(ctx context.Context, c Committer) (Commit, error) {
	if t.status != Running {
		return Commit{}, ErrNotRunning
	}
	at := t.now()
	t.Tick()

	res := Commit{
		Course:  t.course,
		Minutes: Minutes(t.elapsed),
	}
	t.status = Idle
	t.elapsed = 0

	if res.Minutes > 0 {
		ok, err := c.CommitStudy(ctx, res.Course, res.Minutes, at)
		if err != nil {
			return res, fmt.Errorf("commit %d minutes to %q: %w", res.Minutes, res.Course, err)
		}
		res.Recorded = ok
	}
	return res, nil
}

// Reset stops the timer and discards the elapsed time.
func (t *Timer) Reset() {
	t.status = Idle
	t.elapsed = 0
}

// Minutes rounds a duration to the nearest whole minute.
func Minutes(d time.Duration) int {
	return int(math.Round(d.Seconds() / 60))
}

// Format renders a duration as HH:MM:SS.
func Format(d time.Duration) string {
	s := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
