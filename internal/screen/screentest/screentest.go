// Package screentest builds screen environments backed by memory for
// screen tests.
package screentest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/studytimer"
	"github.com/abhisek/lexa/internal/tracker"
)

// Now is the fixed time every test environment starts at.
var Now = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

// MemStore keeps the saved document in memory.
type MemStore struct {
	mu    sync.Mutex
	state *tracker.AppState
	Saves int
}

func (m *MemStore) Load(context.Context) (*tracker.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	return m.state.Clone(), nil
}

func (m *MemStore) Save(_ context.Context, s *tracker.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	m.Saves++
	return nil
}

func (m *MemStore) Reset(_ context.Context, s *tracker.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	m.Saves++
	return nil
}

// Clock is a settable clock shared by the tracker and the timer.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Env is a test environment.
type Env struct {
	*screen.Env
	Store *MemStore
	Clock *Clock
}

// New opens a tracker over an empty MemStore, adds courses to the active
// term and returns the environment.
func New(t *testing.T, courses ...string) *Env {
	t.Helper()
	clock := &Clock{t: Now}
	st := &MemStore{}

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	tr, err := tracker.Open(context.Background(), st,
		tracker.WithClock(clock.Now),
		tracker.WithIDGenerator(ids),
	)
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	for _, c := range courses {
		if err := tr.AddCourse(context.Background(), c); err != nil {
			t.Fatalf("add course %q: %v", c, err)
		}
	}

	return &Env{
		Env: &screen.Env{
			Tracker:       tr,
			Timer:         studytimer.New(studytimer.WithClock(clock.Now)),
			Tick:          time.Second,
			UpcomingLimit: tracker.DefaultUpcomingLimit,
		},
		Store: st,
		Clock: clock,
	}
}

// Key builds a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Type sends each rune of text to s and returns the final screen.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(Key(r))
	}
	return s
}
