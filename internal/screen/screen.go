package screen

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/studytimer"
	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that own the keyboard while a
// form is open. The app then forwards esc and q instead of navigating.
type InputCapturer interface {
	CapturesInput() bool
}

// ResumeMsg is delivered to a screen when it becomes active again after
// the screen above it was popped.
type ResumeMsg struct{}

// TimerTickMsg drives the study timer display while it runs.
type TimerTickMsg struct {
	At time.Time
}

// TimerStartedMsg tells the app the study timer started so it can begin
// scheduling ticks.
type TimerStartedMsg struct{}

// TimerStarted returns a command emitting TimerStartedMsg.
func TimerStarted() tea.Cmd {
	return func() tea.Msg { return TimerStartedMsg{} }
}

// TickTimer schedules the next TimerTickMsg after d.
func TickTimer(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TimerTickMsg{At: t}
	})
}

// Env carries the services every screen works against.
type Env struct {
	Tracker *tracker.Tracker
	Timer   *studytimer.Timer
	Logger  *zap.Logger

	// Tick is the timer refresh interval.
	Tick time.Duration
	// UpcomingLimit caps the dashboard's upcoming list.
	UpcomingLimit int
}

// Log returns the environment's logger, or a no-op logger.
func (e *Env) Log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
