package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/router"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/screens/dashboard"
	"github.com/abhisek/lexa/internal/studytimer"
	"github.com/abhisek/lexa/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env     *screen.Env
	router  *router.Router
	ticking bool
	width   int
	height  int
}

// New creates an AppModel rooted at the dashboard.
func New(env *screen.Env) AppModel {
	return AppModel{
		env:    env,
		router: router.New(dashboard.New(env)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.TimerStartedMsg:
		if m.ticking {
			return m, nil
		}
		m.ticking = true
		return m, screen.TickTimer(m.env.Tick)

	case screen.TimerTickMsg:
		m.env.Timer.Tick()
		if !m.env.Timer.Running() {
			m.ticking = false
			return m, nil
		}
		return m, screen.TickTimer(m.env.Tick)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.env.Tracker.ActiveTermKey(), m.timerLabel(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// timerLabel shows the running course and clock, or nothing when idle.
func (m AppModel) timerLabel() string {
	t := m.env.Timer
	if !t.Running() && t.Elapsed() == 0 {
		return ""
	}
	label := t.Course() + " " + studytimer.Format(t.Elapsed())
	if !t.Running() {
		label += " (paused)"
	}
	return label
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. Time on a running study timer is
// committed when the program exits.
func Run(ctx context.Context, env *screen.Env) error {
	p := tea.NewProgram(New(env), tea.WithContext(ctx))
	_, runErr := p.Run()

	if env.Timer.Running() {
		res, err := env.Timer.PauseAndCommit(context.WithoutCancel(ctx), env.Tracker)
		if err != nil {
			env.Log().Error("commit study time on exit", zap.Error(err))
		} else if res.Recorded {
			env.Log().Info("study logged on exit",
				zap.String("course", res.Course), zap.Int("minutes", res.Minutes))
		}
	}

	if runErr != nil {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return nil
}
