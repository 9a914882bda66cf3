package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexa/internal/router"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/screen/screentest"
	"github.com/abhisek/lexa/internal/screens/calculator"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func TestTimerTicksOnlyWhileRunning(t *testing.T) {
	env := screentest.New(t, "Algebra")
	m := New(env.Env)

	if err := env.Timer.Start("Algebra"); err != nil {
		t.Fatal(err)
	}
	m, cmd := update(t, m, screen.TimerStartedMsg{})
	if cmd == nil || !m.ticking {
		t.Fatal("expected ticking to start")
	}
	m, cmd = update(t, m, screen.TimerStartedMsg{})
	if cmd != nil {
		t.Error("a second start must not schedule another tick chain")
	}

	env.Clock.Advance(3 * time.Second)
	m, cmd = update(t, m, screen.TimerTickMsg{})
	if cmd == nil {
		t.Error("expected the next tick while running")
	}
	if env.Timer.Elapsed() != 3*time.Second {
		t.Errorf("Elapsed = %v, want 3s", env.Timer.Elapsed())
	}

	env.Timer.Reset()
	m, cmd = update(t, m, screen.TimerTickMsg{})
	if cmd != nil || m.ticking {
		t.Error("ticking should stop once the timer is idle")
	}
}

func TestEscNavigation(t *testing.T) {
	env := screentest.New(t, "Algebra")
	m := New(env.Env)

	_, cmd := update(t, m, screentest.Special(tea.KeyEscape))
	if cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}

	m.router.Push(calculator.New(env.Env))
	_, cmd = update(t, m, screentest.Special(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestEscGoesToCapturingScreen(t *testing.T) {
	env := screentest.New(t, "Algebra")
	m := New(env.Env)
	calc := calculator.New(env.Env)
	m.router.Push(calc)

	m, _ = update(t, m, screentest.Key('a'))
	if !calc.CapturesInput() {
		t.Fatal("expected the course form to be open")
	}

	_, cmd := update(t, m, screentest.Special(tea.KeyEscape))
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Fatal("esc must close the form, not leave the screen")
		}
	}
	if calc.CapturesInput() {
		t.Error("esc should have cancelled the form")
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := New(screentest.New(t).Env)
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestViewHeader(t *testing.T) {
	env := screentest.New(t, "Algebra")
	m := New(env.Env)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !m.View().AltScreen {
		t.Error("expected the alternate screen")
	}
	view := m.render()
	for _, want := range []string{"Lexa", "Dashboard", "2026-1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_ = env.Timer.Start("Algebra")
	env.Clock.Advance(65 * time.Second)
	env.Timer.Tick()
	if !strings.Contains(m.render(), "Algebra 00:01:05") {
		t.Error("header should show the running timer")
	}
}

func TestViewTooSmall(t *testing.T) {
	m := New(screentest.New(t).Env)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}
