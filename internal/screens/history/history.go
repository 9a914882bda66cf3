package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/router"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
	"github.com/abhisek/lexa/internal/ui/layout"
	"github.com/abhisek/lexa/internal/ui/theme"
)

// HistoryScreen lists every term with its courses.
type HistoryScreen struct {
	env      *screen.Env
	terms    []tracker.TermHistory
	selected int
	expanded map[string]bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen with the active term expanded.
func New(env *screen.Env) *HistoryScreen {
	s := &HistoryScreen{
		env:      env,
		expanded: make(map[string]bool),
	}
	s.refresh()
	for i, t := range s.terms {
		if t.Active {
			s.selected = i
			s.expanded[t.Key] = true
		}
	}
	return s
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "u", Description: "Use term"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumeMsg:
		s.refresh()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.terms)-1 {
				s.selected++
			}
		case "enter":
			if key := s.selectedKey(); key != "" {
				s.expanded[key] = !s.expanded[key]
			}
		case "u":
			s.useSelected()
		}
	}
	return s, nil
}

func (s *HistoryScreen) selectedKey() string {
	if s.selected < 0 || s.selected >= len(s.terms) {
		return ""
	}
	return s.terms[s.selected].Key
}

func (s *HistoryScreen) useSelected() {
	key := s.selectedKey()
	if key == "" {
		return
	}
	if err := s.env.Tracker.SwitchTerm(context.Background(), key); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.env.Log().Info("term switched", zap.String("term", key))
	s.errMsg = ""
	s.refresh()
}

func (s *HistoryScreen) refresh() {
	s.terms = s.env.Tracker.History()
	s.selected = min(s.selected, max(len(s.terms)-1, 0))
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Foreground(theme.Error).
			Render(fmt.Sprintf("\nError: %s", s.errMsg))
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, t := range s.terms {
		line := fmt.Sprintf("%s  %d courses  average %s", t.Key, len(t.Courses), components.Score(t.Summary.Average))
		if n := len(t.Summary.AtRisk); n > 0 {
			line += fmt.Sprintf("  %d at risk", n)
		}
		if t.Active {
			line += "  (active)"
		}

		style := theme.Unselected
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "> "
		}
		b.WriteString(style.Render(prefix+line) + "\n")

		if !s.expanded[t.Key] {
			continue
		}
		if len(t.Courses) == 0 {
			b.WriteString(theme.Hint.Render("    No courses this term") + "\n")
			continue
		}
		table := components.CourseTable(t.Courses, layout.IsCompactWidth(width))
		b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(table) + "\n")
	}
	return b.String()
}
