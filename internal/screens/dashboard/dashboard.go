// Package dashboard is the home screen: the active term at a glance and
// the entry point to every other screen.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/router"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/screens/calculator"
	"github.com/abhisek/lexa/internal/screens/history"
	"github.com/abhisek/lexa/internal/screens/planner"
	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
	"github.com/abhisek/lexa/internal/ui/layout"
	"github.com/abhisek/lexa/internal/ui/theme"
)

// DashboardScreen shows the term summary, upcoming evaluations and the
// course table.
type DashboardScreen struct {
	env    *screen.Env
	menu   components.Menu
	form   *components.Form
	dash   tracker.Dashboard
	errMsg string
}

// compactUpcoming caps the upcoming list on short terminals.
const compactUpcoming = 3

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.InputCapturer = (*DashboardScreen)(nil)

// New creates the dashboard.
func New(env *screen.Env) *DashboardScreen {
	d := &DashboardScreen{env: env}
	d.menu = components.NewMenu([]components.MenuItem{
		{Label: "Calculator", Key: "c", Action: func() tea.Cmd { return router.Push(calculator.New(env)) }},
		{Label: "Planner", Key: "p", Action: func() tea.Cmd { return router.Push(planner.New(env)) }},
		{Label: "History", Key: "h", Action: func() tea.Cmd { return router.Push(history.New(env)) }},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	d.refresh()
	return d
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) CapturesInput() bool {
	return d.form != nil
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	if d.form != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "[ ]", Description: "Switch term"},
		{Key: "n", Description: "New term"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if d.form != nil {
		return d, d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case screen.ResumeMsg:
		d.refresh()
		return d, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "[":
			d.shiftTerm(1)
			return d, nil
		case "]":
			d.shiftTerm(-1)
			return d, nil
		case "n":
			f := components.NewForm("New term",
				components.TextField("Term", "YYYY-1 or YYYY-2", components.InputDate, 6),
			)
			d.form = &f
			d.errMsg = ""
			return d, f.Init()
		}
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) updateForm(msg tea.Msg) tea.Cmd {
	f, cmd := d.form.Update(msg)
	d.form = &f

	switch {
	case f.Cancelled():
		d.form = nil
	case f.Submitted():
		key := f.Value(0)
		if err := d.env.Tracker.CreateTerm(context.Background(), key); err != nil {
			d.form.Reject(err.Error())
			return nil
		}
		d.env.Log().Info("term created", zap.String("term", key))
		d.form = nil
		d.refresh()
	}
	return cmd
}

// shiftTerm activates the neighbouring term. Keys are ordered newest
// first, so a positive step moves to an older term.
func (d *DashboardScreen) shiftTerm(step int) {
	keys := d.env.Tracker.State().TermKeys()
	i := slices.Index(keys, d.env.Tracker.ActiveTermKey())
	next := i + step
	if i < 0 || next < 0 || next >= len(keys) {
		return
	}
	if err := d.env.Tracker.SwitchTerm(context.Background(), keys[next]); err != nil {
		d.errMsg = err.Error()
		return
	}
	d.errMsg = ""
	d.refresh()
}

func (d *DashboardScreen) refresh() {
	d.dash = d.env.Tracker.Dashboard(d.env.UpcomingLimit)
}

func (d *DashboardScreen) View(width, height int) string {
	left := theme.Card.Width(22).Render(d.menu.View())

	if d.form != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", d.form.View())
	}

	contentWidth := max(width-lipgloss.Width(left)-2, 20)
	var b strings.Builder
	b.WriteString(theme.Title.Render("Term "+d.dash.TermKey) + "\n")
	b.WriteString(d.summaryLine() + "\n")
	if d.errMsg != "" {
		b.WriteString(theme.Bad.Render(d.errMsg) + "\n")
	}

	b.WriteString("\n" + theme.Subtitle.Render("Upcoming") + "\n")
	if len(d.dash.Upcoming) == 0 {
		b.WriteString(theme.Hint.Render("  Nothing scheduled") + "\n")
	}
	upcoming := d.dash.Upcoming
	if layout.IsCompactHeight(height) && len(upcoming) > compactUpcoming {
		upcoming = upcoming[:compactUpcoming]
	}
	for _, u := range upcoming {
		b.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			theme.ForProximity(u.Proximity), u.Date,
			theme.Body.Render(u.Course), theme.Subtitle.Render(u.Kind)))
	}

	b.WriteString("\n")
	if len(d.dash.Courses) == 0 {
		b.WriteString(theme.Hint.Render("No courses yet. Open the calculator to add one."))
	} else {
		b.WriteString(components.CourseTable(d.dash.Courses, layout.IsCompactWidth(width)))
	}

	right := lipgloss.NewStyle().Width(contentWidth).Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (d *DashboardScreen) summaryLine() string {
	s := d.dash.Summary
	parts := []string{
		"Average " + theme.Body.Bold(true).Render(components.Score(s.Average)),
		fmt.Sprintf("Graded %d/%d", s.GradedCourses, s.TotalCourses),
		fmt.Sprintf("Study %.1f h", tracker.Hours(s.StudyMinutes)),
	}
	line := theme.Subtitle.Render(strings.Join(parts, "   "))
	if len(s.AtRisk) > 0 {
		line += "   " + theme.Bad.Render("At risk: "+strings.Join(s.AtRisk, ", "))
	}
	return line
}
