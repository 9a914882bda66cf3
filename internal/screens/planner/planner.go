// Package planner is the study planner screen: scheduled evaluations, the
// study timer and weekly study targets.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/studytimer"
	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
	"github.com/abhisek/lexa/internal/ui/layout"
	"github.com/abhisek/lexa/internal/ui/theme"
)

// TargetStep is how much one +/- press changes a weekly target, in hours.
const TargetStep = 0.5

// Kinds offered when scheduling an evaluation.
var Kinds = []string{tracker.KindQuiz, tracker.KindMidterm, tracker.KindFinal}

// PlannerScreen schedules evaluations and runs the study timer.
type PlannerScreen struct {
	env         *screen.Env
	state       *tracker.AppState
	evals       []tracker.Evaluation
	selected    int
	courses     []string
	timerCourse int
	form        *components.Form
	notice      string
	errMsg      string
}

var _ screen.Screen = (*PlannerScreen)(nil)
var _ screen.KeyHintProvider = (*PlannerScreen)(nil)
var _ screen.InputCapturer = (*PlannerScreen)(nil)

// New creates the planner screen.
func New(env *screen.Env) *PlannerScreen {
	p := &PlannerScreen{env: env}
	p.refresh()
	return p
}

func (p *PlannerScreen) Init() tea.Cmd {
	return nil
}

func (p *PlannerScreen) Title() string {
	return "Planner"
}

func (p *PlannerScreen) CapturesInput() bool {
	return p.form != nil
}

func (p *PlannerScreen) KeyHints() []layout.KeyHint {
	if p.form != nil {
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	toggle := "Start"
	if p.env.Timer.Running() {
		toggle = "Pause"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: toggle},
		{Key: "r", Description: "Reset"},
		{Key: "←→", Description: "Course"},
		{Key: "+/-", Description: "Target"},
		{Key: "a", Description: "Add evaluation"},
		{Key: "d", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

// TimerCourse returns the course the timer shows: the running course, or
// the one picked with left/right.
func (p *PlannerScreen) TimerCourse() string {
	if p.env.Timer.Running() {
		return p.env.Timer.Course()
	}
	if p.timerCourse < 0 || p.timerCourse >= len(p.courses) {
		return ""
	}
	return p.courses[p.timerCourse]
}

func (p *PlannerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p.form != nil {
		return p, p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case screen.ResumeMsg:
		p.refresh()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
		case "down", "j":
			if p.selected < len(p.evals)-1 {
				p.selected++
			}
		case "left", "h":
			p.cycleCourse(-1)
		case "right", "l":
			p.cycleCourse(1)
		case "space", " ":
			return p, p.toggleTimer()
		case "r":
			p.env.Timer.Reset()
			p.notice = "Timer reset"
		case "+", "=":
			p.adjustTarget(TargetStep)
		case "-":
			p.adjustTarget(-TargetStep)
		case "a":
			return p, p.openForm()
		case "d":
			p.deleteSelected()
		}
	}
	return p, nil
}

func (p *PlannerScreen) cycleCourse(step int) {
	if p.env.Timer.Running() || len(p.courses) == 0 {
		return
	}
	n := len(p.courses)
	p.timerCourse = (p.timerCourse + step + n) % n
}

func (p *PlannerScreen) toggleTimer() tea.Cmd {
	p.errMsg, p.notice = "", ""
	t := p.env.Timer

	if t.Running() {
		res, err := t.PauseAndCommit(context.Background(), p.env.Tracker)
		if err != nil {
			p.errMsg = err.Error()
			p.env.Log().Error("study commit failed", zap.Error(err))
			return nil
		}
		switch {
		case res.Recorded:
			p.notice = fmt.Sprintf("Logged %d min of %s", res.Minutes, res.Course)
			p.env.Log().Info("study logged", zap.String("course", res.Course), zap.Int("minutes", res.Minutes))
		case res.Minutes == 0:
			p.notice = "Less than a minute, nothing logged"
		default:
			p.notice = res.Course + " no longer exists, time discarded"
		}
		p.refresh()
		return nil
	}

	if err := t.Start(p.TimerCourse()); err != nil {
		if errors.Is(err, studytimer.ErrNoCourse) {
			p.errMsg = "Add a course before starting the timer"
		} else {
			p.errMsg = err.Error()
		}
		return nil
	}
	return screen.TimerStarted()
}

func (p *PlannerScreen) adjustTarget(delta float64) {
	course := p.TimerCourse()
	if course == "" {
		return
	}
	next := max(p.state.WeeklyTargets[course]+delta, 0)
	if err := p.env.Tracker.SetWeeklyTarget(context.Background(), course, next); err != nil {
		p.errMsg = err.Error()
		return
	}
	p.refresh()
}

func (p *PlannerScreen) openForm() tea.Cmd {
	if len(p.courses) == 0 {
		p.errMsg = "Add a course before scheduling evaluations"
		return nil
	}
	today := p.env.Tracker.Now().Format(tracker.DateLayout)
	date := components.TextField("Date", "YYYY-MM-DD", components.InputDate, 10)
	date.Input.SetValue(today)

	f := components.NewForm("New evaluation",
		components.ChoiceField("Course", p.courses, max(p.timerCourse, 0)),
		components.ChoiceField("Kind", Kinds, 0),
		date,
	)
	p.form = &f
	p.errMsg, p.notice = "", ""
	return f.Init()
}

func (p *PlannerScreen) updateForm(msg tea.Msg) tea.Cmd {
	f, cmd := p.form.Update(msg)
	p.form = &f

	switch {
	case f.Cancelled():
		p.form = nil
	case f.Submitted():
		ev, err := p.env.Tracker.AddEvaluation(context.Background(), f.Value(0), f.Value(2), f.Value(1))
		if err != nil {
			p.form.Reject(err.Error())
			return nil
		}
		p.env.Log().Info("evaluation scheduled",
			zap.String("id", ev.ID), zap.String("course", ev.Course), zap.String("date", ev.Date))
		p.form = nil
		p.refresh()
		p.selected = max(slices.IndexFunc(p.evals, func(e tracker.Evaluation) bool { return e.ID == ev.ID }), 0)
	}
	return cmd
}

func (p *PlannerScreen) deleteSelected() {
	if p.selected < 0 || p.selected >= len(p.evals) {
		return
	}
	id := p.evals[p.selected].ID
	if err := p.env.Tracker.DeleteEvaluation(context.Background(), id); err != nil {
		p.errMsg = err.Error()
		return
	}
	p.refresh()
}

func (p *PlannerScreen) refresh() {
	p.state = p.env.Tracker.State()
	term := p.state.Active()
	p.evals = tracker.SortedEvaluations(term)
	p.selected = min(p.selected, max(len(p.evals)-1, 0))

	current := p.TimerCourse()
	p.courses = term.CourseNames()
	if i := slices.Index(p.courses, current); i >= 0 {
		p.timerCourse = i
	} else {
		p.timerCourse = min(p.timerCourse, max(len(p.courses)-1, 0))
	}
}

func (p *PlannerScreen) View(width, height int) string {
	left := p.timerView()
	var right string
	if p.form != nil {
		right = p.form.View()
	} else {
		right = p.evaluationsView()
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	switch {
	case p.errMsg != "":
		out += "\n" + theme.Bad.Render(p.errMsg)
	case p.notice != "":
		out += "\n" + theme.Good.Render(p.notice)
	}
	return out
}

func (p *PlannerScreen) timerView() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Study timer") + "\n\n")

	course := p.TimerCourse()
	if course == "" {
		return theme.Card.Width(36).Render(b.String() + theme.Hint.Render("No courses in this term"))
	}

	arrows := theme.Hint.Render("◂ ") + theme.Body.Bold(true).Render(course) + theme.Hint.Render(" ▸")
	if p.env.Timer.Running() {
		arrows = theme.Body.Bold(true).Render(course)
	}
	b.WriteString(arrows + "\n\n")

	clock := studytimer.Format(p.env.Timer.Elapsed())
	style := theme.Subtitle.Bold(true)
	if p.env.Timer.Running() {
		style = theme.Good
	}
	b.WriteString(style.Render(clock) + "  " + theme.Hint.Render(p.env.Timer.Status().String()) + "\n\n")

	target := p.state.WeeklyTargets[course]
	week := p.env.Tracker.WeekMinutes(course)
	frac := 0.0
	if target > 0 {
		frac = float64(week) / (target * 60)
	}
	bar := components.NewProgressBar("Week", frac, 30).
		WithNote(fmt.Sprintf("%.1f/%g h", tracker.Hours(week), target))
	b.WriteString(bar.View() + "\n")

	if c, ok := p.state.Active().Courses[course]; ok {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%.1f h total", tracker.Hours(c.StudyMinutes))))
	}
	return theme.Card.Width(36).Render(b.String())
}

func (p *PlannerScreen) evaluationsView() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Evaluations") + "\n\n")
	if len(p.evals) == 0 {
		b.WriteString(theme.Hint.Render("Nothing scheduled. Press a to add an evaluation."))
		return b.String()
	}

	now := p.env.Tracker.Now()
	for i, ev := range p.evals {
		badge := theme.Hint.Render("past")
		if days, err := tracker.DaysUntil(ev.Date, now); err == nil && days >= 0 {
			badge = theme.ForProximity(tracker.ProximityFor(days))
		}
		line := fmt.Sprintf("%s  %-18s %s", ev.Date, ev.Course, ev.Kind)
		if i == p.selected {
			line = theme.Selected.Render("▸ " + line)
		} else {
			line = theme.Unselected.Render("  " + line)
		}
		b.WriteString(line + "  " + badge + "\n")
	}
	return b.String()
}
