// Package calculator is the grade calculator screen: courses of the
// active term, their grade entries and the score still required to pass.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/components"
	"github.com/abhisek/lexa/internal/ui/layout"
	"github.com/abhisek/lexa/internal/ui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formCourse
	formGrade
)

// CalculatorScreen lists courses and edits their grades.
type CalculatorScreen struct {
	env      *screen.Env
	term     *tracker.Term
	courses  []string
	selected int
	grade    int
	form     *components.Form
	formKind formKind
	confirm  *components.Confirm
	errMsg   string
}

var _ screen.Screen = (*CalculatorScreen)(nil)
var _ screen.KeyHintProvider = (*CalculatorScreen)(nil)
var _ screen.InputCapturer = (*CalculatorScreen)(nil)

// New creates the calculator screen.
func New(env *screen.Env) *CalculatorScreen {
	c := &CalculatorScreen{env: env}
	c.refresh()
	c.selectLastGrade()
	return c
}

func (c *CalculatorScreen) Init() tea.Cmd {
	return nil
}

func (c *CalculatorScreen) Title() string {
	return "Calculator"
}

func (c *CalculatorScreen) CapturesInput() bool {
	return c.form != nil || c.confirm != nil
}

func (c *CalculatorScreen) KeyHints() []layout.KeyHint {
	switch {
	case c.confirm != nil:
		return []layout.KeyHint{
			{Key: "y", Description: "Delete"},
			{Key: "n", Description: "Keep"},
		}
	case c.form != nil:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Course"},
		{Key: "←→", Description: "Grade"},
		{Key: "a", Description: "Add course"},
		{Key: "g", Description: "Add grade"},
		{Key: "x", Description: "Remove grade"},
		{Key: "d", Description: "Delete course"},
		{Key: "Esc", Description: "Back"},
	}
}

// SelectedGrade returns the index of the highlighted grade of the selected
// course, or -1 when it has none.
func (c *CalculatorScreen) SelectedGrade() int {
	if len(c.grades()) == 0 {
		return -1
	}
	return c.grade
}

// Selected returns the highlighted course name, or "".
func (c *CalculatorScreen) Selected() string {
	if c.selected < 0 || c.selected >= len(c.courses) {
		return ""
	}
	return c.courses[c.selected]
}

func (c *CalculatorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch {
	case c.confirm != nil:
		c.updateConfirm(msg)
		return c, nil
	case c.form != nil:
		return c, c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case screen.ResumeMsg:
		c.refresh()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if c.selected > 0 {
				c.selected--
				c.selectLastGrade()
			}
		case "down", "j":
			if c.selected < len(c.courses)-1 {
				c.selected++
				c.selectLastGrade()
			}
		case "left", "h":
			if c.grade > 0 {
				c.grade--
			}
		case "right", "l":
			if c.grade < len(c.grades())-1 {
				c.grade++
			}
		case "a":
			return c, c.openForm(formCourse, components.NewForm("New course",
				components.TextField("Name", "e.g. Calculus I", components.InputText, 80),
			))
		case "g":
			if c.Selected() == "" {
				c.errMsg = "Add a course first"
				return c, nil
			}
			return c, c.openForm(formGrade, components.NewForm("New grade for "+c.Selected(),
				components.TextField("Score", "1.0 - 7.0", components.InputDecimal, 4),
				components.TextField("Weight %", "1 - 100", components.InputDecimal, 6),
			))
		case "x":
			c.removeSelectedGrade()
		case "d":
			if name := c.Selected(); name != "" {
				cf := components.NewConfirm(fmt.Sprintf("Delete %s with its grades, evaluations and study time?", name))
				c.confirm = &cf
			}
		}
	}
	return c, nil
}

func (c *CalculatorScreen) openForm(kind formKind, f components.Form) tea.Cmd {
	c.form = &f
	c.formKind = kind
	c.errMsg = ""
	return f.Init()
}

func (c *CalculatorScreen) updateForm(msg tea.Msg) tea.Cmd {
	f, cmd := c.form.Update(msg)
	c.form = &f

	switch {
	case f.Cancelled():
		c.form = nil
	case f.Submitted():
		if err := c.submit(f); err != nil {
			c.form.Reject(err.Error())
			return nil
		}
		c.form = nil
		c.refresh()
	}
	return cmd
}

func (c *CalculatorScreen) submit(f components.Form) error {
	ctx := context.Background()
	switch c.formKind {
	case formCourse:
		name := f.Value(0)
		if err := c.env.Tracker.AddCourse(ctx, name); err != nil {
			return err
		}
		c.env.Log().Info("course added", zap.String("course", name))
		c.refresh()
		c.selectCourse(name)
		c.selectLastGrade()
	case formGrade:
		score, err := f.Fields[0].Input.FloatValue()
		if err != nil {
			return errors.New("score must be a number")
		}
		weight, err := f.Fields[1].Input.FloatValue()
		if err != nil {
			return errors.New("weight must be a number")
		}
		if err := c.env.Tracker.AddGrade(ctx, c.Selected(), score, weight); err != nil {
			return err
		}
		c.env.Log().Info("grade added",
			zap.String("course", c.Selected()), zap.Float64("score", score), zap.Float64("weight", weight))
		c.refresh()
		c.selectLastGrade()
	}
	return nil
}

func (c *CalculatorScreen) updateConfirm(msg tea.Msg) {
	cf, _ := c.confirm.Update(msg)
	if !cf.Answered() {
		c.confirm = &cf
		return
	}
	c.confirm = nil
	if !cf.Accepted() {
		return
	}
	name := c.Selected()
	if err := c.env.Tracker.DeleteCourse(context.Background(), name); err != nil {
		c.errMsg = err.Error()
		return
	}
	c.env.Log().Info("course deleted", zap.String("course", name))
	c.refresh()
	c.selectLastGrade()
}

func (c *CalculatorScreen) removeSelectedGrade() {
	index := c.SelectedGrade()
	if index < 0 {
		return
	}
	name := c.Selected()
	if err := c.env.Tracker.DeleteGrade(context.Background(), name, index); err != nil {
		c.errMsg = err.Error()
		return
	}
	c.env.Log().Info("grade removed", zap.String("course", name), zap.Int("index", index))
	c.errMsg = ""
	c.refresh()
}

func (c *CalculatorScreen) grades() []grading.Entry {
	course, ok := c.term.Courses[c.Selected()]
	if !ok {
		return nil
	}
	return course.Grades
}

func (c *CalculatorScreen) selectLastGrade() {
	c.grade = max(len(c.grades())-1, 0)
}

// refresh reloads the active term and clamps both cursors.
func (c *CalculatorScreen) refresh() {
	c.term = c.env.Tracker.State().Active()
	c.courses = c.term.CourseNames()
	c.selected = min(c.selected, max(len(c.courses)-1, 0))
	c.grade = min(c.grade, max(len(c.grades())-1, 0))
}

func (c *CalculatorScreen) selectCourse(name string) {
	for i, n := range c.courses {
		if n == name {
			c.selected = i
			return
		}
	}
}

func (c *CalculatorScreen) View(width, height int) string {
	list := c.listView()
	var right string
	switch {
	case c.confirm != nil:
		right = c.confirm.View()
	case c.form != nil:
		right = c.form.View()
	default:
		right = c.detailView(max(width-lipgloss.Width(list)-4, 30))
	}
	if c.errMsg != "" {
		right += "\n" + theme.Bad.Render(c.errMsg)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", right)
}

func (c *CalculatorScreen) listView() string {
	if len(c.courses) == 0 {
		return theme.Card.Width(26).Render(theme.Hint.Render("No courses.\nPress a to add one."))
	}
	var b strings.Builder
	for i, name := range c.courses {
		st := c.term.Courses[name].Status()
		dot := theme.ForOutcome(st.Outcome).Render("●")
		label := theme.Unselected.Render("  " + name)
		if i == c.selected {
			label = theme.Selected.Render("▸ " + name)
		}
		b.WriteString(dot + " " + label + "\n")
	}
	return theme.Card.Width(26).Render(strings.TrimRight(b.String(), "\n"))
}

func (c *CalculatorScreen) detailView(width int) string {
	name := c.Selected()
	if name == "" {
		return ""
	}
	course := c.term.Courses[name]
	st := course.Status()

	var b strings.Builder
	b.WriteString(theme.Title.Render(name) + "\n\n")

	if len(course.Grades) == 0 {
		b.WriteString(theme.Hint.Render("No grades yet") + "\n")
	}
	for i, g := range course.Grades {
		marker := theme.Unselected.Render(fmt.Sprintf("  %d.", i+1))
		if i == c.grade {
			marker = theme.Selected.Render(fmt.Sprintf("▸ %d.", i+1))
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker,
			theme.Body.Render(fmt.Sprintf("%.2f", g.Score)),
			theme.Subtitle.Render(fmt.Sprintf("%g%%", g.Weight))))
	}

	bar := components.NewProgressBar("Graded", st.GradedWeight/grading.FullWeight, min(width, 50))
	b.WriteString("\n" + bar.View() + "\n\n")

	if st.GradedWeight > 0 {
		b.WriteString(theme.Label.Render("Weighted score") + theme.Body.Render(fmt.Sprintf("%.2f", st.WeightedScore)) + "\n")
		b.WriteString(theme.Label.Render("Remaining") + theme.Body.Render(fmt.Sprintf("%g%%", st.RemainingWeight)) + "\n")
		b.WriteString(theme.Label.Render("Required") + theme.Body.Render(components.Score(st.RequiredScore)) + "\n")
	}
	b.WriteString("\n" + theme.ForOutcome(st.Outcome).Render(st.Message()))
	return b.String()
}
