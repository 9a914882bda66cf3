package calculator

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/screen"
	"github.com/abhisek/lexa/internal/screen/screentest"
)

func TestCalculatorScreen_Title(t *testing.T) {
	c := New(screentest.New(t).Env)
	if c.Title() != "Calculator" {
		t.Errorf("Title = %q, want %q", c.Title(), "Calculator")
	}
}

func TestCalculatorScreen_AddCourse(t *testing.T) {
	env := screentest.New(t, "Biology")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('a'))
	c := scr.(*CalculatorScreen)
	if !c.CapturesInput() {
		t.Fatal("expected the course form to capture input")
	}

	scr = screentest.Type(scr, "Algebra")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	c = scr.(*CalculatorScreen)

	if c.CapturesInput() {
		t.Error("form should close after a valid course")
	}
	if got := c.Selected(); got != "Algebra" {
		t.Errorf("Selected = %q, want the new course", got)
	}
	if _, ok := env.Tracker.State().Active().Courses["Algebra"]; !ok {
		t.Error("course was not added to the tracker")
	}
}

func TestCalculatorScreen_DuplicateCourseKeepsFormOpen(t *testing.T) {
	env := screentest.New(t, "Algebra")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('a'))
	scr = screentest.Type(scr, "Algebra")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	c := scr.(*CalculatorScreen)

	if !c.CapturesInput() {
		t.Fatal("expected the form to stay open")
	}
	if !strings.Contains(c.View(100, 30), "already exists") {
		t.Error("expected the duplicate error in the form")
	}
}

func TestCalculatorScreen_AddGrade(t *testing.T) {
	env := screentest.New(t, "Algebra")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('g'))
	scr = screentest.Type(scr, "6")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	scr = screentest.Type(scr, "50")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	c := scr.(*CalculatorScreen)

	if c.CapturesInput() {
		t.Fatal("form should close after a valid grade")
	}
	grades := env.Tracker.State().Active().Courses["Algebra"].Grades
	if len(grades) != 1 || grades[0] != (grading.Entry{Score: 6, Weight: 50}) {
		t.Fatalf("grades = %v", grades)
	}

	view := c.View(120, 30)
	if !strings.Contains(view, "You need 2.00 on the remaining 50%") {
		t.Errorf("view missing required score message:\n%s", view)
	}
}

func TestCalculatorScreen_GradeOverWeightIsRejected(t *testing.T) {
	env := screentest.New(t, "Algebra")
	if err := env.Tracker.AddGrade(t.Context(), "Algebra", 5, 80); err != nil {
		t.Fatal(err)
	}
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('g'))
	scr = screentest.Type(scr, "4")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	scr = screentest.Type(scr, "30")
	scr, _ = scr.Update(screentest.Special(tea.KeyEnter))
	c := scr.(*CalculatorScreen)

	if !c.CapturesInput() {
		t.Error("expected the form to stay open")
	}
	if n := len(env.Tracker.State().Active().Courses["Algebra"].Grades); n != 1 {
		t.Errorf("grades = %d, want 1", n)
	}
}

func TestCalculatorScreen_GradeWithoutCourse(t *testing.T) {
	var scr screen.Screen = New(screentest.New(t).Env)
	scr, _ = scr.Update(screentest.Key('g'))
	c := scr.(*CalculatorScreen)
	if c.CapturesInput() {
		t.Error("no form should open without a course")
	}
	if c.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestCalculatorScreen_RemoveLastGrade(t *testing.T) {
	env := screentest.New(t, "Algebra")
	ctx := t.Context()
	_ = env.Tracker.AddGrade(ctx, "Algebra", 5, 30)
	_ = env.Tracker.AddGrade(ctx, "Algebra", 6, 20)

	var scr screen.Screen = New(env.Env)
	scr.Update(screentest.Key('x'))

	grades := env.Tracker.State().Active().Courses["Algebra"].Grades
	if len(grades) != 1 || grades[0].Score != 5 {
		t.Errorf("grades = %v, want only the first", grades)
	}
}

func TestCalculatorScreen_RemoveSelectedGrade(t *testing.T) {
	env := screentest.New(t, "Algebra", "Biology")
	ctx := t.Context()
	_ = env.Tracker.AddGrade(ctx, "Algebra", 5, 30)
	_ = env.Tracker.AddGrade(ctx, "Algebra", 6, 20)
	_ = env.Tracker.AddGrade(ctx, "Algebra", 4, 10)
	_ = env.Tracker.AddGrade(ctx, "Biology", 3, 10)

	var scr screen.Screen = New(env.Env)
	if got := scr.(*CalculatorScreen).SelectedGrade(); got != 2 {
		t.Fatalf("SelectedGrade = %d, want the last grade", got)
	}

	scr, _ = scr.Update(screentest.Special(tea.KeyLeft))
	scr, _ = scr.Update(screentest.Key('h'))
	scr, _ = scr.Update(screentest.Key('h'))
	if got := scr.(*CalculatorScreen).SelectedGrade(); got != 0 {
		t.Fatalf("SelectedGrade = %d, want 0", got)
	}
	scr, _ = scr.Update(screentest.Key('l'))
	if !strings.Contains(scr.View(120, 30), "▸ 2.") {
		t.Error("view should mark the selected grade")
	}

	scr, _ = scr.Update(screentest.Key('x'))
	grades := env.Tracker.State().Active().Courses["Algebra"].Grades
	if len(grades) != 2 || grades[0].Score != 5 || grades[1].Score != 4 {
		t.Errorf("grades = %v, want the middle grade removed", grades)
	}
	if got := scr.(*CalculatorScreen).SelectedGrade(); got != 1 {
		t.Errorf("SelectedGrade after delete = %d, want 1", got)
	}

	scr, _ = scr.Update(screentest.Key('j'))
	if got := scr.(*CalculatorScreen).SelectedGrade(); got != 0 {
		t.Errorf("SelectedGrade on Biology = %d, want its only grade", got)
	}
	scr, _ = scr.Update(screentest.Key('x'))
	scr, _ = scr.Update(screentest.Key('x'))
	if got := scr.(*CalculatorScreen).SelectedGrade(); got != -1 {
		t.Errorf("SelectedGrade without grades = %d, want -1", got)
	}
	if n := len(env.Tracker.State().Active().Courses["Algebra"].Grades); n != 2 {
		t.Errorf("Algebra grades = %d, want 2", n)
	}
}

func TestCalculatorScreen_DeleteCourseConfirm(t *testing.T) {
	env := screentest.New(t, "Algebra", "Biology")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('d'))
	scr, _ = scr.Update(screentest.Key('n'))
	if _, ok := env.Tracker.State().Active().Courses["Algebra"]; !ok {
		t.Fatal("declining must keep the course")
	}

	scr, _ = scr.Update(screentest.Key('d'))
	scr, _ = scr.Update(screentest.Key('y'))
	c := scr.(*CalculatorScreen)

	if _, ok := env.Tracker.State().Active().Courses["Algebra"]; ok {
		t.Error("expected Algebra to be deleted")
	}
	if c.Selected() != "Biology" {
		t.Errorf("Selected = %q, want Biology", c.Selected())
	}
}

func TestCalculatorScreen_Navigation(t *testing.T) {
	env := screentest.New(t, "Algebra", "Biology", "Chemistry")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Special(tea.KeyDown))
	scr, _ = scr.Update(screentest.Key('j'))
	scr, _ = scr.Update(screentest.Key('j'))
	if got := scr.(*CalculatorScreen).Selected(); got != "Chemistry" {
		t.Errorf("Selected = %q, want Chemistry", got)
	}
	scr, _ = scr.Update(screentest.Special(tea.KeyUp))
	if got := scr.(*CalculatorScreen).Selected(); got != "Biology" {
		t.Errorf("Selected = %q, want Biology", got)
	}
}

func TestCalculatorScreen_EscCancelsForm(t *testing.T) {
	env := screentest.New(t, "Algebra")
	var scr screen.Screen = New(env.Env)

	scr, _ = scr.Update(screentest.Key('a'))
	scr, _ = scr.Update(screentest.Special(tea.KeyEscape))
	if scr.(*CalculatorScreen).CapturesInput() {
		t.Error("esc should close the form")
	}
}

func TestCalculatorScreen_KeyHints(t *testing.T) {
	c := New(screentest.New(t, "Algebra").Env)
	if len(c.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
	c.Update(screentest.Key('a'))
	hints := c.KeyHints()
	if hints[len(hints)-1].Key != "Esc" {
		t.Errorf("form hints should end with Esc, got %v", hints)
	}
}
