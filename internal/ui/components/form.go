package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexa/internal/ui/theme"
)

// Field is one labelled form input. A field with Options is a choice
// field cycled with left/right; otherwise it is free text.
type Field struct {
	Label   string
	Input   TextInput
	Options []string
	choice  int
}

// TextField builds a free-text field.
func TextField(label, placeholder string, mode InputMode, limit int) Field {
	in := NewTextInput(placeholder, mode, limit)
	in.Blur()
	return Field{Label: label, Input: in}
}

// ChoiceField builds a field that picks one of options.
func ChoiceField(label string, options []string, selected int) Field {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Field{Label: label, Options: options, choice: selected}
}

// Value returns the typed text or the selected option.
func (f Field) Value() string {
	if len(f.Options) > 0 {
		return f.Options[f.choice]
	}
	return f.Input.Value()
}

type formState int

const (
	formEditing formState = iota
	formSubmitted
	formCancelled
)

// Form is a small modal form. Enter or tab advances, enter on the last
// field submits, esc cancels.
type Form struct {
	Title  string
	Fields []Field
	Focus  int
	Err    string
	state  formState
}

// NewForm builds a form focused on its first field.
func NewForm(title string, fields ...Field) Form {
	f := Form{Title: title, Fields: fields}
	f.focus(0)
	return f
}

// Init returns the cursor command of the focused input.
func (f Form) Init() tea.Cmd {
	if len(f.Fields) == 0 || f.Fields[f.Focus].Options != nil {
		return nil
	}
	return f.Fields[f.Focus].Input.Init()
}

// Update handles navigation and forwards typing to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if f.state != formEditing || len(f.Fields) == 0 {
		return f, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return f, nil
	}

	field := &f.Fields[f.Focus]
	switch kmsg.String() {
	case "esc":
		f.state = formCancelled
		return f, nil
	case "enter":
		if f.Focus == len(f.Fields)-1 {
			f.state = formSubmitted
			return f, nil
		}
		return f, f.focus(f.Focus + 1)
	case "tab", "down":
		return f, f.focus((f.Focus + 1) % len(f.Fields))
	case "shift+tab", "up":
		return f, f.focus((f.Focus + len(f.Fields) - 1) % len(f.Fields))
	case "left":
		if len(field.Options) > 0 {
			field.choice = (field.choice + len(field.Options) - 1) % len(field.Options)
			return f, nil
		}
	case "right":
		if len(field.Options) > 0 {
			field.choice = (field.choice + 1) % len(field.Options)
			return f, nil
		}
	}

	if len(field.Options) > 0 {
		return f, nil
	}
	var cmd tea.Cmd
	field.Input, cmd = field.Input.Update(msg)
	return f, cmd
}

func (f *Form) focus(i int) tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	if prev := &f.Fields[f.Focus]; prev.Options == nil {
		prev.Input.Blur()
	}
	f.Focus = i
	if f.Fields[i].Options != nil {
		return nil
	}
	return f.Fields[i].Input.Focus()
}

// Submitted reports whether the user submitted the form.
func (f Form) Submitted() bool { return f.state == formSubmitted }

// Cancelled reports whether the user dismissed the form.
func (f Form) Cancelled() bool { return f.state == formCancelled }

// Value returns the value of field i.
func (f Form) Value(i int) string {
	return f.Fields[i].Value()
}

// Reject reopens a submitted form with an error message.
func (f *Form) Reject(msg string) {
	f.Err = msg
	f.state = formEditing
}

// View renders the form as a bordered card.
func (f Form) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(f.Title))
	b.WriteString("\n\n")
	for i, field := range f.Fields {
		label := theme.Label.Render(field.Label)
		if i == f.Focus {
			label = theme.Label.Foreground(theme.Primary).Bold(true).Render(field.Label)
		}
		b.WriteString(label)
		if len(field.Options) > 0 {
			b.WriteString(renderChoice(field, i == f.Focus))
		} else {
			b.WriteString(field.Input.View())
		}
		b.WriteString("\n")
	}
	if f.Err != "" {
		b.WriteString("\n" + theme.Bad.Render(f.Err) + "\n")
	}
	return theme.Card.Render(b.String())
}

func renderChoice(f Field, focused bool) string {
	parts := make([]string, 0, len(f.Options))
	for i, opt := range f.Options {
		if i == f.choice {
			style := theme.Unselected.Bold(true)
			if focused {
				style = theme.Selected
			}
			parts = append(parts, style.Render("["+opt+"]"))
			continue
		}
		parts = append(parts, theme.Subtitle.Render(" "+opt+" "))
	}
	arrows := ""
	if focused {
		arrows = theme.Hint.Render("  ←/→")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + arrows
}
