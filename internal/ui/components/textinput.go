package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// InputMode restricts what a TextInput accepts.
type InputMode int

const (
	InputText InputMode = iota
	// InputDecimal accepts digits and a single decimal separator; a
	// comma is stored as a dot.
	InputDecimal
	// InputDate accepts digits and dashes.
	InputDate
)

// TextInput wraps bubbles/textinput with per-mode filtering.
type TextInput struct {
	Model textinput.Model
	Mode  InputMode
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, mode InputMode, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti, Mode: mode}
}

// Init returns the cursor blink command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update filters key presses by mode and forwards the rest.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.Text != "" {
		text, accept := t.filter(kmsg.Text)
		if !accept {
			return t, nil
		}
		kmsg.Text = text
		msg = kmsg
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) filter(text string) (string, bool) {
	switch t.Mode {
	case InputDecimal:
		text = strings.ReplaceAll(text, ",", ".")
		for _, r := range text {
			if r == '.' {
				if strings.Contains(t.Model.Value(), ".") {
					return "", false
				}
				continue
			}
			if r < '0' || r > '9' {
				return "", false
			}
		}
	case InputDate:
		for _, r := range text {
			if r != '-' && (r < '0' || r > '9') {
				return "", false
			}
		}
	}
	return text, true
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// FloatValue parses the input as a decimal number.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(t.Value(), 64)
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}
