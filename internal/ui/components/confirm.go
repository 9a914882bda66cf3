package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexa/internal/ui/theme"
)

// Confirm is a yes/no prompt that defaults to No.
type Confirm struct {
	Prompt   string
	yes      bool
	answered bool
}

// NewConfirm creates a prompt with No selected.
func NewConfirm(prompt string) Confirm {
	return Confirm{Prompt: prompt}
}

// Update handles y/n shortcuts, arrow selection and enter.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.answered {
		return c, nil
	}
	switch kmsg.String() {
	case "y", "Y":
		c.yes, c.answered = true, true
	case "n", "N", "esc":
		c.yes, c.answered = false, true
	case "left", "right", "tab", "h", "l":
		c.yes = !c.yes
	case "enter":
		c.answered = true
	}
	return c, nil
}

// Answered reports whether the user made a choice.
func (c Confirm) Answered() bool { return c.answered }

// Accepted reports whether the user chose Yes.
func (c Confirm) Accepted() bool { return c.answered && c.yes }

// View renders the prompt and both buttons.
func (c Confirm) View() string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		NewButton("Yes", c.yes).View(),
		"  ",
		NewButton("No", !c.yes).View(),
	)
	return theme.Card.Render(theme.Warn.Render(c.Prompt) + "\n\n" + buttons)
}
