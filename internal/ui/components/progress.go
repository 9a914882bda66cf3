package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexa/internal/ui/theme"
)

// ProgressBar draws a fraction as a filled bar with a trailing note. The
// note defaults to the percentage.
type ProgressBar struct {
	Label    string
	Fraction float64
	Width    int
	Note     string
	Fill     lipgloss.Style
}

// NewProgressBar creates a bar of the given total width.
func NewProgressBar(label string, fraction float64, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Fraction: fraction,
		Width:    width,
		Fill:     theme.ProgressFilled,
	}
}

// WithNote replaces the percentage shown after the bar.
func (p ProgressBar) WithNote(note string) ProgressBar {
	p.Note = note
	return p
}

func (p ProgressBar) View() string {
	frac := min(max(p.Fraction, 0), 1)

	note := p.Note
	if note == "" {
		note = fmt.Sprintf("%d%%", int(frac*100))
	}
	note = "  " + theme.Subtitle.Render(note)

	label := ""
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}

	size := max(p.Width-lipgloss.Width(label)-lipgloss.Width(note), 4)
	filled := int(float64(size) * frac)
	return label +
		p.Fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", size-filled)) +
		note
}
