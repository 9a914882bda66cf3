package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/tracker"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(16)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	Badge = lipgloss.NewStyle().
		Foreground(BgDark).
		Bold(true).
		Padding(0, 1)
)

// ForOutcome picks the text style for a course outcome.
func ForOutcome(o grading.Outcome) lipgloss.Style {
	switch o {
	case grading.OutcomePassed, grading.OutcomeSafe, grading.OutcomeTrendingAbove:
		return Good
	case grading.OutcomeFailed, grading.OutcomeUnreachable:
		return Bad
	case grading.OutcomeInProgress:
		return Warn
	default:
		return Subtitle
	}
}

// ForProximity renders the badge for an upcoming evaluation.
func ForProximity(p tracker.Proximity) string {
	switch p {
	case tracker.ProximityToday:
		return Badge.Background(Error).Render(p.String())
	case tracker.ProximitySoon:
		return Badge.Background(Accent).Render(p.String())
	case tracker.ProximityThisWeek:
		return Badge.Background(Warning).Render(p.String())
	default:
		return Badge.Background(Border).Foreground(Text).Render(p.String())
	}
}
