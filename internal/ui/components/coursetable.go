package components

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/lexa/internal/tracker"
	"github.com/abhisek/lexa/internal/ui/theme"
)

// Placeholder is shown for values that cannot be computed yet.
const Placeholder = "-"

// Score formats an optional score with two decimals.
func Score(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}

// CourseTable renders course rows with their grading outcome. Study time
// columns are left out when compact is set.
func CourseTable(rows []tracker.CourseRow, compact bool) string {
	headers := []string{"Course", "Graded", "Weighted", "Required", "Outcome"}
	if !compact {
		headers = append(headers, "Study", "Target")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...)

	for _, r := range rows {
		st := r.Status
		weighted := Placeholder
		if st.GradedWeight > 0 {
			weighted = fmt.Sprintf("%.2f", st.WeightedScore)
		}
		cells := []string{
			r.Name,
			fmt.Sprintf("%g%%", st.GradedWeight),
			weighted,
			Score(st.RequiredScore),
			st.Outcome.String(),
		}
		if !compact {
			cells = append(cells,
				fmt.Sprintf("%.1f h", tracker.Hours(r.StudyMinutes)),
				fmt.Sprintf("%g h", r.WeeklyTarget),
			)
		}
		t.Row(cells...)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Foreground(theme.TextDim).Bold(true)
		}
		if col == 4 && row >= 0 && row < len(rows) {
			return base.Inherit(theme.ForOutcome(rows[row].Status.Outcome))
		}
		if row >= 0 && row < len(rows) && rows[row].Status.AtRisk && col == 0 {
			return base.Inherit(theme.Bad)
		}
		return base.Foreground(theme.Text)
	})

	return t.String()
}
