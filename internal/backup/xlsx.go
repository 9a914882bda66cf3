package backup

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lexa/internal/grading"
	"github.com/abhisek/lexa/internal/tracker"
)

// SessionsSheet is the name of the study-log sheet in the grade report.
const SessionsSheet = "Sessions"

var termHeader = []string{
	"Course", "Grades", "Graded %", "Weighted", "Required", "Final", "Outcome", "Study hours", "Weekly target",
}

// WriteXLSX writes a grade report with one sheet per term, newest first,
// followed by the study session log.
func WriteXLSX(w io.Writer, s *tracker.AppState) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	riskStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		return fmt.Errorf("create risk style: %w", err)
	}

	for _, key := range s.TermKeys() {
		if err := writeTermSheet(f, s, key, headerStyle, riskStyle); err != nil {
			return fmt.Errorf("term %s: %w", key, err)
		}
	}
	if err := writeSessionsSheet(f, s, headerStyle); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}

	// Drop the default sheet.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(s.ActiveTerm); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTermSheet(f *excelize.File, s *tracker.AppState, key string, headerStyle, riskStyle int) error {
	if _, err := f.NewSheet(key); err != nil {
		return err
	}

	f.SetColWidth(key, "A", "A", 24)
	f.SetColWidth(key, "B", "B", 36)
	f.SetColWidth(key, "C", "I", 13)

	title := "Term " + key
	if key == s.ActiveTerm {
		title += " (active)"
	}
	f.SetCellValue(key, "A1", title)
	f.SetCellStyle(key, "A1", "A1", headerStyle)

	for i, h := range termHeader {
		f.SetCellValue(key, cell(colName(i), 2), h)
	}
	f.SetCellStyle(key, "A2", cell(colName(len(termHeader)-1), 2), headerStyle)

	term := s.Terms[key]
	if term == nil {
		return nil
	}

	row := 3
	for _, name := range term.CourseNames() {
		c := term.Courses[name]
		if c == nil {
			continue
		}
		st := c.Status()
		target, ok := s.WeeklyTargets[name]
		if !ok {
			target = tracker.DefaultWeeklyHours
		}

		values := []any{
			name,
			formatGrades(c.Grades),
			st.GradedWeight,
			st.WeightedScore,
			optional(st.RequiredScore),
			optional(st.FinalScore),
			st.Outcome.String(),
			tracker.Hours(c.StudyMinutes),
			target,
		}
		for i, v := range values {
			f.SetCellValue(key, cell(colName(i), row), v)
		}
		if st.AtRisk {
			f.SetCellStyle(key, cell("A", row), cell("A", row), riskStyle)
		}
		row++
	}

	sum := tracker.Summarize(term)
	row++
	f.SetCellValue(key, cell("A", row), "Average")
	f.SetCellValue(key, cell("D", row), optional(sum.Average))
	f.SetCellValue(key, cell("H", row), tracker.Hours(sum.StudyMinutes))
	return nil
}

func writeSessionsSheet(f *excelize.File, s *tracker.AppState, headerStyle int) error {
	if _, err := f.NewSheet(SessionsSheet); err != nil {
		return err
	}
	f.SetColWidth(SessionsSheet, "A", "A", 12)
	f.SetColWidth(SessionsSheet, "B", "B", 24)

	for i, h := range []string{"Date", "Course", "Minutes"} {
		f.SetCellValue(SessionsSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(SessionsSheet, "A1", "C1", headerStyle)

	for i, sess := range s.Sessions {
		row := i + 2
		f.SetCellValue(SessionsSheet, cell("A", row), sess.Date)
		f.SetCellValue(SessionsSheet, cell("B", row), sess.Course)
		f.SetCellValue(SessionsSheet, cell("C", row), sess.Minutes)
	}
	return nil
}

func formatGrades(entries []grading.Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%.2f (%g%%)", e.Score, e.Weight)
	}
	return strings.Join(parts, ", ")
}

// optional renders a missing score as an empty cell.
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
