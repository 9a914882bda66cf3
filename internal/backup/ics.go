package backup

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/abhisek/lexa/internal/tracker"
)

const productID = "-//lexa//academic tracker//EN"

// WriteICS writes the active term's evaluations as all-day calendar events.
// Evaluations with an unparseable date are skipped.
func WriteICS(w io.Writer, s *tracker.AppState, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName("lexa " + s.ActiveTerm)

	for _, ev := range tracker.SortedEvaluations(s.Active()) {
		day, err := time.Parse(tracker.DateLayout, ev.Date)
		if err != nil {
			continue
		}
		e := cal.AddEvent(ev.ID + "@lexa")
		e.SetDtStampTime(now.UTC())
		e.SetAllDayStartAt(day)
		e.SetAllDayEndAt(day.AddDate(0, 0, 1))
		e.SetSummary(fmt.Sprintf("%s: %s", ev.Course, ev.Kind))
		e.SetDescription(fmt.Sprintf("%s for %s (term %s)", ev.Kind, ev.Course, s.ActiveTerm))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
