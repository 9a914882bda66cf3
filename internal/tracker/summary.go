package tracker

import "github.com/abhisek/lexa/internal/grading"

// TermSummary aggregates the courses of one term.
type TermSummary struct {
	// Average is the mean weighted score of courses with any graded
	// weight, or nil when none qualifies.
	Average *float64

	GradedCourses int
	TotalCourses  int
	StudyMinutes  int

	// AtRisk lists flagged course names in sorted order.
	AtRisk []string
}

// Summarize computes the term-wide average and study time. Courses without
// graded weight are left out of the average but their study time counts.
func Summarize(term *Term) TermSummary {
	var sum TermSummary
	if term == nil {
		return sum
	}

	var total float64
	for _, name := range term.CourseNames() {
		c := term.Courses[name]
		sum.TotalCourses++
		sum.StudyMinutes += c.StudyMinutes

		st := c.Status()
		if st.GradedWeight > 0 {
			total += st.WeightedScore
			sum.GradedCourses++
		}
		if st.AtRisk {
			sum.AtRisk = append(sum.AtRisk, name)
		}
	}

	if sum.GradedCourses > 0 {
		avg := grading.Round2(total / float64(sum.GradedCourses))
		sum.Average = &avg
	}
	return sum
}

// Hours converts minutes to hours rounded to two decimals.
func Hours(minutes int) float64 {
	return grading.Round2(float64(minutes) / 60)
}
