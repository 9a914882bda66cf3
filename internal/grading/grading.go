package grading

import "math"

// Grading scale constants.
const (
	MinScore     = 1.0
	MaxScore     = 7.0
	PassingScore = 4.0
	FullWeight   = 100.0

	// SafeRequiredScore is the required score at or below which a course
	// passes even with the lowest possible grade.
	SafeRequiredScore = MinScore
)

// Entry is one weighted score component of a course.
type Entry struct {
	Score  float64 `json:"nota"`
	Weight float64 `json:"porcentaje"`
}

// Status is the evaluation of a course's grade entries.
type Status struct {
	GradedWeight    float64
	WeightedScore   float64
	RemainingWeight float64

	// FinalScore is set only when the full weight has been graded.
	FinalScore *float64

	// RequiredScore is the score needed on the remaining weight to reach
	// PassingScore. Set only while 0 < GradedWeight < 100.
	RequiredScore *float64

	Outcome Outcome
	AtRisk  bool
}

// Complete reports whether every percent of the course has been graded.
func (s Status) Complete() bool {
	return s.FinalScore != nil
}

// Passed reports whether a complete course reached the passing score.
func (s Status) Passed() bool {
	return s.Outcome == OutcomePassed
}

// Evaluate computes a course status from its grade entries. Entries are
// trusted to be well-formed (score in range, weights summing to <= 100).
func Evaluate(entries []Entry) Status {
	var graded, weighted float64
	for _, e := range entries {
		graded += e.Weight
		weighted += e.Score * (e.Weight / FullWeight)
	}
	graded = Round2(graded)

	st := Status{
		GradedWeight:    graded,
		WeightedScore:   Round2(weighted),
		RemainingWeight: Round2(FullWeight - graded),
	}

	switch {
	case graded >= FullWeight:
		final := Round2(weighted)
		st.FinalScore = &final
		if final >= PassingScore {
			st.Outcome = OutcomePassed
		} else {
			st.Outcome = OutcomeFailed
			st.AtRisk = true
		}
	case graded > 0:
		required := Round2((PassingScore - weighted) / ((FullWeight - graded) / FullWeight))
		st.RequiredScore = &required
		st.Outcome = classify(required, st.WeightedScore)
		st.AtRisk = st.Outcome == OutcomeUnreachable
	default:
		st.Outcome = OutcomeInsufficientData
	}
	return st
}

// classify picks the single outcome for a partially graded course.
// Earlier checks take priority over later ones; a course already at the
// passing score would otherwise always read as Safe.
func classify(required, weighted float64) Outcome {
	switch {
	case required > MaxScore:
		return OutcomeUnreachable
	case weighted >= PassingScore:
		return OutcomeTrendingAbove
	case required <= SafeRequiredScore:
		return OutcomeSafe
	default:
		return OutcomeInProgress
	}
}

// TotalWeight returns the rounded sum of entry weights.
func TotalWeight(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Weight
	}
	return Round2(total)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
