package grading

import "fmt"

// Outcome classifies a course's grading state.
type Outcome int

const (
	OutcomeInsufficientData Outcome = iota // nothing graded yet
	OutcomeInProgress                      // partially graded, required score is reachable
	OutcomeTrendingAbove                   // accumulated score already at or above passing
	OutcomeSafe                            // even the minimum score on the rest passes
	OutcomeUnreachable                     // required score exceeds MaxScore
	OutcomePassed                          // fully graded, passed
	OutcomeFailed                          // fully graded, failed
)

var outcomeNames = map[Outcome]string{
	OutcomeInsufficientData: "insufficient-data",
	OutcomeInProgress:       "in-progress",
	OutcomeTrendingAbove:    "trending-above",
	OutcomeSafe:             "safe",
	OutcomeUnreachable:      "unreachable",
	OutcomePassed:           "passed",
	OutcomeFailed:           "failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Message returns the user-facing explanation for a status.
func (s Status) Message() string {
	switch s.Outcome {
	case OutcomePassed:
		return fmt.Sprintf("Passed (%.2f)", *s.FinalScore)
	case OutcomeFailed:
		return fmt.Sprintf("Failed (%.2f)", *s.FinalScore)
	case OutcomeUnreachable:
		return fmt.Sprintf("At risk: you would need more than %.1f", MaxScore)
	case OutcomeSafe:
		return fmt.Sprintf("Comfortably safe: even a %.1f reaches %.1f", MinScore, PassingScore)
	case OutcomeTrendingAbove:
		return fmt.Sprintf("Already trending above %.1f", PassingScore)
	case OutcomeInProgress:
		return fmt.Sprintf("You need %.2f on the remaining %.0f%%", *s.RequiredScore, s.RemainingWeight)
	default:
		return "Add your first grade to calculate the required score"
	}
}
