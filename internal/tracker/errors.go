package tracker

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrCourseExists       = errors.New("course already exists in this term")
	ErrCourseNotFound     = errors.New("course not found in the active term")
	ErrGradeNotFound      = errors.New("grade entry not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrWeightExceeded     = errors.New("graded weight cannot exceed 100%")

	// ErrCorruptState marks a stored document that could not be decoded.
	// Open recovers from it by starting over with defaults.
	ErrCorruptState = errors.New("stored state is unreadable")
)

// ValidationError reports user input that failed validation. Fields maps
// the input field name to a readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}
