package session

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/gradebook"
)

// names closer than this get suggested
var minSuggestionRatio = .6

// lookupError turns the engine's lookup misses into validation errors, with a hint when a known name is close.
func lookupError(err error, marks *gradebook.Snapshot, m Mutation) error {
	var field, name string
	var known []string

	switch errors.Cause(err) {
	case gradebook.ErrCourseNotFound:
		field, name, known = "course", m.Course, marks.CourseNames()
	case gradebook.ErrAssignmentNotFound:
		field, name = "assignment", m.Assignment
		if c, ok := marks.Course(m.Course); ok {
			for _, a := range c.Assignments {
				known = append(known, a.Name)
			}
		}
	case gradebook.ErrCategoryNotFound:
		field, name = "category", m.Category
		if c, ok := marks.Course(m.Course); ok {
			for _, cat := range c.Categories {
				known = append(known, cat.Name)
			}
		}
	case gradebook.ErrAssignmentExists:
		return core.NewValidationError(err, core.FieldError{Field: "name", Error: gradebook.ErrAssignmentExists.Error()})
	default:
		return errors.Wrap(err, "applying mutation")
	}

	msg := field + " not found"
	if suggestion := closest(name, known); suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", suggestion)
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: msg})
}

// closest returns the most similar of `candidates` to `name`, or "" if none is similar enough.
func closest(name string, candidates []string) string {
	var best string
	var bestRatio float64
	a := strings.Split(strings.ToLower(name), "")
	for _, c := range candidates {
		ratio := difflib.NewMatcher(a, strings.Split(strings.ToLower(c), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	if bestRatio < minSuggestionRatio {
		return ""
	}
	return best
}
