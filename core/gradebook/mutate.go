package gradebook

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentExists   = errors.New("an assignment with this name already exists")

	placeholderName = "Assignment"
)

// Mutations never touch their input: each one works on a clone, recalculates it and returns it.
// Names must come from the snapshot; a miss returns the input untouched along with an error whose cause is one of
// the ErrXxxNotFound sentinels.

// UpdatePoints sets the earned or total points of an assignment and flags it as modified.
func UpdatePoints(marks *Snapshot, course, assignment string, value float64, field Field) (*Snapshot, error) {
	newMarks := marks.Clone()
	c, ok := newMarks.Course(course)
	if !ok {
		return marks, errors.Wrapf(ErrCourseNotFound, "%q", course)
	}
	a, ok := c.Assignment(assignment)
	if !ok {
		return marks, errors.Wrapf(ErrAssignmentNotFound, "%q in %q", assignment, course)
	}
	switch field {
	case Earned:
		a.Points = value
	case Total:
		a.Total = value
	default:
		return marks, errors.Errorf("unknown field %d", field)
	}
	a.Modified = true
	return CalculatePoints(newMarks), nil
}

// AddAssignment adds a graded assignment named "Assignment", "Assignment2", "Assignment3"...
// (first free name) at the front of the course. `category` may be unknown to the course,
// the assignment is then listed but does not count.
func AddAssignment(marks *Snapshot, course, category string, points, total float64, now time.Time) (*Snapshot, error) {
	c, ok := marks.Course(course)
	if !ok {
		return marks, errors.Wrapf(ErrCourseNotFound, "%q", course)
	}
	return AddNamedAssignment(marks, course, PlaceholderName(c), category, points, total, now)
}

// AddNamedAssignment is AddAssignment with an explicit, unused name.
func AddNamedAssignment(marks *Snapshot, course, name, category string, points, total float64, now time.Time) (*Snapshot, error) {
	newMarks := marks.Clone()
	c, ok := newMarks.Course(course)
	if !ok {
		return marks, errors.Wrapf(ErrCourseNotFound, "%q", course)
	}
	if c.hasAssignment(name) {
		return marks, errors.Wrapf(ErrAssignmentExists, "%q in %q", name, course)
	}

	a := Assignment{
		Name:     name,
		Category: category,
		Status:   StatusGraded,
		Points:   points,
		Total:    total,
		Modified: true,
		Date:     Dates{Start: now, Due: now},
	}
	c.Assignments = append([]Assignment{a}, c.Assignments...)
	return CalculatePoints(newMarks), nil
}

// PlaceholderName returns the first of "Assignment", "Assignment2", "Assignment3"... unused in the course.
func PlaceholderName(c *Course) string {
	if !c.hasAssignment(placeholderName) {
		return placeholderName
	}
	id := 2
	for c.hasAssignment(placeholderName + strconv.Itoa(id)) {
		id++
	}
	return placeholderName + strconv.Itoa(id)
}

// DeleteAssignment removes the first assignment named `assignment`.
func DeleteAssignment(marks *Snapshot, course, assignment string) (*Snapshot, error) {
	newMarks := marks.Clone()
	c, ok := newMarks.Course(course)
	if !ok {
		return marks, errors.Wrapf(ErrCourseNotFound, "%q", course)
	}
	for i, a := range c.Assignments {
		if a.Name == assignment {
			c.Assignments = append(c.Assignments[:i], c.Assignments[i+1:]...)
			return CalculatePoints(newMarks), nil
		}
	}
	return marks, errors.Wrapf(ErrAssignmentNotFound, "%q in %q", assignment, course)
}

// ToggleCategory includes or excludes a category from the course grade.
// Its assignments stay listed either way.
func ToggleCategory(marks *Snapshot, course, category string) (*Snapshot, error) {
	newMarks := marks.Clone()
	c, ok := newMarks.Course(course)
	if !ok {
		return marks, errors.Wrapf(ErrCourseNotFound, "%q", course)
	}
	cat, ok := c.Category(category)
	if !ok {
		return marks, errors.Wrapf(ErrCategoryNotFound, "%q in %q", category, course)
	}
	cat.Show = !cat.Show
	return CalculatePoints(newMarks), nil
}
