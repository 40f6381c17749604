package gradebook

import (
	"math"
	"time"

	"github.com/trezcool/bulletin/core/provider"
)

// Assignment statuses
const (
	StatusGraded    Status = "Graded"
	StatusNotGraded Status = "Not Graded"
	StatusNotDue    Status = "Not Due"
)

type Status string

// Field selects which side of an assignment score is edited.
type Field int

const (
	Earned Field = iota + 1
	Total
)

func (f Field) String() string {
	switch f {
	case Earned:
		return "earned"
	case Total:
		return "total"
	}
	return ""
}

// ParseField maps "earned" | "total" to a Field.
func ParseField(s string) (Field, bool) {
	switch s {
	case "earned":
		return Earned, true
	case "total":
		return Total, true
	}
	return 0, false
}

type (
	// Snapshot is the whole gradebook at one point in time.
	// Derived fields are only valid after CalculatePoints.
	Snapshot struct {
		GPA              float64
		Courses          []Course
		ReportingPeriod  provider.ReportingPeriod
		ReportingPeriods []provider.ReportingPeriod
	}

	Course struct {
		Name        string
		Period      int
		Teacher     string
		Room        string
		Points      float64
		Total       float64
		Value       float64
		Categories  []Category
		Assignments []Assignment
	}

	Category struct {
		Name   string
		Weight float64
		Points float64
		Total  float64
		Value  float64
		Show   bool
	}

	Dates struct {
		Start time.Time
		Due   time.Time
	}

	Assignment struct {
		Name     string
		Category string
		Points   float64 // NaN if ungraded
		Total    float64 // NaN if ungraded
		Status   Status
		Notes    string
		Modified bool
		Date     Dates
	}
)

// Course returns the course named `name`.
func (s *Snapshot) Course(name string) (*Course, bool) {
	for i := range s.Courses {
		if s.Courses[i].Name == name {
			return &s.Courses[i], true
		}
	}
	return nil, false
}

// setCourse inserts `c`, replacing in place any course with the same name.
func (s *Snapshot) setCourse(c Course) *Course {
	if existing, ok := s.Course(c.Name); ok {
		*existing = c
		return existing
	}
	s.Courses = append(s.Courses, c)
	return &s.Courses[len(s.Courses)-1]
}

// CourseNames lists course names in order.
func (s *Snapshot) CourseNames() []string {
	names := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		names = append(names, c.Name)
	}
	return names
}

// Clone returns a deep copy of the snapshot. Nothing is shared with `s`.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	clone := *s
	if s.ReportingPeriods != nil {
		clone.ReportingPeriods = append([]provider.ReportingPeriod(nil), s.ReportingPeriods...)
	}
	if s.Courses != nil {
		clone.Courses = make([]Course, len(s.Courses))
		for i, c := range s.Courses {
			clone.Courses[i] = c.clone()
		}
	}
	return &clone
}

func (c Course) clone() Course {
	if c.Categories != nil {
		c.Categories = append([]Category(nil), c.Categories...)
	}
	if c.Assignments != nil {
		c.Assignments = append([]Assignment(nil), c.Assignments...)
	}
	return c
}

func (c *Course) Category(name string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

func (c *Course) setCategory(cat Category) {
	if existing, ok := c.Category(cat.Name); ok {
		*existing = cat
		return
	}
	c.Categories = append(c.Categories, cat)
}

// Assignment returns the first assignment named `name`.
func (c *Course) Assignment(name string) (*Assignment, bool) {
	for i := range c.Assignments {
		if c.Assignments[i].Name == name {
			return &c.Assignments[i], true
		}
	}
	return nil, false
}

func (c *Course) hasAssignment(name string) bool {
	_, ok := c.Assignment(name)
	return ok
}

// Letter is the course letter grade, NaN values grade as F.
func (c Course) Letter() Letter { return LetterGrade(c.Value) }

// Value is the assignment percentage, NaN when ungraded.
func (a Assignment) Value() float64 {
	return a.Points / a.Total * 100
}

func (a Assignment) Graded() bool {
	return !math.IsNaN(a.Value())
}
