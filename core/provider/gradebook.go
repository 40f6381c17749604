// Package provider holds the gradebook payload as returned by the student-information-system client.
// The shape is owned by that client; we only read it.
package provider

import "time"

type (
	Gradebook struct {
		Courses         []Course         `json:"courses" validate:"dive"`
		ReportingPeriod ReportingPeriods `json:"reportingPeriod"`
	}

	ReportingPeriods struct {
		Current   ReportingPeriod   `json:"current"`
		Available []ReportingPeriod `json:"available"`
	}

	ReportingPeriod struct {
		Name  string    `json:"name"`
		Index int       `json:"index"`
		Date  DateRange `json:"date"`
	}

	DateRange struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	Staff struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	Course struct {
		Title string `json:"title" validate:"required"`
		Staff Staff  `json:"staff"`
		Room  string `json:"room"`
		// Marks[0] is the current marking period.
		Marks []Mark `json:"marks"`
	}

	Mark struct {
		Name               string             `json:"name"`
		WeightedCategories []WeightedCategory `json:"weightedCategories"`
		Assignments        []Assignment       `json:"assignments"`
	}

	Weight struct {
		Standard string `json:"standard"` // numeric string, ex: "20"
	}

	WeightedCategory struct {
		Type   string `json:"type"`
		Weight Weight `json:"weight"`
	}

	Score struct {
		Type  string `json:"type"`
		Value string `json:"value"` // ex: "8.5 out of 10", "Not Graded", "Not Due"
	}

	AssignmentDate struct {
		Start time.Time `json:"start"`
		Due   time.Time `json:"due"`
	}

	Assignment struct {
		Name   string         `json:"name"`
		Type   string         `json:"type"` // category name
		Notes  string         `json:"notes"`
		Points string         `json:"points"` // "x / y" or a bare string
		Score  Score          `json:"score"`
		Date   AssignmentDate `json:"date"`
	}
)

// CurrentMark returns the current marking period of the course, if any.
func (c Course) CurrentMark() (Mark, bool) {
	if len(c.Marks) == 0 {
		return Mark{}, false
	}
	return c.Marks[0], true
}

// CourseIndex returns the position of the first course titled `title`, or -1.
func (gb Gradebook) CourseIndex(title string) int {
	for i, c := range gb.Courses {
		if c.Title == title {
			return i
		}
	}
	return -1
}
