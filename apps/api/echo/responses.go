package echoapi

import (
	"math"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/bulletin/core/gradebook"
	"github.com/trezcool/bulletin/core/provider"
	"github.com/trezcool/bulletin/core/session"
)

// Numbers that are not finite (blank scores, empty categories) are rendered as null.
type (
	SessionResponse struct {
		ID        string             `json:"id"`
		Journal   []session.Mutation `json:"journal"`
		Gradebook SnapshotResponse   `json:"gradebook"`
		CreatedAt time.Time          `json:"created_at"`
		UpdatedAt time.Time          `json:"updated_at"`
	}

	SnapshotResponse struct {
		GPA              null.Float64               `json:"gpa"`
		ReportingPeriod  provider.ReportingPeriod   `json:"reporting_period"`
		ReportingPeriods []provider.ReportingPeriod `json:"reporting_periods"`
		Courses          []CourseResponse           `json:"courses"`
	}

	CourseResponse struct {
		Name        string               `json:"name"`
		DisplayName string               `json:"display_name"`
		Period      int                  `json:"period"`
		Teacher     string               `json:"teacher"`
		Room        string               `json:"room"`
		Points      null.Float64         `json:"points"`
		Total       null.Float64         `json:"total"`
		Value       null.Float64         `json:"value"`
		Letter      string               `json:"letter,omitempty"`
		MarkColor   string               `json:"mark_color,omitempty"`
		BarColor    string               `json:"bar_color,omitempty"`
		Categories  []CategoryResponse   `json:"categories"`
		Assignments []AssignmentResponse `json:"assignments"`
	}

	CategoryResponse struct {
		Name   string       `json:"name"`
		Weight null.Float64 `json:"weight"`
		Points null.Float64 `json:"points"`
		Total  null.Float64 `json:"total"`
		Value  null.Float64 `json:"value"`
		Show   bool         `json:"show"`
	}

	AssignmentResponse struct {
		Name     string           `json:"name"`
		Category string           `json:"category"`
		Points   null.Float64     `json:"points"`
		Total    null.Float64     `json:"total"`
		Percent  null.Float64     `json:"percent"`
		Status   gradebook.Status `json:"status"`
		Notes    string           `json:"notes"`
		Modified bool             `json:"modified"`
		Start    time.Time        `json:"start"`
		Due      time.Time        `json:"due"`
	}
)

func finite(f float64) null.Float64 {
	return null.NewFloat64(f, !math.IsNaN(f) && !math.IsInf(f, 0))
}

func newSessionResponse(sess session.Session) SessionResponse {
	journal := sess.Journal
	if journal == nil {
		journal = []session.Mutation{}
	}
	return SessionResponse{
		ID:        sess.ID,
		Journal:   journal,
		Gradebook: newSnapshotResponse(sess.Snapshot),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func newSnapshotResponse(marks *gradebook.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		GPA:              finite(marks.GPA),
		ReportingPeriod:  marks.ReportingPeriod,
		ReportingPeriods: marks.ReportingPeriods,
		Courses:          make([]CourseResponse, 0, len(marks.Courses)),
	}
	if resp.ReportingPeriods == nil {
		resp.ReportingPeriods = []provider.ReportingPeriod{}
	}
	for _, c := range marks.Courses {
		resp.Courses = append(resp.Courses, newCourseResponse(c))
	}
	return resp
}

func newCourseResponse(c gradebook.Course) CourseResponse {
	resp := CourseResponse{
		Name:        c.Name,
		DisplayName: gradebook.ParseCourseName(c.Name),
		Period:      c.Period,
		Teacher:     c.Teacher,
		Room:        c.Room,
		Points:      finite(c.Points),
		Total:       finite(c.Total),
		Value:       finite(c.Value),
		Categories:  make([]CategoryResponse, 0, len(c.Categories)),
		Assignments: make([]AssignmentResponse, 0, len(c.Assignments)),
	}
	// a course without a grade has no letter
	if resp.Value.Valid {
		resp.Letter = string(c.Letter())
		resp.MarkColor = gradebook.MarkColor(c.Value)
		resp.BarColor = gradebook.BarColor(c.Value)
	}
	for _, cat := range c.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			Name:   cat.Name,
			Weight: finite(cat.Weight),
			Points: finite(cat.Points),
			Total:  finite(cat.Total),
			Value:  finite(cat.Value),
			Show:   cat.Show,
		})
	}
	for _, a := range c.Assignments {
		resp.Assignments = append(resp.Assignments, AssignmentResponse{
			Name:     a.Name,
			Category: a.Category,
			Points:   finite(a.Points),
			Total:    finite(a.Total),
			Percent:  finite(gradebook.Round(a.Value(), 2)),
			Status:   a.Status,
			Notes:    a.Notes,
			Modified: a.Modified,
			Start:    a.Date.Start,
			Due:      a.Date.Due,
		})
	}
	return resp
}
