package session

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/bulletin/core/gradebook"
	"github.com/trezcool/bulletin/core/provider"
)

// Mutation kinds
const (
	KindUpdatePoints     Kind = "update_points"
	KindAddAssignment    Kind = "add_assignment"
	KindDeleteAssignment Kind = "delete_assignment"
	KindToggleCategory   Kind = "toggle_category"
)

type Kind string

// Mutation is one what-if edit, as journaled. Null numbers stand for NaN (blank score).
type Mutation struct {
	Kind       Kind         `json:"kind"`
	Course     string       `json:"course"`
	Assignment string       `json:"assignment,omitempty"`
	Category   string       `json:"category,omitempty"`
	Field      string       `json:"field,omitempty"`
	Value      null.Float64 `json:"value"`
	Points     null.Float64 `json:"points"`
	Total      null.Float64 `json:"total"`
	At         time.Time    `json:"at"` // UTC
}

// Apply runs the mutation against `marks` and returns the recalculated snapshot.
func (m Mutation) Apply(marks *gradebook.Snapshot) (*gradebook.Snapshot, error) {
	switch m.Kind {
	case KindUpdatePoints:
		field, ok := gradebook.ParseField(m.Field)
		if !ok {
			return marks, errors.Errorf("unknown field %q", m.Field)
		}
		return gradebook.UpdatePoints(marks, m.Course, m.Assignment, nullToFloat(m.Value), field)
	case KindAddAssignment:
		if m.Assignment == "" {
			return gradebook.AddAssignment(marks, m.Course, m.Category, nullToFloat(m.Points), nullToFloat(m.Total), m.At)
		}
		return gradebook.AddNamedAssignment(marks, m.Course, m.Assignment, m.Category, nullToFloat(m.Points), nullToFloat(m.Total), m.At)
	case KindDeleteAssignment:
		return gradebook.DeleteAssignment(marks, m.Course, m.Assignment)
	case KindToggleCategory:
		return gradebook.ToggleCategory(marks, m.Course, m.Category)
	}
	return marks, errors.Errorf("unknown mutation kind %q", m.Kind)
}

type Session struct {
	ID        string              `json:"id"`
	Gradebook provider.Gradebook  `json:"-"`
	Journal   []Mutation          `json:"journal"`
	Snapshot  *gradebook.Snapshot `json:"-"`
	CreatedAt time.Time           `json:"created_at"` // UTC
	UpdatedAt time.Time           `json:"updated_at"` // UTC
}

// Clone copies the session so that the copy can be mutated freely.
// The provider gradebook is never written to and stays shared.
func (s Session) Clone() Session {
	if s.Journal != nil {
		s.Journal = append([]Mutation(nil), s.Journal...)
	}
	s.Snapshot = s.Snapshot.Clone()
	return s
}

// Replay rebuilds a snapshot from the provider gradebook and the journal, in order.
func Replay(gb provider.Gradebook, journal []Mutation) (*gradebook.Snapshot, error) {
	marks := gradebook.Convert(gb)
	for i, m := range journal {
		var err error
		if marks, err = m.Apply(marks); err != nil {
			return nil, errors.Wrapf(err, "replaying mutation #%d (%s)", i+1, m.Kind)
		}
	}
	return marks, nil
}

// UpdatePoints contains information needed to edit an assignment score. A nil Value clears the score.
type UpdatePoints struct {
	Field string   `json:"field" validate:"required,oneof=earned total"`
	Value *float64 `json:"value" validate:"omitempty,finite"`
}

// AddAssignment contains information needed to add a hypothetical assignment.
// Without a Name, the first free "Assignment", "Assignment2"... is used.
type AddAssignment struct {
	Name     string   `json:"name" validate:"omitempty,max=100"`
	Category string   `json:"category" validate:"required"`
	Points   *float64 `json:"points" validate:"omitempty,finite"`
	Total    *float64 `json:"total" validate:"omitempty,finite"`
}

func nullToFloat(f null.Float64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

func floatToNull(f float64) null.Float64 {
	return null.NewFloat64(f, !math.IsNaN(f) && !math.IsInf(f, 0))
}

func ptrToNull(f *float64) null.Float64 {
	if f == nil {
		return null.Float64{}
	}
	return floatToNull(*f)
}
