package session_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/gradebook"
	"github.com/trezcool/bulletin/core/provider"
	"github.com/trezcool/bulletin/core/session"
	"github.com/trezcool/bulletin/services/logger"
	"github.com/trezcool/bulletin/storage/database/inmem"
	"github.com/trezcool/bulletin/tests"
)

func setup(t *testing.T) (*session.Service, session.Session) {
	t.Helper()
	repo := inmemdb.NewSessionRepository(time.Hour, time.Hour)
	svc := session.NewService(repo, logsvc.NewKitLogger(kitlog.NewNopLogger()), core.NewValidator(core.NewTranslator()))
	sess, err := svc.Open(context.Background(), testutil.WeightedGradebook())
	require.NoError(t, err)
	return svc, sess
}

func fPtr(f float64) *float64 { return &f }

func courseValue(t *testing.T, sess session.Session, name string) float64 {
	t.Helper()
	c, ok := sess.Snapshot.Course(name)
	require.True(t, ok)
	return c.Value
}

func TestService_Open(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()

	assert.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.Journal)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.InDelta(t, 88, courseValue(t, sess, "Math"), 1e-9)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = svc.Get(ctx, "nope")
	assert.Equal(t, session.ErrNotFound, err)

	bad := testutil.Gradebook(provider.Course{Title: ""})
	_, err = svc.Open(ctx, bad)
	assert.IsType(t, validator.ValidationErrors{}, err)
}

func TestService_mutations(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()
	id := sess.ID

	sess, err := svc.UpdatePoints(ctx, id, "Math", "Quiz 1", session.UpdatePoints{Field: "earned", Value: fPtr(10)})
	require.NoError(t, err)
	assert.InDelta(t, 92, courseValue(t, sess, "Math"), 1e-9)

	sess, err = svc.AddAssignment(ctx, id, "Math", session.AddAssignment{Category: " B ", Points: fPtr(0), Total: fPtr(50)})
	require.NoError(t, err)
	c, _ := sess.Snapshot.Course("Math")
	assert.Equal(t, "Assignment", c.Assignments[0].Name)
	assert.Equal(t, "B", c.Assignments[0].Category)
	// B: 45/100 => 0.45*80 + 20 = 56
	assert.InDelta(t, 56, c.Value, 1e-9)

	sess, err = svc.ToggleCategory(ctx, id, "Math", "B")
	require.NoError(t, err)
	assert.InDelta(t, 100, courseValue(t, sess, "Math"), 1e-9)

	sess, err = svc.DeleteAssignment(ctx, id, "Math", "Quiz 1")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(courseValue(t, sess, "Math")))

	require.Len(t, sess.Journal, 4)
	kinds := []session.Kind{
		session.KindUpdatePoints, session.KindAddAssignment, session.KindToggleCategory, session.KindDeleteAssignment,
	}
	for i, m := range sess.Journal {
		assert.Equal(t, kinds[i], m.Kind)
		assert.False(t, m.At.IsZero())
	}

	// the stored session matches what was returned
	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Journal, 4)
	assert.True(t, math.IsNaN(courseValue(t, stored, "Math")))
}

func TestService_clearScore(t *testing.T) {
	svc, sess := setup(t)

	sess, err := svc.UpdatePoints(context.Background(), sess.ID, "Math", "Test 1", session.UpdatePoints{Field: "earned"})
	require.NoError(t, err)
	c, _ := sess.Snapshot.Course("Math")
	a, _ := c.Assignment("Test 1")
	assert.True(t, math.IsNaN(a.Points))
	assert.False(t, sess.Journal[0].Value.Valid)
	assert.InDelta(t, 80, c.Value, 1e-9)
}

func TestService_validation(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()
	id := sess.ID

	tests := []struct {
		name      string
		call      func() error
		wantField string
		wantMsg   string
	}{
		{
			name: "unknown field",
			call: func() error {
				_, err := svc.UpdatePoints(ctx, id, "Math", "Quiz 1", session.UpdatePoints{Field: "points", Value: fPtr(1)})
				return err
			},
			wantField: "field",
		},
		{
			name: "non finite value",
			call: func() error {
				_, err := svc.UpdatePoints(ctx, id, "Math", "Quiz 1", session.UpdatePoints{Field: "total", Value: fPtr(math.Inf(1))})
				return err
			},
			wantField: "value",
		},
		{
			name: "missing category",
			call: func() error {
				_, err := svc.AddAssignment(ctx, id, "Math", session.AddAssignment{Points: fPtr(1), Total: fPtr(1)})
				return err
			},
			wantField: "category",
		},
		{
			name: "course typo",
			call: func() error {
				_, err := svc.UpdatePoints(ctx, id, "Mtah", "Quiz 1", session.UpdatePoints{Field: "earned", Value: fPtr(1)})
				return err
			},
			wantField: "course",
			wantMsg:   `course not found; did you mean "Math"?`,
		},
		{
			name: "assignment typo",
			call: func() error {
				_, err := svc.DeleteAssignment(ctx, id, "Math", "Quiz 2")
				return err
			},
			wantField: "assignment",
			wantMsg:   `assignment not found; did you mean "Quiz 1"?`,
		},
		{
			name: "unknown category",
			call: func() error {
				_, err := svc.ToggleCategory(ctx, id, "Math", "Homework")
				return err
			},
			wantField: "category",
			wantMsg:   "category not found",
		},
		{
			name: "assignment exists",
			call: func() error {
				_, err := svc.AddAssignment(ctx, id, "Math", session.AddAssignment{Name: "Quiz 1", Category: "A"})
				return err
			},
			wantField: "name",
			wantMsg:   gradebook.ErrAssignmentExists.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			switch e := err.(type) {
			case validator.ValidationErrors:
				require.Len(t, e, 1)
				assert.Equal(t, tt.wantField, e[0].Field())
			case *core.ValidationError:
				require.Len(t, e.Fields, 1)
				assert.Equal(t, tt.wantField, e.Fields[0].Field)
				assert.Equal(t, tt.wantMsg, e.Fields[0].Error)
			default:
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		})
	}

	// nothing was journaled
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Journal)
}

func TestService_undoReset(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()
	id := sess.ID

	_, err := svc.Undo(ctx, id)
	var vErr *core.ValidationError
	require.IsType(t, vErr, err)
	assert.Equal(t, session.ErrNothingToUndo, errors.Cause(err.(*core.ValidationError).Err))

	_, err = svc.AddAssignment(ctx, id, "Math", session.AddAssignment{Category: "A", Points: fPtr(0), Total: fPtr(10)})
	require.NoError(t, err)
	sess, err = svc.AddAssignment(ctx, id, "Math", session.AddAssignment{Category: "A", Points: fPtr(0), Total: fPtr(10)})
	require.NoError(t, err)
	c, _ := sess.Snapshot.Course("Math")
	assert.Equal(t, "Assignment2", c.Assignments[0].Name)

	sess, err = svc.Undo(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.Journal, 1)
	c, _ = sess.Snapshot.Course("Math")
	assert.Equal(t, []string{"Assignment", "Quiz 1", "Test 1"}, names(c))
	// A: 8/20 = 40 => 8 + 72 = 80
	assert.InDelta(t, 80, c.Value, 1e-9)

	sess, err = svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, sess.Journal)
	assert.InDelta(t, 88, courseValue(t, sess, "Math"), 1e-9)
}

func TestService_Delete(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, sess.ID))
	_, err := svc.Get(ctx, sess.ID)
	assert.Equal(t, session.ErrNotFound, err)
	assert.Equal(t, session.ErrNotFound, svc.Delete(ctx, sess.ID))

	_, err = svc.ToggleCategory(ctx, sess.ID, "Math", "A")
	assert.Equal(t, session.ErrNotFound, err)
}

// Concurrent writers on one session must not lose updates.
func TestService_serializesWrites(t *testing.T) {
	svc, sess := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	n := 20
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddAssignment(ctx, sess.ID, "Math", session.AddAssignment{Category: "A", Points: fPtr(10), Total: fPtr(10)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Journal, n)
	c, _ := got.Snapshot.Course("Math")
	assert.Len(t, c.Assignments, n+2)
}

func TestReplay(t *testing.T) {
	gb := testutil.SchoolGradebook()
	marks := gradebook.Convert(gb)
	journal := []session.Mutation{
		{Kind: session.KindToggleCategory, Course: "Math (MAT101)", Category: "Homework"},
		{Kind: session.KindAddAssignment, Course: "Art", Category: "Projects", At: testutil.Now},
		{Kind: session.KindDeleteAssignment, Course: "History (SOC49351)", Assignment: "Quiz 2"},
	}
	journal[1].Points.SetValid(18)
	journal[1].Total.SetValid(20)

	var err error
	for _, m := range journal {
		marks, err = m.Apply(marks)
		require.NoError(t, err)
	}

	replayed, err := session.Replay(gb, journal)
	require.NoError(t, err)
	assert.Equal(t, marks.CourseNames(), replayed.CourseNames())
	assert.Equal(t, marks.GPA, replayed.GPA)
	for i := range marks.Courses {
		assert.Equal(t, names(&marks.Courses[i]), names(&replayed.Courses[i]))
		if !math.IsNaN(marks.Courses[i].Value) {
			assert.Equal(t, marks.Courses[i].Value, replayed.Courses[i].Value)
		}
	}
	// Math tests only: 94 (A), History 85 (B), Art 90 (A)
	assert.Equal(t, 3.67, replayed.GPA)

	_, err = session.Replay(gb, []session.Mutation{{Kind: "rename"}})
	assert.Error(t, err)
}

func names(c *gradebook.Course) []string {
	out := make([]string, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		out = append(out, a.Name)
	}
	return out
}
