package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/gradebook"
	"github.com/trezcool/bulletin/core/provider"
)

var (
	// errors
	ErrNotFound      = errors.New("session not found")
	ErrNothingToUndo = errors.New("nothing to undo")

	nowFunc   = time.Now // mockable
	newIDFunc = func() string { return uuid.New().String() }
)

type (
	Repository interface {
		CreateSession(ctx context.Context, sess Session) (Session, error)
		GetSession(ctx context.Context, id string) (Session, error)
		UpdateSession(ctx context.Context, sess Session) (Session, error)
		DeleteSession(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Open(ctx context.Context, gb provider.Gradebook) (Session, error)
		Get(ctx context.Context, id string) (Session, error)
		UpdatePoints(ctx context.Context, id, course, assignment string, data UpdatePoints) (Session, error)
		AddAssignment(ctx context.Context, id, course string, data AddAssignment) (Session, error)
		DeleteAssignment(ctx context.Context, id, course, assignment string) (Session, error)
		ToggleCategory(ctx context.Context, id, course, category string) (Session, error)
		Undo(ctx context.Context, id string) (Session, error)
		Reset(ctx context.Context, id string) (Session, error)
		Delete(ctx context.Context, id string) error
	}

	// Service owns what-if sessions. Writes to one session are serialized.
	Service struct {
		repo     Repository
		logger   core.Logger
		validate *validator.Validate

		mu    sync.Mutex
		locks map[string]*sessionLock
	}

	// sessionLock is dropped from Service.locks once nobody holds or waits for it.
	sessionLock struct {
		sync.Mutex
		refs int
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, logger core.Logger, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{
		repo:     repo,
		logger:   logger,
		validate: validate,
		locks:    make(map[string]*sessionLock),
	}
}

func (svc *Service) lock(id string) func() {
	svc.mu.Lock()
	l, ok := svc.locks[id]
	if !ok {
		l = new(sessionLock)
		svc.locks[id] = l
	}
	l.refs++
	svc.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		svc.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(svc.locks, id)
		}
		svc.mu.Unlock()
	}
}

func (svc *Service) Open(ctx context.Context, gb provider.Gradebook) (Session, error) {
	if err := svc.validate.Struct(gb); err != nil {
		return Session{}, err
	}

	now := nowFunc().UTC()
	sess := Session{
		ID:        newIDFunc(),
		Gradebook: gb,
		Journal:   make([]Mutation, 0),
		Snapshot:  gradebook.Convert(gb),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess, err := svc.repo.CreateSession(ctx, sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "creating session")
	}
	svc.logger.Info("session opened", map[string]interface{}{"courses": len(sess.Snapshot.Courses)}, sess)
	return sess, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSession(ctx, id)
}

func (svc *Service) UpdatePoints(ctx context.Context, id, course, assignment string, data UpdatePoints) (Session, error) {
	if err := svc.validate.Struct(data); err != nil {
		return Session{}, err
	}
	return svc.apply(ctx, id, Mutation{
		Kind:       KindUpdatePoints,
		Course:     course,
		Assignment: assignment,
		Field:      data.Field,
		Value:      ptrToNull(data.Value),
	})
}

func (svc *Service) AddAssignment(ctx context.Context, id, course string, data AddAssignment) (Session, error) {
	data.Name = core.CleanString(data.Name)
	data.Category = core.CleanString(data.Category)
	if err := svc.validate.Struct(data); err != nil {
		return Session{}, err
	}
	return svc.apply(ctx, id, Mutation{
		Kind:       KindAddAssignment,
		Course:     course,
		Assignment: data.Name,
		Category:   data.Category,
		Points:     ptrToNull(data.Points),
		Total:      ptrToNull(data.Total),
	})
}

func (svc *Service) DeleteAssignment(ctx context.Context, id, course, assignment string) (Session, error) {
	return svc.apply(ctx, id, Mutation{Kind: KindDeleteAssignment, Course: course, Assignment: assignment})
}

func (svc *Service) ToggleCategory(ctx context.Context, id, course, category string) (Session, error) {
	return svc.apply(ctx, id, Mutation{Kind: KindToggleCategory, Course: course, Category: category})
}

func (svc *Service) apply(ctx context.Context, id string, m Mutation) (Session, error) {
	unlock := svc.lock(id)
	defer unlock()

	sess, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}

	m.At = nowFunc().UTC()
	marks, err := m.Apply(sess.Snapshot)
	if err != nil {
		return Session{}, lookupError(err, sess.Snapshot, m)
	}

	sess.Snapshot = marks
	sess.Journal = append(sess.Journal, m)
	sess.UpdatedAt = m.At
	if sess, err = svc.repo.UpdateSession(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "updating session")
	}
	svc.logger.Debug("session mutated", map[string]interface{}{"kind": m.Kind, "course": m.Course}, sess)
	return sess, nil
}

// Undo drops the last mutation and rebuilds the snapshot from the remaining journal.
func (svc *Service) Undo(ctx context.Context, id string) (Session, error) {
	unlock := svc.lock(id)
	defer unlock()

	sess, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if len(sess.Journal) == 0 {
		return Session{}, core.NewValidationError(ErrNothingToUndo)
	}

	journal := sess.Journal[:len(sess.Journal)-1]
	marks, err := Replay(sess.Gradebook, journal)
	if err != nil {
		return Session{}, errors.Wrap(err, "undoing")
	}
	return svc.save(ctx, sess, journal, marks)
}

// Reset discards every mutation.
func (svc *Service) Reset(ctx context.Context, id string) (Session, error) {
	unlock := svc.lock(id)
	defer unlock()

	sess, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	return svc.save(ctx, sess, make([]Mutation, 0), gradebook.Convert(sess.Gradebook))
}

func (svc *Service) save(ctx context.Context, sess Session, journal []Mutation, marks *gradebook.Snapshot) (Session, error) {
	sess.Journal = journal
	sess.Snapshot = marks
	sess.UpdatedAt = nowFunc().UTC()
	sess, err := svc.repo.UpdateSession(ctx, sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "updating session")
	}
	return sess, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	unlock := svc.lock(id)
	defer unlock()

	if err := svc.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	svc.logger.Info("session deleted", map[string]interface{}{"session": id})
	return nil
}
