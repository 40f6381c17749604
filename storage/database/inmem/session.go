package inmemdb

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/trezcool/bulletin/core/session"
)

// sessionRepository keeps sessions in memory; they expire after `ttl` without writes.
type sessionRepository struct {
	db *cache.Cache
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(ttl, cleanupInterval time.Duration) *sessionRepository {
	return &sessionRepository{db: cache.New(ttl, cleanupInterval)}
}

// get never hands out the stored value itself, only copies.
func (repo *sessionRepository) get(id string) (session.Session, bool) {
	obj, ok := repo.db.Get(id)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := obj.(session.Session)
	if !ok {
		return session.Session{}, false
	}
	return sess.Clone(), true
}

func (repo *sessionRepository) CreateSession(_ context.Context, sess session.Session) (session.Session, error) {
	repo.db.Set(sess.ID, sess.Clone(), cache.DefaultExpiration)
	return sess, nil
}

func (repo *sessionRepository) GetSession(_ context.Context, id string) (session.Session, error) {
	if sess, ok := repo.get(id); ok {
		return sess, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) UpdateSession(_ context.Context, sess session.Session) (session.Session, error) {
	if err := repo.db.Replace(sess.ID, sess.Clone(), cache.DefaultExpiration); err != nil {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (repo *sessionRepository) DeleteSession(_ context.Context, id string) error {
	if _, ok := repo.db.Get(id); !ok {
		return session.ErrNotFound
	}
	repo.db.Delete(id)
	return nil
}
