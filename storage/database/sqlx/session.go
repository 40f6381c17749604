package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/core/session"
)

// database/sql does not export this error
const errDBClosed = "sql: database is closed"

// The snapshot is not stored: it is rebuilt from the gradebook and the journal on read.
type sessionRow struct {
	ID        string         `db:"id"`
	Gradebook types.JSONText `db:"gradebook"`
	Journal   types.JSONText `db:"journal"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type sessionRepository struct {
	exec core.DBExecutor
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(exec core.DBExecutor) *sessionRepository {
	return &sessionRepository{exec: exec}
}

func (repo sessionRepository) toRow(sess session.Session) (sessionRow, error) {
	gb, err := json.Marshal(sess.Gradebook)
	if err != nil {
		return sessionRow{}, errors.Wrap(err, "marshalling gradebook")
	}
	journal := sess.Journal
	if journal == nil {
		journal = make([]session.Mutation, 0)
	}
	jn, err := json.Marshal(journal)
	if err != nil {
		return sessionRow{}, errors.Wrap(err, "marshalling journal")
	}
	return sessionRow{
		ID:        sess.ID,
		Gradebook: gb,
		Journal:   jn,
		CreatedAt: sess.CreatedAt.UTC(),
		UpdatedAt: sess.UpdatedAt.UTC(),
	}, nil
}

func (repo sessionRepository) fromRow(row sessionRow) (session.Session, error) {
	sess := session.Session{
		ID:        row.ID,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if err := row.Gradebook.Unmarshal(&sess.Gradebook); err != nil {
		return session.Session{}, errors.Wrap(err, "unmarshalling gradebook")
	}
	if err := row.Journal.Unmarshal(&sess.Journal); err != nil {
		return session.Session{}, errors.Wrap(err, "unmarshalling journal")
	}
	marks, err := session.Replay(sess.Gradebook, sess.Journal)
	if err != nil {
		return session.Session{}, err
	}
	sess.Snapshot = marks
	return sess, nil
}

func (repo sessionRepository) CreateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	row, err := repo.toRow(sess)
	if err != nil {
		return session.Session{}, err
	}
	q := `INSERT INTO session (id, gradebook, journal, created_at, updated_at)
		VALUES (:id, :gradebook, :journal, :created_at, :updated_at)`
	if _, err = repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return session.Session{}, repo.dbError(err, "inserting session")
	}
	return sess, nil
}

func (repo sessionRepository) GetSession(ctx context.Context, id string) (session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return session.Session{}, session.ErrNotFound
	}
	var row sessionRow
	q := `SELECT id, gradebook, journal, created_at, updated_at FROM session WHERE id = $1`
	if err := repo.exec.GetContext(ctx, &row, q, id); err != nil {
		return session.Session{}, repo.trapNoRowsErr(err, "getting session")
	}
	return repo.fromRow(row)
}

func (repo sessionRepository) UpdateSession(ctx context.Context, sess session.Session) (session.Session, error) {
	row, err := repo.toRow(sess)
	if err != nil {
		return session.Session{}, err
	}
	q := `UPDATE session SET journal = :journal, updated_at = :updated_at WHERE id = :id`
	res, err := repo.exec.NamedExecContext(ctx, q, row)
	if err != nil {
		return session.Session{}, repo.dbError(err, "updating session")
	}
	if err = repo.checkAffected(res); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (repo sessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return session.ErrNotFound
	}
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM session WHERE id = $1`, id)
	if err != nil {
		return repo.dbError(err, "deleting session")
	}
	return repo.checkAffected(res)
}

// trapNoRowsErr maps psql "no rows" err to session.ErrNotFound
func (repo sessionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return session.ErrNotFound
	}
	return repo.dbError(err, msg)
}

// dbError flags a closed database as a shutdown error: no later query can succeed.
func (repo sessionRepository) dbError(err error, msg string) error {
	if err == sql.ErrConnDone || err.Error() == errDBClosed {
		return errors.Wrap(core.NewShutdownError(err.Error()), msg)
	}
	return errors.Wrap(err, msg)
}

func (repo sessionRepository) checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}
