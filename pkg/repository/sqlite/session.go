package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
)

func (s *SQLite) PutSession(ctx context.Context, sess *auth.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, secret, member_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET secret = excluded.secret,
			member_id = excluded.member_id, expires_at = excluded.expires_at`,
		sess.ID, sess.Secret, sess.MemberID, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put session")
	}

	return nil
}

func (s *SQLite) GetSession(ctx context.Context, id auth.SessionID) (*auth.Session, error) {
	var sess auth.Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT id, secret, member_id, expires_at, created_at FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "session not found")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session")
	}

	return &sess, nil
}

func (s *SQLite) DeleteSession(ctx context.Context, id auth.SessionID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	return nil
}
