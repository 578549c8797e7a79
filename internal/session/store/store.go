package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/session"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (id, member_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, sess.ID, sess.MemberID, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var sess session.Session

	query := `SELECT id, member_id, expires_at, created_at FROM sessions WHERE id = $1`

	err := s.db.QueryRowContext(ctx, query, id).Scan(&sess.ID, &sess.MemberID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}

		return nil, fmt.Errorf("getting session: %w", err)
	}

	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}

	return res.RowsAffected()
}
