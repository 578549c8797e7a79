package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/member"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMemberColumns = `
	m.id, m.home_id, m.name, m.last_name, m.contact_no, m.password_hash, m.role, m.created_by, m.created_at
`

func scanMember(s scanner) (*member.Member, error) {
	var m member.Member

	var role string

	if err := s.Scan(
		&m.ID, &m.HomeID, &m.Name, &m.LastName, &m.ContactNo, &m.PasswordHash, &role,
		&m.CreatedBy, &m.CreatedAt,
	); err != nil {
		return nil, err
	}

	m.Role = auth.Role(role)

	return &m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const insertMember = `
	INSERT INTO members (home_id, name, last_name, contact_no, password_hash, role, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	RETURNING id, created_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryRower, m *member.Member) error {
	err := q.QueryRowContext(ctx, insertMember,
		m.HomeID,
		m.Name,
		m.LastName,
		m.ContactNo,
		m.PasswordHash,
		m.Role,
		m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return member.ErrContactExists
		}

		return fmt.Errorf("creating member: %w", err)
	}

	return nil
}

// CreateHomeWithAdmin inserts the home, then the admin, then points the home at its creator.
func (s *Store) CreateHomeWithAdmin(ctx context.Context, h *member.Home, m *member.Member) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	homeQuery := `INSERT INTO homes (name, created_at) VALUES ($1, NOW()) RETURNING id, created_at`
	if err := dbTx.QueryRowContext(ctx, homeQuery, h.Name).Scan(&h.ID, &h.CreatedAt); err != nil {
		return fmt.Errorf("creating home: %w", err)
	}

	m.HomeID = h.ID
	if err := insert(ctx, dbTx, m); err != nil {
		return err
	}

	if _, err := dbTx.ExecContext(ctx, `UPDATE homes SET created_by = $1 WHERE id = $2`, m.ID, h.ID); err != nil {
		return fmt.Errorf("linking home creator: %w", err)
	}

	h.CreatedBy = new(m.ID)

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateMember(ctx context.Context, m *member.Member) error {
	return insert(ctx, s.db, m)
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE m.id = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) GetByContact(ctx context.Context, contactNo string) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE m.contact_no = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, contactNo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member by contact: %w", err)
	}

	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, homeID uuid.UUID) ([]*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + `
		FROM members m
		WHERE m.home_id = $1
		ORDER BY m.created_at ASC, m.id ASC`

	rows, err := s.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*member.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

func (s *Store) GetHome(ctx context.Context, id uuid.UUID) (*member.Home, error) {
	var h member.Home

	query := `SELECT id, name, created_by, created_at FROM homes WHERE id = $1`

	err := s.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrHomeNotFound
		}

		return nil, fmt.Errorf("getting home: %w", err)
	}

	return &h, nil
}
