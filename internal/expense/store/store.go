package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, home_id, payer_id, payer_name, date, purpose, amount, note, receipt_id, created_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var note sql.NullString

	if err := s.Scan(
		&e.ID, &e.HomeID, &e.PayerID, &e.PayerName, &e.Date, &e.Purpose, &e.Amount,
		&note, &e.ReceiptID, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Note = note.String

	return &e, nil
}

// The date is selected as text so callers see the exact YYYY-MM-DD string.
const selectExpenseColumns = `
	e.id, e.home_id, e.payer_id, e.payer_name, to_char(e.date, 'YYYY-MM-DD'), e.purpose, e.amount,
	e.note, e.receipt_id, e.created_at
`

const insertExpense = `
	INSERT INTO expenses (home_id, payer_id, payer_name, date, purpose, amount, note, receipt_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	RETURNING id, created_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func create(ctx context.Context, q queryRower, e *expense.Expense) error {
	return q.QueryRowContext(ctx, insertExpense,
		e.HomeID,
		e.PayerID,
		e.PayerName,
		e.Date,
		e.Purpose,
		e.Amount,
		e.Note,
		e.ReceiptID,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	if err := create(ctx, s.db, e); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

// CreateExpenses inserts all expenses in a single database transaction.
func (s *Store) CreateExpenses(ctx context.Context, es []*expense.Expense) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, e := range es {
		if err := create(ctx, dbTx, e); err != nil {
			return fmt.Errorf("creating expense: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e WHERE e.id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e WHERE e.home_id = $1`

	args := []any{filter.HomeID}
	argIdx := 2

	if filter.PayerID != nil {
		query += fmt.Sprintf(" AND e.payer_id = $%d", argIdx)

		args = append(args, *filter.PayerID)
		argIdx++
	}

	if filter.Month != "" {
		query += fmt.Sprintf(" AND to_char(e.date, 'YYYY-MM-DD') LIKE $%d", argIdx)

		args = append(args, filter.Month+"%")
		argIdx++
	}

	query += " ORDER BY e.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var es []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return es, nil
}

// UpdateExpense never touches home_id, payer_id or payer_name.
func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET date = $1, purpose = $2, amount = $3, note = $4, receipt_id = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Date,
		e.Purpose,
		e.Amount,
		e.Note,
		e.ReceiptID,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}
