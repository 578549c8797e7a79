package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	CreateExpenses(ctx context.Context, es []*Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
}

// Receipts removes stored receipt files when their expense goes away.
type Receipts interface {
	Delete(ctx context.Context, homeID, id uuid.UUID) error
}

type Service struct {
	repo     Repository
	receipts Receipts
}

func NewService(repo Repository, receipts Receipts) *Service {
	return &Service{repo: repo, receipts: receipts}
}

type CreateParams struct {
	Date      string
	Purpose   string
	Amount    int64
	Note      string
	ReceiptID *uuid.UUID
}

type UpdateParams struct {
	Date      *string
	Purpose   *string
	Amount    *int64
	Note      *string
	ReceiptID *uuid.UUID
}

// ListFilter scopes a listing. HomeID is always set by the service from the caller.
type ListFilter struct {
	HomeID  uuid.UUID
	PayerID *uuid.UUID
	Month   string // "YYYY-MM" prefix of the expense date, empty for all
}

func validate(date, purpose string, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return ErrInvalidDate
	}

	if strings.TrimSpace(purpose) == "" {
		return ErrEmptyPurpose
	}

	return nil
}

func newExpense(actor auth.Principal, params CreateParams) *Expense {
	return &Expense{
		HomeID:    actor.HomeID,
		PayerID:   actor.MemberID,
		PayerName: actor.Name,
		Date:      params.Date,
		Purpose:   strings.TrimSpace(params.Purpose),
		Amount:    params.Amount,
		Note:      params.Note,
		ReceiptID: params.ReceiptID,
	}
}

// Create records an expense paid by the caller in the caller's home.
func (s *Service) Create(ctx context.Context, actor auth.Principal, params CreateParams) (*Expense, error) {
	if err := validate(params.Date, params.Purpose, params.Amount); err != nil {
		return nil, err
	}

	e := newExpense(actor, params)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// CreateBatch records several expenses paid by the caller in one go.
func (s *Service) CreateBatch(ctx context.Context, actor auth.Principal, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	es := make([]*Expense, 0, len(params))

	for i, p := range params {
		if err := validate(p.Date, p.Purpose, p.Amount); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}

		es = append(es, newExpense(actor, p))
	}

	if err := s.repo.CreateExpenses(ctx, es); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	return es, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Principal, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.HomeID != actor.HomeID {
		return nil, ErrForbidden
	}

	return e, nil
}

// Update lets an admin, or the member who paid, change an expense of their home.
// The home of an expense never changes.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id uuid.UUID, params UpdateParams) (*Expense, error) {
	e, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && e.PayerID != actor.MemberID {
		return nil, ErrForbidden
	}

	if params.Date != nil {
		e.Date = *params.Date
	}

	if params.Purpose != nil {
		e.Purpose = strings.TrimSpace(*params.Purpose)
	}

	if params.Amount != nil {
		e.Amount = *params.Amount
	}

	if params.Note != nil {
		e.Note = *params.Note
	}

	if params.ReceiptID != nil {
		e.ReceiptID = params.ReceiptID
	}

	if err := validate(e.Date, e.Purpose, e.Amount); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Delete is reserved to admins. The receipt file, if any, is removed afterwards.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	e, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	if e.ReceiptID != nil && s.receipts != nil {
		if err := s.receipts.Delete(ctx, e.HomeID, *e.ReceiptID); err != nil {
			slog.Error("failed to delete receipt", "error", err, "receipt_id", e.ReceiptID.String())
		}
	}

	return nil
}

// List returns the caller's home expenses, newest first. With mine set only the caller's own.
func (s *Service) List(ctx context.Context, actor auth.Principal, month string, mine bool) ([]*Expense, error) {
	filter := ListFilter{HomeID: actor.HomeID, Month: month}
	if mine {
		filter.PayerID = new(actor.MemberID)
	}

	return s.repo.ListExpenses(ctx, filter)
}

// ListByHome returns every expense of a home as values, ready for aggregation.
func (s *Service) ListByHome(ctx context.Context, homeID uuid.UUID) ([]Expense, error) {
	es, err := s.repo.ListExpenses(ctx, ListFilter{HomeID: homeID})
	if err != nil {
		return nil, err
	}

	out := make([]Expense, len(es))
	for i, e := range es {
		out[i] = *e
	}

	return out, nil
}
