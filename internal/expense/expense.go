package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("expense not found")
	ErrForbidden     = errors.New("permission denied")
	ErrInvalidAmount = errors.New("amount must not be negative")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrEmptyPurpose  = errors.New("purpose can't be empty")
)

// Expense is a single payment made by one member on behalf of the whole home.
type Expense struct {
	ID      uuid.UUID
	HomeID  uuid.UUID
	PayerID uuid.UUID
	// PayerName is captured when the expense is written and is not updated on rename.
	PayerName string
	Date      string // YYYY-MM-DD
	Purpose   string
	Amount    int64 // Amount in cents
	Note      string
	ReceiptID *uuid.UUID
	CreatedAt time.Time
}
