package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
)

type expenseResponse struct {
	ID        uuid.UUID  `json:"id"`
	HomeID    uuid.UUID  `json:"home_id"`
	PayerID   uuid.UUID  `json:"payer_id"`
	PayerName string     `json:"payer_name"`
	Date      string     `json:"date"`
	Purpose   string     `json:"purpose"`
	Amount    int64      `json:"amount"`
	Note      string     `json:"note,omitempty"`
	ReceiptID *uuid.UUID `json:"receipt_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		HomeID:    e.HomeID,
		PayerID:   e.PayerID,
		PayerName: e.PayerName,
		Date:      e.Date,
		Purpose:   e.Purpose,
		Amount:    e.Amount,
		Note:      e.Note,
		ReceiptID: e.ReceiptID,
		CreatedAt: e.CreatedAt,
	}
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(es))
	for i, e := range es {
		resp[i] = toResponse(e)
	}

	return resp
}
