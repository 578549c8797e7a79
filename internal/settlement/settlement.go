// Package settlement turns member balances into the payments that clear them.
package settlement

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

// Transfer is one recommended payment from a debtor to a creditor.
type Transfer struct {
	FromMemberID uuid.UUID
	FromName     string
	ToMemberID   uuid.UUID
	ToName       string
	Amount       int64 // cents, always > 0
}

type party struct {
	id      uuid.UUID
	name    string
	balance int64
}

// Compute matches the largest creditor with the largest debtor until one side runs out.
//
// The greedy order keeps the transfer count low but is not guaranteed minimal. Balances that do
// not sum to zero leave a residual that produces no transfer; it is logged and otherwise ignored.
// The input slice is not modified.
func Compute(balances []stats.MemberBalance) []Transfer {
	var creditors, debtors []party

	for _, b := range balances {
		p := party{id: b.MemberID, name: b.DisplayName, balance: b.Balance}

		switch {
		case b.Balance > 0:
			creditors = append(creditors, p)
		case b.Balance < 0:
			debtors = append(debtors, p)
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].balance > creditors[j].balance })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].balance < debtors[j].balance })

	transfers := make([]Transfer, 0, max(len(creditors), len(debtors)))

	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]
		amount := min(c.balance, -d.balance)

		if amount > 0 {
			transfers = append(transfers, Transfer{
				FromMemberID: d.id,
				FromName:     d.name,
				ToMemberID:   c.id,
				ToName:       c.name,
				Amount:       amount,
			})
		}

		c.balance -= amount
		d.balance += amount

		if c.balance == 0 {
			i++
		}

		if d.balance == 0 {
			j++
		}
	}

	if residual := remaining(creditors[i:]) + remaining(debtors[j:]); residual != 0 {
		slog.Warn("unsettled balance residual", "residual_cents", residual)
	}

	return transfers
}

func remaining(parties []party) int64 {
	var sum int64
	for _, p := range parties {
		sum += p.balance
	}

	return sum
}
