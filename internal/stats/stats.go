// Package stats aggregates a home's expenses into per-member balances.
package stats

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
)

// PeriodAll is accepted wherever a period is expected and disables filtering.
const PeriodAll = "all"

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidPeriod reports whether p is empty, PeriodAll or a zero-padded "YYYY-MM" month.
func ValidPeriod(p string) bool {
	return p == "" || p == PeriodAll || monthPattern.MatchString(p)
}

// ErrInvalidInput is returned when the member roster is empty and no share can be computed.
var ErrInvalidInput = errors.New("invalid input")

// Member is a roster entry as seen by the aggregator.
type Member struct {
	ID   uuid.UUID
	Name string
}

// MemberBalance is derived on every request and never stored.
// Positive Balance means the member overpaid and is owed money.
type MemberBalance struct {
	MemberID     uuid.UUID
	DisplayName  string
	TotalPaid    int64 // cents
	ExpenseCount int
	ShouldPay    int64 // cents
	Balance      int64 // cents
}

// MonthlyTotal is the spend of one "YYYY-MM" month.
type MonthlyTotal struct {
	Month  string
	Amount int64
}

type Stats struct {
	TotalAmount int64
	// AveragePerPerson is the exact equal share in cents and may carry a fraction.
	AveragePerPerson decimal.Decimal
	MemberStats      []MemberBalance
	MonthlyData      []MonthlyTotal
}

// Compute aggregates expenses already scoped to one home against that home's roster.
//
// period is a "YYYY-MM" prefix matched against the expense date string. An empty period or
// PeriodAll includes everything. The match is a plain string prefix, so unpadded months never match.
//
// ShouldPay is the equal share in whole cents; when the total does not divide evenly the
// leftover cents go one each to the first members in roster order, keeping the balances summing
// to exactly zero.
func Compute(expenses []expense.Expense, members []Member, period string) (*Stats, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("computing stats: no members: %w", ErrInvalidInput)
	}

	filtered := FilterByPeriod(expenses, period)

	var total int64

	paid := make(map[uuid.UUID]int64, len(members))
	count := make(map[uuid.UUID]int, len(members))

	for _, e := range filtered {
		total += e.Amount
		paid[e.PayerID] += e.Amount
		count[e.PayerID]++
	}

	n := int64(len(members))
	base := total / n
	remainder := total % n

	memberStats := make([]MemberBalance, 0, len(members))

	for i, m := range members {
		share := base
		if int64(i) < remainder {
			share++
		}

		memberStats = append(memberStats, MemberBalance{
			MemberID:     m.ID,
			DisplayName:  m.Name,
			TotalPaid:    paid[m.ID],
			ExpenseCount: count[m.ID],
			ShouldPay:    share,
			Balance:      paid[m.ID] - share,
		})
	}

	return &Stats{
		TotalAmount:      total,
		AveragePerPerson: decimal.NewFromInt(total).Div(decimal.NewFromInt(n)),
		MemberStats:      memberStats,
		MonthlyData:      Monthly(filtered),
	}, nil
}

// FilterByPeriod keeps the expenses whose date starts with period.
func FilterByPeriod(expenses []expense.Expense, period string) []expense.Expense {
	if period == "" || period == PeriodAll {
		return expenses
	}

	filtered := make([]expense.Expense, 0, len(expenses))

	for _, e := range expenses {
		if strings.HasPrefix(e.Date, period) {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// Monthly sums expenses per "YYYY-MM" key in ascending month order.
func Monthly(expenses []expense.Expense) []MonthlyTotal {
	byMonth := make(map[string]int64)

	for _, e := range expenses {
		month := e.Date
		if len(month) > 7 {
			month = month[:7]
		}

		byMonth[month] += e.Amount
	}

	monthly := make([]MonthlyTotal, 0, len(byMonth))
	for month, amount := range byMonth {
		monthly = append(monthly, MonthlyTotal{Month: month, Amount: amount})
	}

	sort.Slice(monthly, func(i, j int) bool {
		return monthly[i].Month < monthly[j].Month
	})

	return monthly
}
