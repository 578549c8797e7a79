// Package report assembles the stats and settlements of one home for one period.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/importer"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	"github.com/MrJamesThe3rd/splitty/internal/settlement"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

// ExpenseLister supplies every expense of a home.
type ExpenseLister interface {
	ListByHome(ctx context.Context, homeID uuid.UUID) ([]expense.Expense, error)
}

// RosterLister supplies the full member list of a home, zero-activity members included.
type RosterLister interface {
	List(ctx context.Context, homeID uuid.UUID) ([]*member.Member, error)
}

var hundred = decimal.NewFromInt(100)

type Report struct {
	Period    string
	Stats     *stats.Stats
	Transfers []settlement.Transfer
}

type Service struct {
	expenses ExpenseLister
	members  RosterLister
}

func NewService(expenses ExpenseLister, members RosterLister) *Service {
	return &Service{expenses: expenses, members: members}
}

// Stats loads the home's data and aggregates it for the period.
func (s *Service) Stats(ctx context.Context, homeID uuid.UUID, period string) (*stats.Stats, error) {
	var (
		expenses []expense.Expense
		members  []*member.Member
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if expenses, err = s.expenses.ListByHome(gctx, homeID); err != nil {
			return fmt.Errorf("listing expenses: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if members, err = s.members.List(gctx, homeID); err != nil {
			return fmt.Errorf("listing members: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats.Compute(expenses, Roster(members), period)
}

// Build returns the stats of the period together with the transfers that settle it.
func (s *Service) Build(ctx context.Context, homeID uuid.UUID, period string) (*Report, error) {
	st, err := s.Stats(ctx, homeID, period)
	if err != nil {
		return nil, err
	}

	return &Report{
		Period:    period,
		Stats:     st,
		Transfers: settlement.Compute(st.MemberStats),
	}, nil
}

// Roster converts members into the aggregator's roster, keeping their order.
func Roster(members []*member.Member) []stats.Member {
	roster := make([]stats.Member, len(members))
	for i, m := range members {
		roster[i] = stats.Member{ID: m.ID, Name: m.Name}
	}

	return roster
}

// FormatCents renders cents as a decimal amount with two places.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Summary renders the report as plain text.
func Summary(r *Report) string {
	var sb strings.Builder

	period := r.Period
	if period == "" {
		period = stats.PeriodAll
	}

	fmt.Fprintf(&sb, "Period: %s\n", period)
	fmt.Fprintf(&sb, "Total: %s\n", FormatCents(r.Stats.TotalAmount))
	fmt.Fprintf(&sb, "Per person: %s\n\n", r.Stats.AveragePerPerson.Div(hundred).StringFixed(2))

	for _, m := range r.Stats.MemberStats {
		fmt.Fprintf(&sb, "* %s | paid %s (%d) | share %s | balance %s\n",
			m.DisplayName,
			FormatCents(m.TotalPaid),
			m.ExpenseCount,
			FormatCents(m.ShouldPay),
			FormatCents(m.Balance),
		)
	}

	sb.WriteString("\n")

	if len(r.Transfers) == 0 {
		sb.WriteString("Everyone is settled up.\n")
		return sb.String()
	}

	for _, t := range r.Transfers {
		fmt.Fprintf(&sb, "%s pays %s %s\n", t.FromName, t.ToName, FormatCents(t.Amount))
	}

	return sb.String()
}

// FromRows builds a report without a database, from imported rows whose Payer column names
// one of the given members. Rows paid by someone outside the roster count toward the total only.
func FromRows(rows []importer.Row, names []string, period string) (*Report, error) {
	roster := make([]stats.Member, 0, len(names))
	ids := make(map[string]uuid.UUID, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if _, dup := ids[key]; dup {
			continue
		}

		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
		ids[key] = id
		roster = append(roster, stats.Member{ID: id, Name: name})
	}

	expenses := make([]expense.Expense, 0, len(rows))

	for _, row := range rows {
		payerID, ok := ids[strings.ToLower(strings.TrimSpace(row.Payer))]
		if !ok {
			slog.Warn("row paid by someone outside the roster", "payer", row.Payer, "purpose", row.Purpose)
		}

		expenses = append(expenses, expense.Expense{
			PayerID:   payerID,
			PayerName: row.Payer,
			Date:      row.Date,
			Purpose:   row.Purpose,
			Amount:    row.Amount,
			Note:      row.Note,
		})
	}

	st, err := stats.Compute(expenses, roster, period)
	if err != nil {
		return nil, err
	}

	return &Report{
		Period:    period,
		Stats:     st,
		Transfers: settlement.Compute(st.MemberStats),
	}, nil
}
