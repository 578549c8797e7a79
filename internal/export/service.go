// Package export bundles the expenses of a period and their receipts into a zip archive.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/receipt"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

const (
	expensesFile = "expenses.csv"
	summaryFile  = "summary.txt"
	receiptsDir  = "receipts/"
)

type Expenses interface {
	List(ctx context.Context, actor auth.Principal, month string, mine bool) ([]*expense.Expense, error)
}

type Receipts interface {
	Open(ctx context.Context, homeID, id uuid.UUID) (io.ReadCloser, string, error)
}

type Reports interface {
	Build(ctx context.Context, homeID uuid.UUID, period string) (*report.Report, error)
}

// Item represents a single exported expense with the name of its receipt inside the archive.
type Item struct {
	Expense  *expense.Expense
	FileName string
}

type Service struct {
	expenses Expenses
	receipts Receipts
	reports  Reports
}

func NewService(expenses Expenses, receipts Receipts, reports Reports) *Service {
	return &Service{expenses: expenses, receipts: receipts, reports: reports}
}

// Write streams the archive for the caller's home to w.
//
// The archive holds expenses.csv, every receipt that still exists under receipts/ and, for
// admins, summary.txt with the balances and transfers of the period.
func (s *Service) Write(ctx context.Context, w io.Writer, actor auth.Principal, period string) ([]Item, error) {
	month := period
	if month == stats.PeriodAll {
		month = ""
	}

	es, err := s.expenses.List(ctx, actor, month, false)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	zw := zip.NewWriter(w)

	items := make([]Item, 0, len(es))
	names := make(map[string]int)

	for _, e := range es {
		item := Item{Expense: e}

		if e.ReceiptID != nil {
			name, err := s.addReceipt(ctx, zw, e, names)
			if err != nil {
				return nil, fmt.Errorf("adding receipt of expense %s: %w", e.ID, err)
			}

			item.FileName = name
		}

		items = append(items, item)
	}

	if err := writeCSV(zw, items); err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		if err := s.addSummary(ctx, zw, actor.HomeID, period); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return items, nil
}

func (s *Service) addReceipt(ctx context.Context, zw *zip.Writer, e *expense.Expense, names map[string]int) (string, error) {
	rc, contentType, err := s.receipts.Open(ctx, e.HomeID, *e.ReceiptID)
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			slog.Warn("receipt missing from store", "expense_id", e.ID.String(), "receipt_id", e.ReceiptID.String())
			return "", nil
		}

		return "", err
	}
	defer rc.Close()

	name := uniqueName(FileName(e, contentType), names)

	f, err := zw.Create(receiptsDir + name)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, rc); err != nil {
		return "", err
	}

	return name, nil
}

func (s *Service) addSummary(ctx context.Context, zw *zip.Writer, homeID uuid.UUID, period string) error {
	r, err := s.reports.Build(ctx, homeID, period)
	if errors.Is(err, stats.ErrInvalidInput) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	f, err := zw.Create(summaryFile)
	if err != nil {
		return err
	}

	_, err = io.WriteString(f, report.Summary(r))

	return err
}

func writeCSV(zw *zip.Writer, items []Item) error {
	f, err := zw.Create(expensesFile)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	_ = cw.Write([]string{"date", "paid by", "purpose", "amount", "note", "receipt"})

	for _, item := range items {
		e := item.Expense
		_ = cw.Write([]string{e.Date, e.PayerName, e.Purpose, report.FormatCents(e.Amount), e.Note, item.FileName})
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", expensesFile, err)
	}

	return nil
}

// FileName names a receipt after its expense: YYYYMMDD_Purpose.ext.
func FileName(e *expense.Expense, contentType string) string {
	ext := ".bin"
	if mt := mimetype.Lookup(contentType); mt != nil {
		ext = mt.Extension()
	}

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, e.Purpose)

	return fmt.Sprintf("%s_%s%s", strings.ReplaceAll(e.Date, "-", ""), safe, ext)
}

func uniqueName(name string, seen map[string]int) string {
	n := seen[name]
	seen[name] = n + 1

	if n == 0 {
		return name
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return fmt.Sprintf("%s_%d", name, n+1)
	}

	return fmt.Sprintf("%s_%d%s", name[:dot], n+1, name[dot:])
}
