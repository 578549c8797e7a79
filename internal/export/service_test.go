package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/export"
	"github.com/MrJamesThe3rd/splitty/internal/receipt"
	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

var pdfData = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type fakeExpenses struct {
	expenses  []*expense.Expense
	gotMonth  string
	gotMine   bool
	listCalls int
}

func (f *fakeExpenses) List(_ context.Context, _ auth.Principal, month string, mine bool) ([]*expense.Expense, error) {
	f.listCalls++
	f.gotMonth, f.gotMine = month, mine

	return f.expenses, nil
}

type fakeReports struct {
	report *report.Report
	err    error
	calls  int
}

func (f *fakeReports) Build(context.Context, uuid.UUID, string) (*report.Report, error) {
	f.calls++
	return f.report, f.err
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		files[f.Name] = string(b)
	}

	return files
}

func TestService_Write(t *testing.T) {
	ctx := context.Background()
	homeID := uuid.New()

	receipts, err := receipt.New(t.TempDir(), 0)
	require.NoError(t, err)

	rec, err := receipts.Save(ctx, homeID, bytes.NewReader(pdfData))
	require.NoError(t, err)

	missing := uuid.New()

	expenses := &fakeExpenses{expenses: []*expense.Expense{
		{ID: uuid.New(), HomeID: homeID, PayerName: "Ana", Date: "2024-03-05", Purpose: "Groceries", Amount: 4250, ReceiptID: &rec.ID},
		{ID: uuid.New(), HomeID: homeID, PayerName: "Rui", Date: "2024-03-07", Purpose: "Gas bill", Amount: 3000, Note: "winter"},
		{ID: uuid.New(), HomeID: homeID, PayerName: "Rui", Date: "2024-03-09", Purpose: "Lost", Amount: 100, ReceiptID: &missing},
	}}

	reports := &fakeReports{report: &report.Report{
		Period: "2024-03",
		Stats:  &stats.Stats{TotalAmount: 7350},
	}}

	svc := export.NewService(expenses, receipts, reports)

	t.Run("admin gets receipts csv and summary", func(t *testing.T) {
		var buf bytes.Buffer

		admin := auth.Principal{MemberID: uuid.New(), HomeID: homeID, Role: auth.RoleAdmin}

		items, err := svc.Write(ctx, &buf, admin, "2024-03")
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, "20240305_Groceries.pdf", items[0].FileName)
		assert.Empty(t, items[1].FileName)
		assert.Empty(t, items[2].FileName, "missing receipt is skipped")

		assert.Equal(t, "2024-03", expenses.gotMonth)
		assert.False(t, expenses.gotMine)

		files := readArchive(t, buf.Bytes())
		assert.Equal(t, string(pdfData), files["receipts/20240305_Groceries.pdf"])
		assert.Contains(t, files["summary.txt"], "Total: 73.50")

		records, err := csv.NewReader(bytes.NewReader([]byte(files["expenses.csv"]))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"date", "paid by", "purpose", "amount", "note", "receipt"}, records[0])
		assert.Equal(t, []string{"2024-03-05", "Ana", "Groceries", "42.50", "", "20240305_Groceries.pdf"}, records[1])
		assert.Equal(t, []string{"2024-03-07", "Rui", "Gas bill", "30.00", "winter", ""}, records[2])
	})

	t.Run("members get no summary", func(t *testing.T) {
		var buf bytes.Buffer

		calls := reports.calls
		user := auth.Principal{MemberID: uuid.New(), HomeID: homeID, Role: auth.RoleUser}

		_, err := svc.Write(ctx, &buf, user, stats.PeriodAll)
		require.NoError(t, err)

		assert.Empty(t, expenses.gotMonth, "all time lists every month")
		assert.Equal(t, calls, reports.calls)

		files := readArchive(t, buf.Bytes())
		assert.NotContains(t, files, "summary.txt")
		assert.Contains(t, files, "expenses.csv")
	})
}

func TestService_Write_NoMembers(t *testing.T) {
	receipts, err := receipt.New(t.TempDir(), 0)
	require.NoError(t, err)

	svc := export.NewService(&fakeExpenses{}, receipts, &fakeReports{err: stats.ErrInvalidInput})

	var buf bytes.Buffer

	items, err := svc.Write(context.Background(), &buf, auth.Principal{Role: auth.RoleAdmin}, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	files := readArchive(t, buf.Bytes())
	assert.NotContains(t, files, "summary.txt")
}

func TestService_Write_ReportError(t *testing.T) {
	receipts, err := receipt.New(t.TempDir(), 0)
	require.NoError(t, err)

	svc := export.NewService(&fakeExpenses{}, receipts, &fakeReports{err: errors.New("db down")})

	_, err = svc.Write(context.Background(), io.Discard, auth.Principal{Role: auth.RoleAdmin}, "")
	require.ErrorContains(t, err, "building report: db down")
}

func TestFileName(t *testing.T) {
	e := &expense.Expense{Date: "2024-01-31", Purpose: "Pão & leite"}

	assert.Equal(t, "20240131_P_o___leite.jpg", export.FileName(e, "image/jpeg"))
	assert.Equal(t, "20240131_P_o___leite.bin", export.FileName(e, "application/x-unknown"))
}
