package stats_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

func roster(names ...string) []stats.Member {
	members := make([]stats.Member, len(names))
	for i, n := range names {
		members[i] = stats.Member{ID: uuid.New(), Name: n}
	}

	return members
}

func paid(m stats.Member, date string, cents int64) expense.Expense {
	return expense.Expense{ID: uuid.New(), PayerID: m.ID, PayerName: m.Name, Date: date, Purpose: "x", Amount: cents}
}

func balances(st *stats.Stats) map[string]int64 {
	out := make(map[string]int64, len(st.MemberStats))
	for _, m := range st.MemberStats {
		out[m.DisplayName] = m.Balance
	}

	return out
}

func TestCompute_Scenarios(t *testing.T) {
	twoMembers := roster("X", "Y")
	threeMembers := roster("A", "B", "C")

	tests := []struct {
		name         string
		members      []stats.Member
		expenses     []expense.Expense
		wantTotal    int64
		wantAverage  decimal.Decimal
		wantBalances map[string]int64
	}{
		{
			name:    "EqualSplitSettled",
			members: twoMembers,
			expenses: []expense.Expense{
				paid(twoMembers[0], "2024-03-01", 5000),
				paid(twoMembers[1], "2024-03-02", 5000),
			},
			wantTotal:    10000,
			wantAverage:  decimal.NewFromInt(5000),
			wantBalances: map[string]int64{"X": 0, "Y": 0},
		},
		{
			name:         "OnePayer",
			members:      twoMembers,
			expenses:     []expense.Expense{paid(twoMembers[0], "2024-03-01", 10000)},
			wantTotal:    10000,
			wantAverage:  decimal.NewFromInt(5000),
			wantBalances: map[string]int64{"X": 5000, "Y": -5000},
		},
		{
			name:    "ThreeWay",
			members: threeMembers,
			expenses: []expense.Expense{
				paid(threeMembers[0], "2024-03-01", 6000),
				paid(threeMembers[0], "2024-03-05", 3000),
				paid(threeMembers[1], "2024-03-09", 3000),
			},
			wantTotal:    12000,
			wantAverage:  decimal.NewFromInt(4000),
			wantBalances: map[string]int64{"A": 5000, "B": -1000, "C": -4000},
		},
		{
			name:         "NoExpenses",
			members:      threeMembers,
			wantTotal:    0,
			wantAverage:  decimal.Zero,
			wantBalances: map[string]int64{"A": 0, "B": 0, "C": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := stats.Compute(tt.expenses, tt.members, stats.PeriodAll)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, st.TotalAmount)
			assert.True(t, tt.wantAverage.Equal(st.AveragePerPerson), "average %s", st.AveragePerPerson)
			assert.Equal(t, tt.wantBalances, balances(st))
			assert.Len(t, st.MemberStats, len(tt.members))
		})
	}
}

func TestCompute_NoMembers(t *testing.T) {
	_, err := stats.Compute(nil, nil, "")
	assert.ErrorIs(t, err, stats.ErrInvalidInput)
}

func TestCompute_EmptyExpensesMonthlyIsEmpty(t *testing.T) {
	st, err := stats.Compute(nil, roster("A"), "")
	require.NoError(t, err)

	assert.NotNil(t, st.MonthlyData)
	assert.Empty(t, st.MonthlyData)
}

func TestCompute_RemainderCents(t *testing.T) {
	members := roster("A", "B", "C")

	st, err := stats.Compute([]expense.Expense{paid(members[2], "2024-01-01", 100)}, members, "")
	require.NoError(t, err)

	shares := []int64{st.MemberStats[0].ShouldPay, st.MemberStats[1].ShouldPay, st.MemberStats[2].ShouldPay}
	assert.Equal(t, []int64{34, 33, 33}, shares)
	assert.Equal(t, map[string]int64{"A": -34, "B": -33, "C": 67}, balances(st))
	assert.Equal(t, "33.33", st.AveragePerPerson.StringFixed(2))
}

func TestCompute_BalanceClosure(t *testing.T) {
	members := roster("A", "B", "C", "D", "E", "F", "G")

	var expenses []expense.Expense
	for i := range 50 {
		expenses = append(expenses, paid(members[i%len(members)], "2024-02-10", int64(i*i*37+13)))
	}

	st, err := stats.Compute(expenses, members, "")
	require.NoError(t, err)

	var sum, shares int64
	for _, m := range st.MemberStats {
		sum += m.Balance
		shares += m.ShouldPay
	}

	assert.Zero(t, sum)
	assert.Equal(t, st.TotalAmount, shares)
}

func TestCompute_PeriodBoundary(t *testing.T) {
	members := roster("A")
	expenses := []expense.Expense{paid(members[0], "2024-03-15", 1000)}

	tests := []struct {
		period    string
		wantTotal int64
	}{
		{period: "2024-03", wantTotal: 1000},
		{period: "2024-04", wantTotal: 0},
		{period: "2024-3", wantTotal: 0},
		{period: "2024", wantTotal: 1000},
		{period: "", wantTotal: 1000},
		{period: stats.PeriodAll, wantTotal: 1000},
	}

	for _, tt := range tests {
		t.Run("period="+tt.period, func(t *testing.T) {
			st, err := stats.Compute(expenses, members, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, st.TotalAmount)
		})
	}
}

func TestCompute_UnknownPayerCountsTowardTotalOnly(t *testing.T) {
	members := roster("A", "B")
	stranger := stats.Member{ID: uuid.New(), Name: "Z"}

	st, err := stats.Compute([]expense.Expense{paid(stranger, "2024-01-01", 1000)}, members, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), st.TotalAmount)
	assert.Equal(t, map[string]int64{"A": -500, "B": -500}, balances(st))
}

func TestCompute_Idempotent(t *testing.T) {
	members := roster("A", "B", "C")
	expenses := []expense.Expense{
		paid(members[0], "2024-01-03", 1001),
		paid(members[1], "2024-02-03", 2002),
	}

	first, err := stats.Compute(expenses, members, "")
	require.NoError(t, err)

	second, err := stats.Compute(expenses, members, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMonthly(t *testing.T) {
	a := stats.Member{ID: uuid.New(), Name: "A"}

	got := stats.Monthly([]expense.Expense{
		paid(a, "2024-03-15", 100),
		paid(a, "2023-12-31", 50),
		paid(a, "2024-03-01", 25),
		paid(a, "2024-01-09", 10),
	})

	assert.Equal(t, []stats.MonthlyTotal{
		{Month: "2023-12", Amount: 50},
		{Month: "2024-01", Amount: 10},
		{Month: "2024-03", Amount: 125},
	}, got)
}

func TestValidPeriod(t *testing.T) {
	for period, want := range map[string]bool{
		"":         true,
		"all":      true,
		"2024-03":  true,
		"2024-3":   false,
		"2024":     false,
		"2024-03x": false,
		"march":    false,
	} {
		assert.Equal(t, want, stats.ValidPeriod(period), period)
	}
}
