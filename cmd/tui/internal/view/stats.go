package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/splitty/internal/report"
	"github.com/MrJamesThe3rd/splitty/internal/stats"
)

// StatsModel shows the balances of the home for a month and, for admins, who pays whom.
type StatsModel struct {
	CommonModel
	reportService *report.Service

	picker  PeriodPicker
	table   table.Model
	report  *report.Report
	loading bool
	err     error
}

func NewStatsModel(common CommonModel, reportSvc *report.Service) StatsModel {
	columns := []table.Column{
		{Title: "Member", Width: 20},
		{Title: "Paid", Width: 12},
		{Title: "Expenses", Width: 9},
		{Title: "Share", Width: 12},
		{Title: "Balance", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return StatsModel{
		CommonModel:   common,
		reportService: reportSvc,
		picker:        NewPeriodPicker(),
		table:         t,
		loading:       true,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m StatsModel) Title() string { return "Balances" }
func (m StatsModel) ShortHelp() string {
	return "Esc: back | ←/→: month | a: all time | t: this month | r: refresh"
}

func (m StatsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadReportMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
		m.refreshTable()

		return m, nil

	case PeriodChangedMsg:
		m.loading = true
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-20, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}

		var (
			cmd      tea.Cmd
			consumed bool
		)

		m.picker, cmd, consumed = m.picker.Update(msg)
		if consumed {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *StatsModel) refreshTable() {
	if m.report == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.report.Stats.MemberStats))
	for _, b := range m.report.Stats.MemberStats {
		rows = append(rows, table.Row{
			b.DisplayName,
			FormatAmount(b.TotalPaid),
			fmt.Sprintf("%d", b.ExpenseCount),
			FormatAmount(b.ShouldPay),
			FormatAmount(b.Balance),
		})
	}

	m.table.SetRows(rows)
}

func (m StatsModel) View() string {
	header := "Period: " + m.picker.View()

	var body string

	switch {
	case m.loading:
		body = "Loading balances..."
	case errors.Is(m.err, stats.ErrInvalidInput):
		body = "No members yet."
	case m.err != nil:
		body = errorStyle(fmt.Sprintf("Error: %v", m.err))
	default:
		body = m.reportView()
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			body,
		),
	)
}

func (m StatsModel) reportView() string {
	st := m.report.Stats

	totals := fmt.Sprintf("Total: %s   Per person: %s",
		activeStyle(FormatAmount(st.TotalAmount)),
		activeStyle(st.AveragePerPerson.Shift(-2).StringFixed(2)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	var you string

	for _, b := range st.MemberStats {
		if b.MemberID == m.Principal.MemberID {
			you = "Your balance: " + balanceStyle(b.Balance)
		}
	}

	sections := []string{totals, tableView, you}

	if m.Principal.IsAdmin() {
		sections = append(sections, "", settlementsView(m.report))
	}

	if len(st.MonthlyData) > 1 {
		sections = append(sections, "", monthlyView(st.MonthlyData))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func settlementsView(r *report.Report) string {
	if len(r.Transfers) == 0 {
		return "Settlements: everyone is settled up."
	}

	var sb strings.Builder

	sb.WriteString("Settlements:\n")

	for _, t := range r.Transfers {
		fmt.Fprintf(&sb, "  %s → %s  %s\n", t.FromName, t.ToName, activeStyle(FormatAmount(t.Amount)))
	}

	return sb.String()
}

// monthlyView draws one bar per month scaled to the largest month.
func monthlyView(months []stats.MonthlyTotal) string {
	const width = 30

	var peak int64
	for _, mt := range months {
		peak = max(peak, mt.Amount)
	}

	var sb strings.Builder

	sb.WriteString("Monthly spend:\n")

	for _, mt := range months {
		n := 0
		if peak > 0 {
			n = int(mt.Amount * width / peak)
		}

		fmt.Fprintf(&sb, "  %s %s %s\n", mt.Month, strings.Repeat("█", n), FormatAmount(mt.Amount))
	}

	return sb.String()
}

type loadReportMsg struct {
	report *report.Report
	err    error
}

func (m StatsModel) loadCmd() tea.Cmd {
	homeID := m.Principal.HomeID
	period := m.picker.Period().String()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.reportService.Build(ctx, homeID, period)

		return loadReportMsg{report: r, err: err}
	}
}
