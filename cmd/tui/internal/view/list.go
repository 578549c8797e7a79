package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/splitty/internal/expense"
	"github.com/MrJamesThe3rd/splitty/internal/matching"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateAdd
	listStateConfirmDelete
)

type ExpensesModel struct {
	CommonModel
	expenseService  *expense.Service
	matchingService *matching.Service

	state    listState
	table    table.Model
	expenses []*expense.Expense
	form     *huh.Form

	picker  PeriodPicker
	mine    bool
	loading bool
	err     error
	status  string
}

func NewExpensesModel(common CommonModel, expenseSvc *expense.Service, matchSvc *matching.Service) ExpensesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Paid by", Width: 16},
		{Title: "Amount", Width: 12},
		{Title: "Purpose", Width: 30},
		{Title: "Note", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ExpensesModel{
		CommonModel:     common,
		expenseService:  expenseSvc,
		matchingService: matchSvc,
		table:           t,
		picker:          NewPeriodPicker(),
		loading:         true,
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }
func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case listStateAdd:
		return "Navigate form | Esc: cancel"
	case listStateConfirmDelete:
		return "y: delete | any other key: cancel"
	}

	help := "Esc: back | ←/→: month | a: all time | m: mine | n: new | r: refresh"
	if m.Principal.IsAdmin() {
		help += " | d: delete"
	}

	return help
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.loading = false
		m.err = msg.err
		m.expenses = msg.expenses
		m.refreshTable()

		return m, nil

	case expenseSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(msg.err.Error())
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case PeriodChangedMsg:
		m.loading = true
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case listStateAdd:
		return m.updateAdd(msg)
	case listStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m.updateBrowse(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "m":
			m.mine = !m.mine
			m.loading = true

			return m, m.loadCmd()
		case "n":
			return m.enterAddMode()
		case "d":
			if m.Principal.IsAdmin() && m.selected() != nil {
				m.state = listStateConfirmDelete
				return m, nil
			}
		}

		var (
			cmd      tea.Cmd
			consumed bool
		)

		m.picker, cmd, consumed = m.picker.Update(keyMsg)
		if consumed {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m ExpensesModel) enterAddMode() (tea.Model, tea.Cmd) {
	today := time.Now().Format(time.DateOnly)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder(today).
				Value(new(today)).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("purpose").
				Title("Purpose").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("purpose cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Validate(func(s string) error {
					cents, err := ParseAmount(s)
					if err != nil || cents < 0 {
						return fmt.Errorf("enter a positive amount")
					}
					return nil
				}),

			huh.NewInput().
				Key("note").
				Title("Note"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m ExpensesModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if keyMsg.String() == "y" {
		return m, m.deleteCmd(m.selected())
	}

	m.state = listStateBrowse

	return m, nil
}

func (m ExpensesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	scope := "Everyone"
	if m.mine {
		scope = "Mine"
	}

	var total int64
	for _, e := range m.expenses {
		total += e.Amount
	}

	header := fmt.Sprintf(
		"Period: %s | [m] Paid by: %s | Total: %s",
		m.picker.View(),
		activeStyle(scope),
		activeStyle(FormatAmount(total)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	switch m.state {
	case listStateAdd:
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Expense\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)

	case listStateConfirmDelete:
		if e := m.selected(); e != nil {
			content += "\n" + errorStyle(fmt.Sprintf("Delete %q (%s)? [y/N]", e.Purpose, FormatAmount(e.Amount)))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			e.Date,
			e.PayerName,
			FormatAmount(e.Amount),
			e.Purpose,
			e.Note,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	actor := m.Principal
	mine := m.mine

	month := m.picker.Period().String()
	if m.picker.Period().All {
		month = ""
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := m.expenseService.List(ctx, actor, month, mine)

		return loadExpensesMsg{expenses: es, err: err}
	}
}

type expenseSavedMsg struct {
	status string
	err    error
}

func (m ExpensesModel) createCmd() tea.Cmd {
	actor := m.Principal
	date := strings.TrimSpace(m.form.GetString("date"))
	raw := m.form.GetString("purpose")
	amountText := m.form.GetString("amount")
	note := m.form.GetString("note")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, err := ParseAmount(amountText)
		if err != nil {
			return expenseSavedMsg{err: fmt.Errorf("parse amount: %w", err)}
		}

		purpose, err := m.matchingService.Resolve(ctx, actor.HomeID, raw)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		e, err := m.expenseService.Create(ctx, actor, expense.CreateParams{
			Date:    date,
			Purpose: purpose,
			Amount:  amount,
			Note:    note,
		})
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("Added %q", e.Purpose)}
	}
}

func (m ExpensesModel) deleteCmd(e *expense.Expense) tea.Cmd {
	if e == nil {
		return nil
	}

	actor := m.Principal

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.expenseService.Delete(ctx, actor, e.ID); err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("Deleted %q", e.Purpose)}
	}
}
