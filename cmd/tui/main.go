package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/splitty/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/splitty/internal/config"
	"github.com/MrJamesThe3rd/splitty/internal/database"
	"github.com/MrJamesThe3rd/splitty/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/splitty/internal/expense/store"
	"github.com/MrJamesThe3rd/splitty/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/splitty/internal/matching/store"
	"github.com/MrJamesThe3rd/splitty/internal/member"
	memberStore "github.com/MrJamesThe3rd/splitty/internal/member/store"
	"github.com/MrJamesThe3rd/splitty/internal/receipt"
	"github.com/MrJamesThe3rd/splitty/internal/report"
)

type services struct {
	members  *member.Service
	expenses *expense.Service
	matching *matching.Service
	reports  *report.Service
}

type model struct {
	services

	common   view.CommonModel
	homeName string
	login    view.LoginModel

	// current is nil while the menu is shown.
	current view.View
	width   int
	height  int
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	receipts, err := receipt.New(cfg.Receipts.Dir, cfg.Receipts.MaxSize)
	if err != nil {
		slog.Error("failed to open receipt store", "error", err)
		os.Exit(1)
	}

	memberSvc := member.NewService(memberStore.New(db))
	expenseSvc := expense.NewService(expenseStore.New(db), receipts)

	return model{
		services: services{
			members:  memberSvc,
			expenses: expenseSvc,
			matching: matching.NewService(matchingStore.New(db)),
			reports:  report.NewService(expenseSvc, memberSvc),
		},
		login: view.NewLoginModel(memberSvc),
	}
}

func (m model) loggedIn() bool {
	return m.common.Principal.MemberID != uuid.Nil
}

func (m model) Init() tea.Cmd {
	return m.login.Init()
}

func (m model) open(v view.View) (tea.Model, tea.Cmd) {
	m.current = v

	cmds := []tea.Cmd{v.Init()}
	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.LoggedInMsg:
		m.common = view.CommonModel{Principal: msg.Principal}
		m.homeName = msg.HomeName

		return m, nil
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if !m.loggedIn() {
		newModel, cmd := m.login.Update(msg)
		m.login = newModel.(view.LoginModel)

		return m, cmd
	}

	if m.current == nil {
		return m.updateMenu(msg)
	}

	newModel, cmd := m.current.Update(msg)
	m.current = newModel.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.open(view.NewExpensesModel(m.common, m.expenses, m.matching))
	case "2":
		return m.open(view.NewStatsModel(m.common, m.reports))
	case "3":
		return m.open(view.NewMembersModel(m.common, m.members))
	}

	return m, nil
}

func (m model) View() string {
	if !m.loggedIn() {
		return m.login.View()
	}

	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.current.ShortHelp())
		return m.current.View() + "\n" + help
	}

	return lipgloss.NewStyle().Padding(2).Render(
		"Splitty · " + m.homeName + "\n" +
			"Logged in as " + m.common.Principal.Name + " (" + string(m.common.Principal.Role) + ")\n\n" +
			"1. Expenses\n" +
			"2. Balances\n" +
			"3. Members\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
