package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
	"github.com/MrJamesThe3rd/splitty/internal/member"
)

// LoggedInMsg carries the authenticated member to the root model.
type LoggedInMsg struct {
	Principal auth.Principal
	HomeName  string
}

type LoginModel struct {
	memberService *member.Service

	form *huh.Form
	err  error

	contactNo string
	password  string
}

func NewLoginModel(memberSvc *member.Service) LoginModel {
	m := LoginModel{memberService: memberSvc}
	m.form = m.buildForm()

	return m
}

func (m *LoginModel) buildForm() *huh.Form {
	notBlank := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s cannot be empty", field)
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("contact_no").
				Title("Contact number").
				Value(&m.contactNo).
				Validate(notBlank("contact number")),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(notBlank("password")),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Login" }
func (m LoginModel) ShortHelp() string { return "Enter: submit | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(loginFailedMsg); ok {
		m.err = msg.err
		m.contactNo = m.form.GetString("contact_no")
		m.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.loginCmd()
}

func (m LoginModel) View() string {
	content := "Splitty\n\n" + m.form.View()
	if m.err != nil {
		content += "\n" + errorStyle(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loginFailedMsg struct {
	err error
}

func (m LoginModel) loginCmd() tea.Cmd {
	contactNo, password := m.form.GetString("contact_no"), m.form.GetString("password")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		mem, err := m.memberService.Authenticate(ctx, contactNo, password)
		if err != nil {
			if errors.Is(err, member.ErrInvalidCredentials) {
				return loginFailedMsg{err: err}
			}

			return loginFailedMsg{err: fmt.Errorf("login failed: %w", err)}
		}

		homeName := ""
		if home, err := m.memberService.GetHome(ctx, mem.HomeID); err == nil {
			homeName = home.Name
		}

		return LoggedInMsg{Principal: mem.Principal(), HomeName: homeName}
	}
}
