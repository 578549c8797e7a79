package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/splitty/internal/member"
)

// MembersModel lists the home roster. Admins can add members with "n".
type MembersModel struct {
	CommonModel
	memberService *member.Service

	table   table.Model
	members []*member.Member
	form    *huh.Form
	loading bool
	err     error
	status  string
}

func NewMembersModel(common CommonModel, memberSvc *member.Service) MembersModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Contact", Width: 18},
			{Title: "Role", Width: 8},
			{Title: "Since", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	return MembersModel{
		CommonModel:   common,
		memberService: memberSvc,
		table:         t,
		loading:       true,
	}
}

func (m MembersModel) Title() string { return "Members" }
func (m MembersModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	if m.Principal.IsAdmin() {
		return "Esc: back | n: add member | r: refresh"
	}

	return "Esc: back | r: refresh"
}

func (m MembersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m MembersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMembersMsg:
		m.loading = false
		m.err = msg.err
		m.members = msg.members
		m.refreshTable()

		return m, nil

	case memberAddedMsg:
		m.form = nil
		m.table.Focus()

		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(msg.err.Error())
		}

		return m, m.loadCmd()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			if m.Principal.IsAdmin() {
				m.form = newMemberForm()
				m.table.Blur()

				return m, m.form.Init()
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func newMemberForm() *huh.Form {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s cannot be empty", field)
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Name").Validate(required("name")),
			huh.NewInput().Key("last_name").Title("Last name"),
			huh.NewInput().Key("contact_no").Title("Contact number").Validate(required("contact number")),
			huh.NewInput().
				Key("password").
				Title("Initial password").
				EchoMode(huh.EchoModePassword).
				Validate(required("password")),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m MembersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
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

	return m, m.addCmd()
}

func (m MembersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading members...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Add Member\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *MembersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.members))
	for _, mem := range m.members {
		rows = append(rows, table.Row{
			strings.TrimSpace(mem.Name + " " + mem.LastName),
			mem.ContactNo,
			string(mem.Role),
			mem.CreatedAt.Format("2006-01-02"),
		})
	}

	m.table.SetRows(rows)
}

type loadMembersMsg struct {
	members []*member.Member
	err     error
}

func (m MembersModel) loadCmd() tea.Cmd {
	homeID := m.Principal.HomeID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		members, err := m.memberService.List(ctx, homeID)

		return loadMembersMsg{members: members, err: err}
	}
}

type memberAddedMsg struct {
	status string
	err    error
}

func (m MembersModel) addCmd() tea.Cmd {
	actor := m.Principal
	params := member.AddParams{
		Name:      m.form.GetString("name"),
		LastName:  m.form.GetString("last_name"),
		ContactNo: m.form.GetString("contact_no"),
		Password:  m.form.GetString("password"),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		mem, err := m.memberService.Add(ctx, actor, params)
		if err != nil {
			return memberAddedMsg{err: err}
		}

		return memberAddedMsg{status: fmt.Sprintf("Added %s", mem.Name)}
	}
}
