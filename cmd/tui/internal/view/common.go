package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/splitty/internal/auth"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views that act on behalf of the logged in member.
type CommonModel struct {
	Principal auth.Principal
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
