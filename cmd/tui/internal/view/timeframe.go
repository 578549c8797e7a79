package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Period is a month selection, or every month when All is set.
type Period struct {
	Month time.Time
	All   bool
}

func CurrentPeriod() Period {
	now := time.Now()
	return Period{Month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// String returns the "YYYY-MM" key the services filter on, or "all".
func (p Period) String() string {
	if p.All {
		return "all"
	}

	return p.Month.Format("2006-01")
}

// Label is the human form shown in headers.
func (p Period) Label() string {
	if p.All {
		return "All Time"
	}

	return p.Month.Format("January 2006")
}

// PeriodChangedMsg is emitted when the picker moves.
type PeriodChangedMsg struct {
	Period Period
}

// PeriodPicker moves between months with the arrow keys and toggles all time with "a".
type PeriodPicker struct {
	period Period
}

func NewPeriodPicker() PeriodPicker {
	return PeriodPicker{period: CurrentPeriod()}
}

func (m PeriodPicker) Period() Period {
	return m.period
}

// Update reports whether the key was consumed.
func (m PeriodPicker) Update(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "left", "h":
		m.period.All = false
		m.period.Month = m.period.Month.AddDate(0, -1, 0)
	case "right", "l":
		m.period.All = false
		m.period.Month = m.period.Month.AddDate(0, 1, 0)
	case "a":
		m.period.All = !m.period.All
	case "t":
		m.period = CurrentPeriod()
	default:
		return m, nil, false
	}

	p := m.period

	return m, func() tea.Msg { return PeriodChangedMsg{Period: p} }, true
}

func (m PeriodPicker) View() string {
	return "< " + activeStyle(m.period.Label()) + " >"
}
