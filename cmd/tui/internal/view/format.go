package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/splitty/internal/report"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return report.FormatCents(cents)
}

// ParseAmount reads a user typed amount like "12.50" or "12,50" into cents.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return 0, err
	}

	return d.Shift(2).Round(0).IntPart(), nil
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

// balanceStyle colors positive balances green and negative ones red.
func balanceStyle(cents int64) string {
	switch {
	case cents > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("+" + FormatAmount(cents))
	case cents < 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(FormatAmount(cents))
	}

	return FormatAmount(cents)
}
