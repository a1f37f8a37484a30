package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func (a *App) updatePeriodsKey(msg tea.KeyMsg) tea.Cmd {
	v := a.periods.View()
	switch {
	case key.Matches(msg, a.keys.Down):
		a.periodCursor = clampCursor(a.periodCursor+1, len(v.Periods))
	case key.Matches(msg, a.keys.Up):
		a.periodCursor = clampCursor(a.periodCursor-1, len(v.Periods))
	case key.Matches(msg, a.keys.Reload):
		return a.periods.Reload()
	case key.Matches(msg, a.keys.Close):
		if a.periodCursor >= len(v.Periods) {
			return nil
		}
		p := v.Periods[a.periodCursor]
		if p.Completed() {
			a.flash = "That period is already closed"
			return nil
		}
		id := p.ID
		return a.openModal(confirmForm("Close period",
			"Close the period that started "+cli.FormatDate(p.SortKey().Time)+"?",
			func(a *App) tea.Cmd { return a.periods.Complete(id, a.now()) }))
	}
	return nil
}

func (a App) renderPeriodsTab(cw, h int) string {
	t := theme.Active
	v := a.periods.View()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case v.Error != "":
		return components.ContentCard("Budget periods", cli.RenderError(v.Error)+"\n\n"+muted.Render("Press r to try again."), cw)
	case v.Loading && len(v.Periods) == 0:
		return components.ContentCard("Budget periods", a.spinner.View()+" Loading periods…", cw)
	case len(v.Periods) == 0:
		return components.ContentCard("Budget periods", muted.Render("No budget periods yet."), cw)
	}

	cur := a.currency
	head := fmt.Sprintf("%-14s %-14s %-10s %14s %14s %14s %14s", "Started", "Ended", "Status", "Income", "Expenses", "Savings", "Carry fwd")
	lines := []string{muted.Bold(true).Render(head)}

	rows := max(h-6, 1)
	offset := max(a.periodCursor-rows+1, 0)
	for i := offset; i < len(v.Periods) && i < offset+rows; i++ {
		p := v.Periods[i]
		ended := "—"
		if p.EndedAt != nil && !p.EndedAt.IsZero() {
			ended = cli.FormatDate(p.EndedAt.Time)
		}
		status := cli.Title(p.Status)
		if p.ID == v.CompletingID {
			status = "closing…"
		}
		line := fmt.Sprintf("%-14s %-14s %-10s %14s %14s %14s %14s",
			cli.FormatDate(p.SortKey().Time), ended, status,
			cli.FormatCurrency(p.ActualIncome, cur),
			cli.FormatCurrency(p.TotalExpenses, cur),
			cli.FormatCurrency(p.TotalSavings, cur),
			cli.FormatCurrency(p.CarryForward, cur))

		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		if !p.Completed() {
			style = style.Foreground(t.AccentBright)
		}
		if i == a.periodCursor {
			style = style.Background(t.SurfaceHover).Bold(true)
		}
		lines = append(lines, style.Render(line))
	}

	body := strings.Join(lines, "\n")
	if v.CompleteError != "" {
		body += "\n\n" + cli.RenderError(v.CompleteError)
	}
	return components.ContentCard("Budget periods", body, cw)
}
