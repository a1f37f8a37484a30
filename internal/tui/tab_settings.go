package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/store"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func (a *App) updateSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Theme) {
		return a.openModal(themeForm(theme.Active.Name))
	}
	return nil
}

// setTheme applies name immediately and persists it in the background.
func (a *App) setTheme(name string) tea.Cmd {
	theme.SetActive(name)
	a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
	a.flash = "Theme set to " + theme.Active.Name
	db, ctx := a.settings, a.ctx
	if db == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{err: db.Set(context.WithoutCancel(ctx), store.KeyTheme, name)}
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	u := a.profile.User
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	account := [][2]string{
		{"Name", orDash(u.Name)},
		{"Email", orDash(u.Email)},
		{"Currency", u.CurrencyOrDefault() + " (" + cli.CurrencySymbol(u.CurrencyOrDefault()) + ")"},
		{"Timezone", orDash(u.Timezone)},
		{"Salary day", strconv.Itoa(u.SalaryDay)},
	}
	if !u.CreatedAt.IsZero() {
		account = append(account, [2]string{"Member since", cli.FormatDate(u.CreatedAt.Time)})
	}
	if s := a.profile.Stats; s != nil {
		account = append(account,
			[2]string{"Transactions", cli.FormatNumber(int64(s.TotalTransactions))},
			[2]string{"Active goals", cli.FormatNumber(int64(s.ActiveFinancialGoals))},
		)
	}

	client := [][2]string{
		{"API", a.cfg.API.BaseURL},
		{"Page size", strconv.Itoa(a.cfg.PageSize())},
		{"Theme", t.Name},
		{"Config file", config.ConfigPath()},
	}

	half := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Account", keyValues(account), half[0]),
		components.ContentCard("Client", keyValues(client)+"\n\n"+muted.Render("enter to change theme"), half[1]),
	})
}
