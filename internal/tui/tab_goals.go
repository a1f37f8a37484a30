package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func (a *App) updateGoalsKey(msg tea.KeyMsg) tea.Cmd {
	v := a.goals.View()
	selected := func() (model.FinancialGoal, bool) {
		if a.goalCursor >= len(v.Goals) {
			return model.FinancialGoal{}, false
		}
		return v.Goals[a.goalCursor], true
	}

	switch {
	case key.Matches(msg, a.keys.Down):
		a.goalCursor = clampCursor(a.goalCursor+1, len(v.Goals))
	case key.Matches(msg, a.keys.Up):
		a.goalCursor = clampCursor(a.goalCursor-1, len(v.Goals))
	case key.Matches(msg, a.keys.Reload):
		return a.goals.Reload()
	case key.Matches(msg, a.keys.Add):
		return a.openModal(goalForm())
	case key.Matches(msg, a.keys.Give):
		if g, ok := selected(); ok {
			return a.openModal(contributeForm(g, a.currency))
		}
	case key.Matches(msg, a.keys.Delete):
		if g, ok := selected(); ok {
			id := g.ID
			return a.openModal(confirmForm("Delete goal", "Delete "+g.Name+"?",
				func(a *App) tea.Cmd { return a.goals.Delete(id) }))
		}
	}
	return nil
}

func deadlineText(g model.FinancialGoal) (string, lipgloss.Color) {
	t := theme.Active
	text := cli.FormatDaysRemaining(g.DaysRemaining)
	switch g.DeadlineState() {
	case model.DeadlineOverdue:
		return text, t.Danger
	case model.DeadlineDueSoon:
		return text, t.Warning
	default:
		return text, t.TextMuted
	}
}

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	v := a.goals.View()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case v.Error != "":
		return components.ContentCard("Financial goals", cli.RenderError(v.Error)+"\n\n"+muted.Render("Press r to try again."), cw)
	case v.Loading && len(v.Goals) == 0:
		return components.ContentCard("Financial goals", a.spinner.View()+" Loading goals…", cw)
	case len(v.Goals) == 0:
		return components.ContentCard("Financial goals", muted.Render("No goals yet. Press a to add one."), cw)
	}

	inner := components.CardInnerWidth(cw)
	cur := a.currency
	var blocks []string
	for i, g := range v.Goals {
		nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
		marker := "  "
		if i == a.goalCursor {
			nameStyle = nameStyle.Foreground(t.AccentBright)
			marker = "▸ "
		}
		dl, dlColor := deadlineText(g)
		title := marker + nameStyle.Render(g.Name)
		if g.Category != nil && *g.Category != "" {
			title += muted.Render("  " + *g.Category)
		}
		if g.ID == v.PendingID {
			title += muted.Render("  " + a.spinner.View())
		}

		amounts := fmt.Sprintf("%s of %s", cli.FormatCurrency(g.CurrentAmount, cur), cli.FormatCurrency(g.TargetAmount, cur))
		bar := components.ProgressBar(goalFraction(g), max(inner-lipgloss.Width(amounts)-lipgloss.Width(dl)-14, 10))
		line := "  " + bar + "  " + muted.Render(amounts) + "  " +
			lipgloss.NewStyle().Foreground(dlColor).Background(t.Surface).Render(dl)
		blocks = append(blocks, title+"\n"+line)
	}

	body := strings.Join(blocks, "\n\n")
	if v.MutationError != "" {
		body += "\n\n" + cli.RenderError(v.MutationError)
	}
	return components.ContentCard("Financial goals", body, cw)
}
