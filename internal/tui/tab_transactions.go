package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func (a *App) updateTransactionsKey(msg tea.KeyMsg) tea.Cmd {
	v := a.txs.View()

	if v.Detail != nil {
		if key.Matches(msg, a.keys.Back, a.keys.Open) {
			a.txs.CloseDetail()
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Down):
		a.txCursor = clampCursor(a.txCursor+1, len(v.Items))
	case key.Matches(msg, a.keys.Up):
		a.txCursor = clampCursor(a.txCursor-1, len(v.Items))
	case key.Matches(msg, a.keys.Open):
		a.txs.ShowDetail(a.txCursor)
	case key.Matches(msg, a.keys.NextPage):
		a.txCursor = 0
		return a.txs.NextPage()
	case key.Matches(msg, a.keys.PrevPage):
		a.txCursor = 0
		return a.txs.PrevPage()
	case key.Matches(msg, a.keys.JumpPage):
		if v.Pagination.TotalPages > 1 {
			return a.openModal(pageForm(v))
		}
	case key.Matches(msg, a.keys.Reload):
		return a.txs.Reload()
	case key.Matches(msg, a.keys.Clear):
		a.txCursor = 0
		return a.txs.ClearFilters()
	case key.Matches(msg, a.keys.Filter):
		return a.openModal(filterForm(v))
	case key.Matches(msg, a.keys.Add):
		a.txs.OpenCreate()
		d := controller.NewTransactionDraft(a.now())
		return a.openModal(transactionForm(&d, v.Categories, ""))
	}
	return nil
}

func (a App) categoryName(v controller.TransactionsView, tx model.Transaction) string {
	if name := tx.CategoryName(); name != "" {
		return name
	}
	for _, c := range v.Categories {
		if c.ID == tx.CategoryID {
			return c.Name
		}
	}
	return ""
}

func (a App) filterSummary(v controller.TransactionsView) string {
	f := v.Filter
	if !f.Active() {
		return "All transactions"
	}
	var parts []string
	if f.Type != "" {
		parts = append(parts, cli.Title(f.Type))
	}
	if f.CategoryID != "" {
		name := f.CategoryID
		for _, c := range v.Categories {
			if c.ID == f.CategoryID {
				name = c.Name
			}
		}
		parts = append(parts, name)
	}
	if f.PeriodID != "" {
		parts = append(parts, "one period")
	}
	if f.StartDate != "" || f.EndDate != "" {
		parts = append(parts, fmt.Sprintf("%s → %s", orDash(f.StartDate), orDash(f.EndDate)))
	}
	return "Filtered: " + strings.Join(parts, " · ")
}

func orDash(s string) string {
	if s == "" {
		return "…"
	}
	return s
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	v := a.txs.View()

	if v.Detail != nil {
		return a.renderTransactionDetail(v, *v.Detail, cw)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	p := v.Pagination
	pageInfo := fmt.Sprintf("Page %d of %d · %s", v.Page, max(p.TotalPages, 1), cli.Plural(p.Total, "transaction", "transactions"))
	header := muted.Render(a.filterSummary(v)) + "    " + muted.Render(pageInfo)

	var body string
	switch {
	case v.Error != "":
		body = cli.RenderError(v.Error) + "\n\n" + muted.Render("Press r to try again.")
	case v.Loading && len(v.Items) == 0:
		body = a.spinner.View() + " Loading transactions…"
	case len(v.Items) == 0:
		body = muted.Render("No transactions match.")
	default:
		body = a.transactionRows(v, components.CardInnerWidth(cw), h-4)
	}
	return components.ContentCard(header, body, cw)
}

func (a App) transactionRows(v controller.TransactionsView, width, h int) string {
	t := theme.Active
	descW := max(width-60, 12)

	// Keep the cursor row inside the visible window.
	rows := max(h-1, 1)
	offset := 0
	if a.txCursor >= rows {
		offset = a.txCursor - rows + 1
	}

	var lines []string
	head := fmt.Sprintf("%-14s %-*s %-16s %-11s %14s", "Date", descW, "Description", "Category", "Type", "Amount")
	lines = append(lines, lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true).Render(head))

	for i := offset; i < len(v.Items) && i < offset+rows; i++ {
		tx := v.Items[i]
		amount := cli.FormatCurrency(tx.Amount, a.currency)
		if tx.Type == model.TypeExpense {
			amount = "-" + amount
		}
		line := fmt.Sprintf("%-14s %-*s %-16s %-11s ",
			cli.FormatDate(tx.TransactedAt.Time),
			descW, truncStr(tx.DescriptionOr("—"), descW),
			truncStr(a.categoryName(v, tx), 16),
			cli.Title(tx.Type))

		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		if i == a.txCursor {
			style = style.Background(t.SurfaceHover).Bold(true)
		}
		typed := style.Foreground(t.ForType(tx.Type))
		lines = append(lines, style.Render(line)+typed.Render(fmt.Sprintf("%14s", amount)))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderTransactionDetail(v controller.TransactionsView, tx model.Transaction, cw int) string {
	recurring := "No"
	if tx.IsRecurring {
		recurring = "Yes"
		if tx.RecurringFrequency != nil {
			recurring += ", " + *tx.RecurringFrequency
		}
	}
	pairs := [][2]string{
		{"Amount", cli.FormatCurrency(tx.Amount, a.currency)},
		{"Type", cli.Title(tx.Type)},
		{"Description", tx.DescriptionOr("—")},
		{"Category", orDash(a.categoryName(v, tx))},
		{"Date", cli.FormatDateTime(tx.TransactedAt.Time)},
		{"Payment method", orDash(tx.PaymentMethodLabel())},
		{"Tags", orDash(strings.Join(tx.Tags, ", "))},
		{"Recurring", recurring},
		{"ID", tx.ID},
	}
	hint := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Background(theme.Active.Surface).Render("esc to go back")
	return components.ContentCard("Transaction", keyValues(pairs)+"\n\n"+hint, min(cw, 80))
}
