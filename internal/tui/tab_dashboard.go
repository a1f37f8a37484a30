package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func (a *App) updateDashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.PrevYear):
		return a.shiftYear(-1)
	case key.Matches(msg, a.keys.NextYear):
		return a.shiftYear(1)
	case key.Matches(msg, a.keys.Reload):
		return a.dash.Retry()
	case key.Matches(msg, a.keys.Down):
		a.viewport.ScrollDown(1)
	case key.Matches(msg, a.keys.Up):
		a.viewport.ScrollUp(1)
	}
	return nil
}

// shiftYear selects the neighbouring year in the year options, if any.
func (a *App) shiftYear(delta int) tea.Cmd {
	i := slices.Index(a.years, a.dash.Year())
	if i < 0 {
		return nil
	}
	next := i + delta
	if next < 0 || next >= len(a.years) {
		return nil
	}
	return a.dash.SelectYear(a.years[next])
}

func f64(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	v := a.dash.View()
	cur := a.currency

	if v.Dashboard == nil {
		switch {
		case v.Error != "":
			return components.ContentCard("Dashboard", cli.RenderError(v.Error)+"\n\n"+
				lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Press r to try again."), cw)
		default:
			return components.ContentCard("Dashboard", a.spinner.View()+" Loading your finances…", cw)
		}
	}
	d := v.Dashboard

	var b strings.Builder
	if v.Error != "" {
		b.WriteString(components.ContentCard("", cli.RenderError(v.Error), cw) + "\n")
	}

	b.WriteString(components.MetricRow([]components.Metric{
		{Label: "Net worth", Value: cli.FormatCurrency(d.NetWorth, cur), Color: signColor(d.NetWorth)},
		{Label: "Income this month", Value: cli.FormatCurrency(d.ThisMonthIncome, cur), Color: t.Income,
			Note: "all time " + cli.FormatCurrencyShort(d.AllTimeIncome, cur)},
		{Label: "Expenses this month", Value: cli.FormatCurrency(d.ThisMonthExpenses, cur), Color: t.Expense,
			Note: "all time " + cli.FormatCurrencyShort(d.AllTimeExpenses, cur)},
		{Label: "Saved this month", Value: cli.FormatCurrency(d.ThisMonthSavings, cur), Color: t.Saving,
			Note: cli.FormatPercent(d.SavingsRate) + " savings rate"},
	}, cw))
	b.WriteString("\n")

	half := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Investments", a.investmentBody(d.InvestmentPerformance), half[0]),
		components.ContentCard("Current period", a.periodBody(d.CurrentPeriod), half[1]),
	}))
	b.WriteString("\n")

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Top expense categories", a.categoryBars(d.TopExpenseCategories, components.CardInnerWidth(half[0])), half[0]),
		components.ContentCard("Goals", a.goalProgress(d.FinancialGoalsProgress, components.CardInnerWidth(half[1])), half[1]),
	}))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Recent transactions", a.recentBody(d.RecentTransactions, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")
	b.WriteString(a.yearlySection(v, cw))
	return b.String()
}

func signColor(d decimal.Decimal) lipgloss.Color {
	if d.IsNegative() {
		return theme.Active.Expense
	}
	return theme.Active.TextPrimary
}

func (a App) investmentBody(p model.InvestmentPerformance) string {
	cur := a.currency
	pl := cli.FormatCurrency(p.ProfitLoss, cur) + " (" + cli.FormatPercent(p.ProfitLossPercentage) + ")"
	plColor := theme.Active.Income
	if p.ProfitLoss.IsNegative() {
		plColor = theme.Active.Expense
	}
	return keyValues([][2]string{
		{"Invested", cli.FormatCurrency(p.TotalInvested, cur)},
		{"Value", cli.FormatCurrency(p.CurrentValue, cur)},
		{"P/L", lipgloss.NewStyle().Foreground(plColor).Render(pl)},
	})
}

func (a App) periodBody(p *model.BudgetPeriod) string {
	if p == nil {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("No active budget period")
	}
	cur := a.currency
	return keyValues([][2]string{
		{"Started", cli.FormatDate(p.SortKey().Time)},
		{"Income", cli.FormatCurrency(p.ActualIncome, cur) + " of " + cli.FormatCurrency(p.ExpectedIncome, cur)},
		{"Spent", cli.FormatCurrency(p.TotalExpenses, cur)},
		{"Saved", cli.FormatCurrency(p.TotalSavings, cur)},
		{"Brought forward", cli.FormatCurrency(p.BroughtForward, cur)},
	})
}

func (a App) categoryBars(cats []model.CategoryBreakdown, width int) string {
	if len(cats) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("No expenses yet")
	}
	bars := make([]components.Bar, 0, len(cats))
	for _, c := range cats {
		bars = append(bars, components.Bar{
			Label: truncStr(c.CategoryName, 16),
			Value: f64(c.Amount),
			Text:  cli.FormatCurrencyShort(c.Amount, a.currency),
			Color: theme.Active.Expense,
		})
	}
	return components.BarChart(bars, width)
}

func goalFraction(g model.FinancialGoal) float64 {
	if !g.ProgressPercentage.IsZero() {
		return f64(g.ProgressPercentage) / 100
	}
	if g.TargetAmount.IsPositive() {
		return f64(g.CurrentAmount.Div(g.TargetAmount))
	}
	return 0
}

func (a App) goalProgress(goals []model.FinancialGoal, width int) string {
	if len(goals) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("No active goals")
	}
	labelW := min(18, width/3)
	var lines []string
	for _, g := range goals {
		label := fmt.Sprintf("%-*s ", labelW, truncStr(g.Name, labelW))
		lines = append(lines, label+components.ProgressBar(goalFraction(g), max(width-labelW-7, 4)))
	}
	return strings.Join(lines, "\n")
}

func (a App) recentBody(txs []model.Transaction, width int) string {
	if len(txs) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("No transactions yet")
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			cli.FormatDate(tx.TransactedAt.Time),
			truncStr(tx.DescriptionOr(tx.CategoryName()), max(width-50, 12)),
			lipgloss.NewStyle().Foreground(theme.Active.ForType(tx.Type)).Render(cli.Title(tx.Type)),
			cli.FormatCurrency(tx.Amount, a.currency),
		})
	}
	return cli.RenderTable(cli.Table{
		Headers:     []string{"Date", "Description", "Type", "Amount"},
		Rows:        rows,
		LeftAligned: map[int]bool{0: true, 1: true, 2: true},
	})
}

func (a App) yearlySection(v controller.DashboardView, cw int) string {
	t := theme.Active
	title := fmt.Sprintf("Year %d  [ / ] to change", v.SelectedYear)

	switch {
	case v.YearlyStatus == controller.StatusLoading:
		return components.ContentCard(title, a.spinner.View()+" Loading yearly analytics…", cw)
	case v.Yearly == nil:
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.TextDim).Render("Yearly analytics unavailable"), cw)
	}
	y := v.Yearly
	cur := a.currency

	summary := keyValues([][2]string{
		{"Income", cli.FormatCurrency(y.TotalIncome, cur)},
		{"Expenses", cli.FormatCurrency(y.TotalExpenses, cur)},
		{"Savings", cli.FormatCurrency(y.TotalSavings, cur)},
		{"Investments", cli.FormatCurrency(y.TotalInvestments, cur)},
		{"Net savings", cli.FormatCurrency(y.NetSavings, cur)},
		{"Savings rate", cli.FormatPercent(y.SavingsRate)},
		{"Periods", cli.FormatNumber(int64(y.PeriodsCount))},
	})

	inner := components.CardInnerWidth(cw)
	var trend string
	if len(y.PeriodTrends) > 0 {
		labels := make([]string, len(y.PeriodTrends))
		values := make([][]float64, len(y.PeriodTrends))
		for i, p := range y.PeriodTrends {
			labels[i] = truncStr(p.Label(), 10)
			values[i] = []float64{f64(p.Income), f64(p.Expenses)}
		}
		trend = components.PairedBars(labels,
			[]components.Series{{Name: "Income", Color: t.Income}, {Name: "Expenses", Color: t.Expense}},
			values, max(inner-lipgloss.Width(summary)-4, 20))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, summary, "    ", trend)
	return components.ContentCard(title, body, cw)
}

func keyValues(pairs [][2]string) string {
	return strings.TrimRight(cli.RenderKeyValues(pairs), "\n")
}
