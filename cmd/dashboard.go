package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/service"
)

var flagYear int

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Net worth, this month, and yearly analytics",
	RunE:    runDashboard,
}

func init() {
	dashboardCmd.Flags().IntVarP(&flagYear, "year", "y", 0, "Year for the yearly section (default: this year)")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.profile(ctx)
	if err != nil {
		return err
	}
	year := flagYear
	if year == 0 {
		year = time.Now().Year()
	}

	progress("Loading dashboard...")
	dash := controller.NewDashboard(ctx, service.NewAnalytics(b.client), logger, year)
	err = controller.Drive(ctx, dash.Init(), func(msg tea.Msg) tea.Cmd {
		dash.Update(msg)
		return nil
	})
	if err != nil {
		return err
	}

	v := dash.View()
	if v.Dashboard == nil {
		return errors.New(v.Error)
	}
	printDashboard(v, p.User.CurrencyOrDefault())
	return nil
}

func printDashboard(v controller.DashboardView, cur string) {
	d := v.Dashboard
	money := func(x decimal.Decimal) string { return cli.FormatCurrency(x, cur) }

	fmt.Println()
	fmt.Println(cli.RenderTitle("DASHBOARD"))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Net worth", money(d.NetWorth)},
		{"Income this month", money(d.ThisMonthIncome)},
		{"Expenses this month", money(d.ThisMonthExpenses)},
		{"Saved this month", money(d.ThisMonthSavings)},
		{"Savings rate", cli.FormatPercent(d.SavingsRate)},
		{"All-time income", money(d.AllTimeIncome)},
		{"All-time expenses", money(d.AllTimeExpenses)},
	}))

	inv := d.InvestmentPerformance
	fmt.Println()
	fmt.Println("  Investments")
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Invested", money(inv.TotalInvested)},
		{"Current value", money(inv.CurrentValue)},
		{"Profit/loss", money(inv.ProfitLoss) + " (" + cli.FormatPercent(inv.ProfitLossPercentage) + ")"},
	}))

	if cp := d.CurrentPeriod; cp != nil {
		fmt.Println()
		fmt.Printf("  Current period (since %s)\n", cli.FormatDate(cp.SortKey().Time))
		fmt.Print(cli.RenderKeyValues([][2]string{
			{"Income", money(cp.ActualIncome) + " of " + money(cp.ExpectedIncome)},
			{"Spent", money(cp.TotalExpenses)},
			{"Saved", money(cp.TotalSavings)},
			{"Invested", money(cp.TotalInvestments)},
		}))
	}

	if len(d.TopExpenseCategories) > 0 {
		fmt.Println()
		fmt.Println("  Top expense categories")
		peak, _ := d.TopExpenseCategories[0].Amount.Float64()
		for _, c := range d.TopExpenseCategories {
			amt, _ := c.Amount.Float64()
			peak = max(peak, amt)
		}
		for _, c := range d.TopExpenseCategories {
			amt, _ := c.Amount.Float64()
			label := fmt.Sprintf("%s  %s (%s)", c.CategoryName, money(c.Amount), cli.FormatPercent(c.Percentage))
			fmt.Println(cli.RenderHorizontalBar(label, amt, peak, 30, cli.TypeColor(model.TypeExpense)))
		}
	}

	if len(d.FinancialGoalsProgress) > 0 {
		fmt.Println()
		fmt.Println("  Goals")
		var rows [][]string
		for _, g := range d.FinancialGoalsProgress {
			rows = append(rows, []string{g.Name, cli.RenderProgressBar(g.ProgressPercentage, 20), money(g.CurrentAmount), money(g.TargetAmount)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:     []string{"Goal", "Progress", "Saved", "Target"},
			Rows:        rows,
			LeftAligned: map[int]bool{0: true, 1: true},
		}))
	}

	if len(d.RecentTransactions) > 0 {
		fmt.Println()
		fmt.Println("  Recent transactions")
		fmt.Print(cli.RenderTable(transactionTable(d.RecentTransactions, nil, cur)))
	}

	printYearly(v, cur)
	fmt.Println()
}

func printYearly(v controller.DashboardView, cur string) {
	fmt.Println()
	y := v.Yearly
	if y == nil {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("Yearly analytics for %d unavailable", v.SelectedYear)))
		return
	}
	money := func(x decimal.Decimal) string { return cli.FormatCurrency(x, cur) }

	fmt.Printf("  Year %d\n", y.Year)
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Income", money(y.TotalIncome)},
		{"Expenses", money(y.TotalExpenses)},
		{"Savings", money(y.TotalSavings)},
		{"Investments", money(y.TotalInvestments)},
		{"Net savings", money(y.NetSavings)},
		{"Savings rate", cli.FormatPercent(y.SavingsRate)},
		{"Periods", cli.FormatNumber(int64(y.PeriodsCount))},
	}))

	if len(y.PeriodTrends) == 0 {
		return
	}
	income := make([]float64, len(y.PeriodTrends))
	expenses := make([]float64, len(y.PeriodTrends))
	for i, t := range y.PeriodTrends {
		income[i], _ = t.Income.Float64()
		expenses[i], _ = t.Expenses.Float64()
	}
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Income trend", cli.RenderSparkline(income)},
		{"Expense trend", cli.RenderSparkline(expenses)},
	}))
}
