package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/service"
)

var (
	flagTxCategory string
	flagTxPeriod   string
	flagTxType     string
	flagTxFrom     string
	flagTxTo       string
	flagTxPage     int
	flagTxLimit    int
)

var (
	flagAddAmount    string
	flagAddType      string
	flagAddCategory  string
	flagAddDesc      string
	flagAddDate      string
	flagAddTime      string
	flagAddPayment   string
	flagAddTags      string
	flagAddRecurring string
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List transactions, newest first",
	Args:    cobra.NoArgs,
	RunE:    runTransactions,
}

var transactionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	Example: "  ledgr transactions add --amount 12.50 --category groceries --description \"Market\"\n" +
		"  ledgr tx add --type income --amount 3000 --category salary --recurring monthly",
	Args: cobra.NoArgs,
	RunE: runTransactionsAdd,
}

func init() {
	f := transactionsCmd.Flags()
	f.StringVarP(&flagTxCategory, "category", "c", "", "Category name or id")
	f.StringVar(&flagTxPeriod, "period", "", "Budget period id")
	f.StringVarP(&flagTxType, "type", "t", "", "income, expense, saving or investment")
	f.StringVar(&flagTxFrom, "from", "", "Earliest date (YYYY-MM-DD)")
	f.StringVar(&flagTxTo, "to", "", "Latest date (YYYY-MM-DD)")
	f.IntVar(&flagTxPage, "page", 1, "Page number")
	f.IntVarP(&flagTxLimit, "limit", "l", 0, "Rows per page (default from config)")

	a := transactionsAddCmd.Flags()
	a.StringVarP(&flagAddAmount, "amount", "a", "", "Amount, e.g. 12.50")
	a.StringVarP(&flagAddType, "type", "t", model.TypeExpense, "income, expense, saving or investment")
	a.StringVarP(&flagAddCategory, "category", "c", "", "Category name or id")
	a.StringVarP(&flagAddDesc, "description", "d", "", "Description")
	a.StringVar(&flagAddDate, "date", "", "Date (YYYY-MM-DD, default today)")
	a.StringVar(&flagAddTime, "time", "", "Time (HH:MM, default now)")
	a.StringVar(&flagAddPayment, "payment", "", "Payment method, e.g. credit_card")
	a.StringVar(&flagAddTags, "tags", "", "Comma-separated tags")
	a.StringVar(&flagAddRecurring, "recurring", "", "Repeat daily, weekly, monthly or yearly")
	_ = transactionsAddCmd.MarkFlagRequired("amount")
	_ = transactionsAddCmd.MarkFlagRequired("category")

	transactionsCmd.AddCommand(transactionsAddCmd)
	rootCmd.AddCommand(transactionsCmd)
}

func validateFilterFlags() error {
	if flagTxType != "" && !slices.Contains(model.TransactionTypes, flagTxType) {
		return fmt.Errorf("unknown type %q (want %s)", flagTxType, strings.Join(model.TransactionTypes, ", "))
	}
	for _, d := range []string{flagTxFrom, flagTxTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("date %q must look like 2006-01-02", d)
		}
	}
	if flagTxPage < 1 {
		return errors.New("--page must be 1 or more")
	}
	if flagTxLimit < 0 || flagTxLimit > config.MaxPageSize {
		return fmt.Errorf("--limit must be between 1 and %d", config.MaxPageSize)
	}
	return nil
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	if err := validateFilterFlags(); err != nil {
		return err
	}
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

	cats := service.NewCategories(b.client)
	filter := model.TransactionFilter{
		PeriodID:  flagTxPeriod,
		Type:      flagTxType,
		StartDate: flagTxFrom,
		EndDate:   flagTxTo,
	}
	if flagTxCategory != "" {
		list, err := cats.List(ctx)
		if err != nil {
			return err
		}
		c, err := service.ResolveCategory(list, flagTxCategory)
		if err != nil {
			return err
		}
		filter.CategoryID = c.ID
	}

	limit := flagTxLimit
	if limit == 0 {
		limit = cfg.PageSize()
	}
	txs := controller.NewTransactions(ctx, service.NewTransactions(b.client), cats, service.NewPeriods(b.client), logger, limit)

	progress("Loading transactions...")
	// SetFilters dispatches the first page; Init then only adds the
	// reference data fetches.
	first := txs.SetFilters(filter)
	if err := controller.Drive(ctx, tea.Batch(first, txs.Init()), txs.Update); err != nil {
		return err
	}
	if v := txs.View(); v.Error == "" && flagTxPage > 1 {
		next := txs.SetPage(flagTxPage)
		if next == nil {
			return fmt.Errorf("page %d is out of range (1-%d)", flagTxPage, max(v.Pagination.TotalPages, 1))
		}
		if err := controller.Drive(ctx, next, txs.Update); err != nil {
			return err
		}
	}

	v := txs.View()
	if v.Error != "" {
		return errors.New(v.Error)
	}
	printTransactions(v, p.User.CurrencyOrDefault())
	return nil
}

func printTransactions(v controller.TransactionsView, cur string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("TRANSACTIONS"))
	fmt.Println()
	if v.Filter.Active() {
		fmt.Println("  " + describeFilter(v))
		fmt.Println()
	}
	if len(v.Items) == 0 {
		fmt.Println("  No transactions match.")
		fmt.Println()
		return
	}
	fmt.Print(cli.RenderTable(transactionTable(v.Items, v.Categories, cur)))
	fmt.Printf("  Page %d of %d · %s\n\n", v.Page, max(v.Pagination.TotalPages, 1),
		cli.Plural(v.Pagination.Total, "transaction", "transactions"))
}

func describeFilter(v controller.TransactionsView) string {
	f := v.Filter
	var parts []string
	if f.Type != "" {
		parts = append(parts, "type "+f.Type)
	}
	if f.CategoryID != "" {
		parts = append(parts, "category "+categoryLabel(v.Categories, f.CategoryID))
	}
	if f.PeriodID != "" {
		parts = append(parts, "period "+f.PeriodID)
	}
	if f.StartDate != "" {
		parts = append(parts, "from "+f.StartDate)
	}
	if f.EndDate != "" {
		parts = append(parts, "to "+f.EndDate)
	}
	return "Filtered by " + strings.Join(parts, ", ")
}

func categoryLabel(cats []model.Category, id string) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func transactionTable(items []model.Transaction, cats []model.Category, cur string) cli.Table {
	rows := make([][]string, 0, len(items))
	for _, tx := range items {
		category := tx.CategoryName()
		if category == "" && tx.CategoryID != "" {
			category = categoryLabel(cats, tx.CategoryID)
		}
		amount := cli.FormatCurrency(tx.Amount, cur)
		if tx.Type == model.TypeExpense {
			amount = "-" + amount
		}
		rows = append(rows, []string{
			cli.FormatDate(tx.TransactedAt.Time),
			tx.DescriptionOr("-"),
			category,
			cli.Title(tx.Type),
			amount,
		})
	}
	return cli.Table{
		Headers:     []string{"Date", "Description", "Category", "Type", "Amount"},
		Rows:        rows,
		LeftAligned: map[int]bool{1: true, 2: true, 3: true},
	}
}

func runTransactionsAdd(cmd *cobra.Command, _ []string) error {
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

	cats := service.NewCategories(b.client)
	list, err := cats.List(ctx)
	if err != nil {
		return err
	}
	c, err := service.ResolveCategory(list, flagAddCategory)
	if err != nil {
		return err
	}

	d := controller.NewTransactionDraft(time.Now())
	d.Amount = flagAddAmount
	d.Type = flagAddType
	d.CategoryID = c.ID
	d.Description = flagAddDesc
	d.PaymentMethod = flagAddPayment
	d.Tags = flagAddTags
	if flagAddDate != "" {
		d.Date = flagAddDate
	}
	if flagAddTime != "" {
		d.Time = flagAddTime
	}
	if flagAddRecurring != "" {
		d.IsRecurring = true
		d.RecurringFrequency = flagAddRecurring
	}

	txs := controller.NewTransactions(ctx, service.NewTransactions(b.client), cats, service.NewPeriods(b.client), logger, cfg.PageSize())
	txs.OpenCreate()
	submit := txs.SubmitCreate(d)
	if submit == nil {
		return errors.New(txs.View().CreateError)
	}
	progress("Saving...")
	if err := controller.Drive(ctx, submit, txs.Update); err != nil {
		return err
	}
	if v := txs.View(); v.CreateError != "" {
		return errors.New(v.CreateError)
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(d.Amount))
	fmt.Printf("  Added %s of %s in %s.\n", d.Type, cli.FormatCurrency(amount, p.User.CurrencyOrDefault()), c.Name)
	return nil
}
