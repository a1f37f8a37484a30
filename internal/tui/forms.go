package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// modal is a huh form shown over the active tab. submit runs once the
// form completes; cancel, when set, runs if it is dismissed.
type modal struct {
	title  string
	form   *huh.Form
	submit func(a *App) tea.Cmd
	cancel func(a *App)
}

func newModal(title string, submit func(a *App) tea.Cmd, groups ...*huh.Group) *modal {
	form := huh.NewForm(groups...).
		WithShowHelp(true).
		WithTheme(huh.ThemeBase())
	return &modal{title: title, form: form, submit: submit}
}

var paymentMethods = []string{"", "cash", "credit_card", "debit_card", "bank_transfer", "direct_debit", "digital_wallet", "direct_credit"}

func validDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validPositive(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}
	if !v.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

func categoryOptions(cats []model.Category, txType, anyLabel string) []huh.Option[string] {
	var opts []huh.Option[string]
	if anyLabel != "" {
		opts = append(opts, huh.NewOption(anyLabel, ""))
	}
	for _, c := range cats {
		if txType != "" && c.Type != "" && c.Type != txType {
			continue
		}
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return opts
}

func typeOptions(anyLabel string) []huh.Option[string] {
	var opts []huh.Option[string]
	if anyLabel != "" {
		opts = append(opts, huh.NewOption(anyLabel, ""))
	}
	for _, t := range model.TransactionTypes {
		opts = append(opts, huh.NewOption(cli.Title(t), t))
	}
	return opts
}

func periodLabel(p model.BudgetPeriod) string {
	start := cli.FormatDate(p.SortKey().Time)
	end := "now"
	if p.EndedAt != nil {
		end = cli.FormatDate(p.EndedAt.Time)
	}
	return fmt.Sprintf("%s – %s (%s)", start, end, p.Status)
}

// filterForm edits every transaction filter at once.
func filterForm(v controller.TransactionsView) *modal {
	f := v.Filter
	periodOpts := []huh.Option[string]{huh.NewOption("Any period", "")}
	for _, p := range v.Periods {
		periodOpts = append(periodOpts, huh.NewOption(periodLabel(p), p.ID))
	}

	return newModal("Filter transactions", func(a *App) tea.Cmd {
		f.StartDate = strings.TrimSpace(f.StartDate)
		f.EndDate = strings.TrimSpace(f.EndDate)
		a.txCursor = 0
		return a.txs.SetFilters(f)
	}, huh.NewGroup(
		huh.NewSelect[string]().Title("Type").Options(typeOptions("Any type")...).Value(&f.Type),
		huh.NewSelect[string]().Title("Category").Options(categoryOptions(v.Categories, "", "Any category")...).Value(&f.CategoryID),
		huh.NewSelect[string]().Title("Budget period").Options(periodOpts...).Value(&f.PeriodID),
		huh.NewInput().Title("From").Placeholder("YYYY-MM-DD").Value(&f.StartDate).Validate(validDate),
		huh.NewInput().Title("To").Placeholder("YYYY-MM-DD").Value(&f.EndDate).Validate(validDate),
	))
}

// pageForm jumps straight to a page of the transaction list.
func pageForm(v controller.TransactionsView) *modal {
	last := max(v.Pagination.TotalPages, 1)
	raw := strconv.Itoa(v.Page)
	return newModal("Go to page", func(a *App) tea.Cmd {
		n, _ := strconv.Atoi(strings.TrimSpace(raw))
		a.txCursor = 0
		return a.txs.SetPage(n)
	}, huh.NewGroup(
		huh.NewInput().Title(fmt.Sprintf("Page (1-%d)", last)).Value(&raw).Validate(func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 || n > last {
				return fmt.Errorf("enter a page between 1 and %d", last)
			}
			return nil
		}),
	))
}

// transactionForm collects a new transaction into d. errText, when set,
// is the server's reason the previous attempt failed.
func transactionForm(d *controller.TransactionDraft, cats []model.Category, errText string) *modal {
	payOpts := make([]huh.Option[string], len(paymentMethods))
	for i, m := range paymentMethods {
		label := cli.Title(m)
		if m == "" {
			label = "None"
		}
		payOpts[i] = huh.NewOption(label, m)
	}
	freqOpts := make([]huh.Option[string], len(controller.RecurringFrequencies))
	for i, f := range controller.RecurringFrequencies {
		freqOpts[i] = huh.NewOption(cli.Title(f), f)
	}

	var fields []huh.Field
	if errText != "" {
		fields = append(fields, huh.NewNote().Title("Could not save").Description(errText))
	}
	fields = append(fields,
		huh.NewSelect[string]().Title("Type").Options(typeOptions("")...).Value(&d.Type),
		huh.NewInput().Title("Amount").Placeholder("0.00").Value(&d.Amount).Validate(validPositive),
		huh.NewSelect[string]().Title("Category").
			OptionsFunc(func() []huh.Option[string] { return categoryOptions(cats, d.Type, "") }, &d.Type).
			Value(&d.CategoryID).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("pick a category")
				}
				return nil
			}),
		huh.NewInput().Title("Description").Value(&d.Description),
	)

	m := newModal("New transaction", func(a *App) tea.Cmd {
		a.draft = d
		cmd := a.txs.SubmitCreate(*d)
		if v := a.txs.View(); cmd == nil && v.CreateError != "" {
			return a.openModal(transactionForm(d, cats, v.CreateError))
		}
		return cmd
	},
		huh.NewGroup(fields...),
		huh.NewGroup(
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&d.Date).Validate(validDate),
			huh.NewInput().Title("Time").Placeholder("HH:MM").Value(&d.Time),
			huh.NewSelect[string]().Title("Payment method").Options(payOpts...).Value(&d.PaymentMethod),
			huh.NewInput().Title("Tags").Placeholder("comma, separated").Value(&d.Tags),
			huh.NewConfirm().Title("Recurring?").Value(&d.IsRecurring),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Repeats").Options(freqOpts...).Value(&d.RecurringFrequency),
		).WithHideFunc(func() bool { return !d.IsRecurring }),
	)
	m.cancel = func(a *App) {
		a.txs.CancelCreate()
		a.draft = nil
	}
	return m
}

// goalForm collects a new goal.
func goalForm() *modal {
	d := &controller.GoalDraft{}
	return newModal("New goal", func(a *App) tea.Cmd {
		return a.goals.Create(*d)
	}, huh.NewGroup(
		huh.NewInput().Title("Name").Value(&d.Name).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("name is required")
			}
			return nil
		}),
		huh.NewInput().Title("Target amount").Placeholder("0.00").Value(&d.TargetAmount).Validate(validPositive),
		huh.NewInput().Title("Target date").Placeholder("YYYY-MM-DD (optional)").Value(&d.TargetDate).Validate(validDate),
		huh.NewInput().Title("Category").Placeholder("optional").Value(&d.Category),
	))
}

// contributeForm asks how much to add to g.
func contributeForm(g model.FinancialGoal, currency string) *modal {
	var amount string
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	desc := ""
	if remaining.IsPositive() {
		desc = cli.FormatCurrency(remaining, currency) + " to go"
	}
	return newModal("Contribute to "+g.Name, func(a *App) tea.Cmd {
		return a.goals.Contribute(g.ID, amount)
	}, huh.NewGroup(
		huh.NewInput().Title("Amount").Description(desc).Placeholder("0.00").Value(&amount).Validate(validPositive),
	))
}

// confirmForm asks a yes/no question and runs yes on confirmation.
func confirmForm(title, question string, yes func(a *App) tea.Cmd) *modal {
	var ok bool
	return newModal(title, func(a *App) tea.Cmd {
		if !ok {
			return nil
		}
		return yes(a)
	}, huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&ok),
	))
}

// themeForm picks the active theme.
func themeForm(current string) *modal {
	name := current
	opts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		opts[i] = huh.NewOption(t.Name, t.Name)
	}
	return newModal("Theme", func(a *App) tea.Cmd {
		return a.setTheme(name)
	}, huh.NewGroup(
		huh.NewSelect[string]().Title("Color theme").Options(opts...).Value(&name),
	))
}
