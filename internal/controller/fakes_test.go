package controller

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
)

func testLogger() (*logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.New(logging.Config{Level: slog.LevelDebug, Output: &buf}), &buf
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

type fakeAnalytics struct {
	mu        sync.Mutex
	dashboard model.DashboardSnapshot
	dashErr   error
	yearly    map[int]model.YearlyAnalytics
	yearlyErr error
	dashCalls int
	yearCalls []int
}

func (f *fakeAnalytics) Dashboard(context.Context) (model.DashboardSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashCalls++
	return f.dashboard, f.dashErr
}

func (f *fakeAnalytics) Yearly(_ context.Context, year int) (model.YearlyAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.yearCalls = append(f.yearCalls, year)
	if f.yearlyErr != nil {
		return model.YearlyAnalytics{}, f.yearlyErr
	}
	return f.yearly[year], nil
}

// fakeLedger filters and paginates an in-memory list the way the server does.
type fakeLedger struct {
	mu      sync.Mutex
	txs     []model.Transaction
	calls   []listKey
	listErr error
	create  error
	created []model.NewTransaction
}

func (f *fakeLedger) List(_ context.Context, flt model.TransactionFilter, page, limit int) (model.TransactionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, listKey{page: page, limit: limit, filter: flt})
	if f.listErr != nil {
		return model.TransactionPage{}, f.listErr
	}

	var matched []model.Transaction
	for _, tx := range f.txs {
		if flt.Type != "" && tx.Type != flt.Type {
			continue
		}
		if flt.CategoryID != "" && tx.CategoryID != flt.CategoryID {
			continue
		}
		matched = append(matched, tx)
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return model.TransactionPage{
		Items: matched[start:end],
		Pagination: model.Pagination{
			Page: page, Limit: limit, Total: total, TotalPages: totalPages,
			HasNext: page < totalPages, HasPrev: page > 1,
		},
	}, nil
}

func (f *fakeLedger) Create(_ context.Context, body model.NewTransaction) (model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.create != nil {
		return model.Transaction{}, f.create
	}
	f.created = append(f.created, body)
	tx := model.Transaction{
		ID:         "new-" + body.Type,
		Amount:     decimal.RequireFromString(body.Amount),
		Type:       body.Type,
		CategoryID: body.CategoryID,
	}
	f.txs = append([]model.Transaction{tx}, f.txs...)
	return tx, nil
}

func (f *fakeLedger) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCategories struct {
	cats []model.Category
	err  error
}

func (f fakeCategories) List(context.Context) ([]model.Category, error) { return f.cats, f.err }

type fakePeriods struct {
	mu        sync.Mutex
	periods   []model.BudgetPeriod
	err       error
	complErr  error
	completed []string
	listCalls int
}

func (f *fakePeriods) List(context.Context) ([]model.BudgetPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]model.BudgetPeriod(nil), f.periods...), f.err
}

func (f *fakePeriods) Complete(_ context.Context, id string, endedAt time.Time) (model.BudgetPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.complErr != nil {
		return model.BudgetPeriod{}, f.complErr
	}
	f.completed = append(f.completed, id)
	for i := range f.periods {
		if f.periods[i].ID == id {
			f.periods[i].Status = model.PeriodCompleted
			end := model.Timestamp{Time: endedAt}
			f.periods[i].EndedAt = &end
			return f.periods[i], nil
		}
	}
	return model.BudgetPeriod{}, nil
}

type fakeGoals struct {
	mu        sync.Mutex
	goals     []model.FinancialGoal
	listErr   error
	mutErr    error
	listCalls int
}

func (f *fakeGoals) List(context.Context, bool) ([]model.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]model.FinancialGoal(nil), f.goals...), f.listErr
}

func (f *fakeGoals) Create(_ context.Context, g model.NewGoal) (model.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return model.FinancialGoal{}, f.mutErr
	}
	goal := model.FinancialGoal{ID: "g-" + g.Name, Name: g.Name, TargetAmount: decimal.RequireFromString(g.TargetAmount), IsActive: true}
	f.goals = append(f.goals, goal)
	return goal, nil
}

func (f *fakeGoals) Delete(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return "", f.mutErr
	}
	for i, g := range f.goals {
		if g.ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			break
		}
	}
	return "Goal deleted", nil
}

func (f *fakeGoals) Contribute(_ context.Context, id string, amount decimal.Decimal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutErr != nil {
		return "", f.mutErr
	}
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals[i].CurrentAmount = f.goals[i].CurrentAmount.Add(amount)
		}
	}
	return "Contribution added", nil
}
