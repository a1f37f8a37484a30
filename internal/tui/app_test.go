package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/store"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

type stubAnalytics struct {
	mu    sync.Mutex
	years []int
}

func (s *stubAnalytics) Dashboard(context.Context) (model.DashboardSnapshot, error) {
	return model.DashboardSnapshot{
		NetWorth:        decimal.RequireFromString("1234.50"),
		ThisMonthIncome: decimal.NewFromInt(3000),
	}, nil
}

func (s *stubAnalytics) Yearly(_ context.Context, year int) (model.YearlyAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years = append(s.years, year)
	return model.YearlyAnalytics{Year: year, TotalIncome: decimal.NewFromInt(36000)}, nil
}

type stubLedger struct{ total int }

func (s stubLedger) List(_ context.Context, _ model.TransactionFilter, page, limit int) (model.TransactionPage, error) {
	var items []model.Transaction
	for i := (page - 1) * limit; i < min(page*limit, s.total); i++ {
		desc := "item " + strconv.Itoa(i)
		items = append(items, model.Transaction{ID: strconv.Itoa(i), Description: &desc, Type: model.TypeExpense, Amount: decimal.NewFromInt(int64(i + 1))})
	}
	pages := (s.total + limit - 1) / limit
	return model.TransactionPage{Items: items, Pagination: model.Pagination{Page: page, Limit: limit, Total: s.total, TotalPages: pages}}, nil
}

func (stubLedger) Create(context.Context, model.NewTransaction) (model.Transaction, error) {
	return model.Transaction{}, errors.New("not used")
}

type stubCategories struct{}

func (stubCategories) List(context.Context) ([]model.Category, error) {
	return []model.Category{{ID: "c1", Name: "Groceries", Type: model.TypeExpense}}, nil
}

type stubPeriods struct{}

func (stubPeriods) List(context.Context) ([]model.BudgetPeriod, error) {
	start := model.Timestamp{Time: time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC)}
	return []model.BudgetPeriod{{ID: "p1", StartedAt: &start, Status: model.PeriodCompleted}}, nil
}

func (stubPeriods) Complete(context.Context, string, time.Time) (model.BudgetPeriod, error) {
	return model.BudgetPeriod{}, nil
}

type stubGoals struct{}

func (stubGoals) List(context.Context, bool) ([]model.FinancialGoal, error) {
	return []model.FinancialGoal{{ID: "g1", Name: "Emergency fund", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(250)}}, nil
}

func (stubGoals) Create(context.Context, model.NewGoal) (model.FinancialGoal, error) {
	return model.FinancialGoal{}, nil
}

func (stubGoals) Delete(context.Context, string) (string, error) { return "", nil }

func (stubGoals) Contribute(context.Context, string, decimal.Decimal) (string, error) {
	return "", nil
}

func newTestApp(t *testing.T, settings *store.DB) (*App, *stubAnalytics) {
	t.Helper()
	analytics := &stubAnalytics{}
	app := NewApp(context.Background(), Deps{
		Profile:    model.Profile{User: model.UserProfile{Name: "Ada Lovelace", Currency: "USD"}},
		Analytics:  analytics,
		Ledger:     stubLedger{total: 45},
		Categories: stubCategories{},
		Periods:    stubPeriods{},
		Goals:      stubGoals{},
		Settings:   settings,
		Config:     config.DefaultConfig(),
		Now:        func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(app.cancel)

	a := &app
	send(a, tea.WindowSizeMsg{Width: 140, Height: 45})
	run(t, a, tea.Batch(a.dash.Init(), a.txs.Init(), a.periods.Init(), a.goals.Init()))
	return a, analytics
}

func send(a *App, msg tea.Msg) tea.Cmd {
	m, cmd := a.Update(msg)
	*a = m.(App)
	return cmd
}

// run drives cmd to completion, skipping spinner ticks.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	require.NoError(t, controller.Drive(context.Background(), cmd, func(msg tea.Msg) tea.Cmd {
		if _, ok := msg.(spinner.TickMsg); ok {
			return nil
		}
		return send(a, msg)
	}))
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppLoadsEveryScreen(t *testing.T) {
	a, analytics := newTestApp(t, nil)

	require.NotNil(t, a.dash.View().Dashboard)
	assert.Equal(t, "1234.50", a.dash.View().Dashboard.NetWorth.StringFixed(2))
	assert.Equal(t, []int{2024}, analytics.years)
	assert.Len(t, a.txs.View().Items, 20)
	assert.Len(t, a.periods.View().Periods, 1)
	assert.Len(t, a.goals.View().Goals, 1)

	out := a.View()
	assert.Contains(t, out, "Net worth")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "Hi, Ada")
}

func TestTabSwitching(t *testing.T) {
	a, _ := newTestApp(t, nil)

	send(a, keyPress("2"))
	assert.Equal(t, components.TabTransactions, a.activeTab)
	send(a, keyPress("tab"))
	assert.Equal(t, components.TabPeriods, a.activeTab)
	send(a, keyPress("5"))
	assert.Equal(t, components.TabSettings, a.activeTab)
	assert.Contains(t, a.View(), "Ada Lovelace")
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			assert.Equal(t, i, a.tabAtX(pos+w/2), "active=%d", active)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+200))
	}
}

func TestDashboardYearKeys(t *testing.T) {
	a, analytics := newTestApp(t, nil)
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024}, a.years)

	run(t, a, send(a, keyPress("[")))
	assert.Equal(t, 2023, a.dash.Year())
	require.NotNil(t, a.dash.View().Yearly)
	assert.Equal(t, 2023, a.dash.View().Yearly.Year)

	run(t, a, send(a, keyPress("]")))
	assert.Equal(t, 2024, a.dash.Year())

	// Already at the newest year.
	assert.Nil(t, send(a, keyPress("]")))
	assert.Equal(t, []int{2024, 2023, 2024}, analytics.years)
}

func TestTransactionsPagingAndDetail(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, keyPress("2"))

	run(t, a, send(a, keyPress("n")))
	v := a.txs.View()
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, "20", v.Items[0].ID)

	send(a, keyPress("j"))
	send(a, keyPress("enter"))
	require.NotNil(t, a.txs.View().Detail)
	assert.Equal(t, "21", a.txs.View().Detail.ID)
	assert.Contains(t, a.View(), "item 21")

	send(a, keyPress("esc"))
	assert.Nil(t, a.txs.View().Detail)

	run(t, a, send(a, keyPress("n")))
	assert.Equal(t, 3, a.txs.View().Page)
	assert.Nil(t, send(a, keyPress("n")), "no page past the last")
}

func TestClosingCompletedPeriodIsRefused(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, keyPress("3"))

	assert.Nil(t, send(a, keyPress("x")))
	assert.Nil(t, a.modal)
	assert.Equal(t, "That period is already closed", a.flash)
}

func TestGoalKeysOpenForms(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, keyPress("4"))

	send(a, keyPress("+"))
	require.NotNil(t, a.modal)
	assert.Equal(t, "Contribute to Emergency fund", a.modal.title)

	send(a, keyPress("esc"))
	assert.Nil(t, a.modal)
}

func TestAddTransactionCancelClosesCreate(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, keyPress("2"))

	send(a, keyPress("a"))
	require.NotNil(t, a.modal)
	assert.True(t, a.txs.View().CreateOpen)

	send(a, keyPress("esc"))
	assert.Nil(t, a.modal)
	assert.False(t, a.txs.View().CreateOpen)
}

func TestSetThemePersists(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "ledgr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	t.Cleanup(func() { theme.SetActive("flexoki-dark") })

	a, _ := newTestApp(t, db)
	run(t, a, a.setTheme("tokyo-night"))

	assert.Equal(t, "tokyo-night", theme.Active.Name)
	got, ok, err := db.Get(context.Background(), store.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tokyo-night", got)
	assert.Equal(t, "Theme set to tokyo-night", a.flash)
}

func TestNarrowTerminal(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	assert.Equal(t, "20", vals.PageSize)

	vals.BaseURL = " https://money.example.com/ "
	vals.PageSize = "50"
	vals.Theme = "terminal"
	got := vals.Apply(cfg)
	assert.Equal(t, "https://money.example.com", got.API.BaseURL)
	assert.Equal(t, 50, got.PageSize())
	assert.Equal(t, "terminal", got.Appearance.Theme)

	vals.PageSize = "lots"
	assert.Equal(t, 20, vals.Apply(cfg).PageSize())
}

func TestJumpToPageOpensForm(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(a, keyPress("2"))

	send(a, keyPress("g"))
	require.NotNil(t, a.modal)
	assert.Equal(t, "Go to page", a.modal.title)

	send(a, keyPress("esc"))
	assert.Nil(t, a.modal)
	assert.Equal(t, 1, a.txs.Page())
}

func TestSessionExpiredQuits(t *testing.T) {
	a, _ := newTestApp(t, nil)

	cmd := send(a, SessionExpiredMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, a.SessionExpired())
	assert.Error(t, a.ctx.Err())
}
