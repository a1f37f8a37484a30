package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-05T10:20:30Z"`:        time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		`"2024-03-05T10:20:30"`:         time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		`"2024-03-05T10:20:30.123456"`:  time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC),
		`"2024-03-05"`:                  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		`null`:                          {},
		`"not a date"`:                  {},
	}
	for in, want := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.True(t, want.Equal(ts.Time), "%s: got %v", in, ts.Time)
	}
}

func TestDecimalFieldsAcceptStringsAndNumbers(t *testing.T) {
	var snap DashboardSnapshot
	err := json.Unmarshal([]byte(`{"net_worth": 1000, "this_month_expenses": "200.50", "savings_rate": 12.5}`), &snap)
	require.NoError(t, err)
	assert.Equal(t, "1000", snap.NetWorth.String())
	assert.Equal(t, "200.5", snap.ThisMonthExpenses.String())
	assert.Equal(t, "12.5", snap.SavingsRate.String())
}

func TestFilterQueryOmitsEmpty(t *testing.T) {
	q := TransactionFilter{Type: TypeIncome, EndDate: "2024-12-31"}.Query(2, 20)
	assert.Equal(t, "end_date=2024-12-31&limit=20&page=2&transaction_type=income", q.Encode())

	q = TransactionFilter{}.Query(1, 20)
	assert.Equal(t, "limit=20&page=1", q.Encode())
}

func TestCurrencyOrDefault(t *testing.T) {
	var nilProfile *UserProfile
	assert.Equal(t, "USD", nilProfile.CurrencyOrDefault())
	assert.Equal(t, "USD", (&UserProfile{Currency: "  "}).CurrencyOrDefault())
	assert.Equal(t, "EUR", (&UserProfile{Currency: "EUR"}).CurrencyOrDefault())
}

func TestGoalDeadlineState(t *testing.T) {
	days := func(n int) *int { return &n }
	assert.Equal(t, DeadlineNone, FinancialGoal{}.DeadlineState())
	assert.Equal(t, DeadlineOverdue, FinancialGoal{DaysRemaining: days(-1)}.DeadlineState())
	assert.Equal(t, DeadlineDueSoon, FinancialGoal{DaysRemaining: days(7)}.DeadlineState())
	assert.Equal(t, DeadlineOnTrack, FinancialGoal{DaysRemaining: days(0)}.DeadlineState())
	assert.Equal(t, DeadlineOnTrack, FinancialGoal{DaysRemaining: days(30)}.DeadlineState())
}

func TestSortPeriodsNewestFirst(t *testing.T) {
	mk := func(id, start string) BudgetPeriod {
		ts, _ := ParseTimestamp(start)
		return BudgetPeriod{ID: id, StartedAt: &ts}
	}
	created, _ := ParseTimestamp("2024-02-15")
	noStart := BudgetPeriod{ID: "c", CreatedAt: created}

	sorted := SortPeriodsNewestFirst([]BudgetPeriod{mk("a", "2024-01-01"), noStart, mk("b", "2024-03-01")})
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}
