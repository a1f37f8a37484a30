// Package controller holds the view-state logic behind every screen:
// what to fetch, when, and which response is allowed to land.
//
// Controllers are driven by bubbletea. Methods that start I/O return a
// tea.Cmd; the resulting messages are applied with Update. Every fetch is
// guarded by a Sequencer so the most recently dispatched request for a
// resource wins regardless of completion order.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/model"
)

// ErrValidation wraps client-side form validation failures.
var ErrValidation = errors.New("validation failed")

// User-visible failure messages.
const (
	MsgDashboardFailed    = "Failed to load dashboard data. Please try again."
	MsgTransactionsFailed = "Failed to load transactions. Please try again."
	MsgCreateTxFailed     = "Failed to create transaction. Please try again."
	MsgGoalsFailed        = "Failed to load financial goals. Please try again."
	MsgPeriodsFailed      = "Failed to load periods. Please try again."
	MsgCompleteFailed     = "Failed to close period. Please try again."
)

// Status is the lifecycle of one fetched resource.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// AnalyticsSource serves dashboard and yearly data.
type AnalyticsSource interface {
	Dashboard(ctx context.Context) (model.DashboardSnapshot, error)
	Yearly(ctx context.Context, year int) (model.YearlyAnalytics, error)
}

// TransactionSource lists and creates transactions.
type TransactionSource interface {
	List(ctx context.Context, f model.TransactionFilter, page, limit int) (model.TransactionPage, error)
	Create(ctx context.Context, tx model.NewTransaction) (model.Transaction, error)
}

// CategoryLister lists categories.
type CategoryLister interface {
	List(ctx context.Context) ([]model.Category, error)
}

// PeriodLister lists budget periods.
type PeriodLister interface {
	List(ctx context.Context) ([]model.BudgetPeriod, error)
}

// PeriodSource lists and completes budget periods.
type PeriodSource interface {
	PeriodLister
	Complete(ctx context.Context, id string, endedAt time.Time) (model.BudgetPeriod, error)
}

// GoalSource manages financial goals.
type GoalSource interface {
	List(ctx context.Context, active bool) ([]model.FinancialGoal, error)
	Create(ctx context.Context, g model.NewGoal) (model.FinancialGoal, error)
	Delete(ctx context.Context, id string) (string, error)
	Contribute(ctx context.Context, id string, amount decimal.Decimal) (string, error)
}
