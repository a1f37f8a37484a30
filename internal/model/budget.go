package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Budget period statuses.
const (
	PeriodActive    = "active"
	PeriodCompleted = "completed"
)

// BudgetPeriod is a salary-to-salary budgeting window.
type BudgetPeriod struct {
	ID               string          `json:"id"`
	StartedAt        *Timestamp      `json:"started_at"`
	EndedAt          *Timestamp      `json:"ended_at"`
	ExpectedIncome   decimal.Decimal `json:"expected_income"`
	ActualIncome     decimal.Decimal `json:"actual_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
	TotalInvestments decimal.Decimal `json:"total_investments"`
	BroughtForward   decimal.Decimal `json:"brought_forward"`
	CarryForward     decimal.Decimal `json:"carry_forward"`
	Status           string          `json:"status"`
	CreatedAt        Timestamp       `json:"created_at"`
}

// Completed reports whether the period has been closed.
func (p BudgetPeriod) Completed() bool {
	return p.Status == PeriodCompleted
}

// SortKey is the start time, or the creation time when the start is unknown.
func (p BudgetPeriod) SortKey() Timestamp {
	if p.StartedAt != nil && !p.StartedAt.IsZero() {
		return *p.StartedAt
	}
	return p.CreatedAt
}

// SortPeriodsNewestFirst returns a copy of periods ordered by SortKey, newest first.
func SortPeriodsNewestFirst(periods []BudgetPeriod) []BudgetPeriod {
	out := make([]BudgetPeriod, len(periods))
	copy(out, periods)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey().After(out[j].SortKey().Time)
	})
	return out
}

// FinancialGoal is a savings target with progress tracking.
type FinancialGoal struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	TargetDate         *Timestamp      `json:"target_date"`
	Category           *string         `json:"category"`
	IsActive           bool            `json:"is_active"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	DaysRemaining      *int            `json:"days_remaining"`
}

// Deadline describes the goal's time pressure.
type Deadline int

const (
	DeadlineNone Deadline = iota
	DeadlineOnTrack
	DeadlineDueSoon
	DeadlineOverdue
)

// DeadlineState classifies the goal by its remaining days: overdue when
// negative, due soon within a week.
func (g FinancialGoal) DeadlineState() Deadline {
	if g.DaysRemaining == nil {
		return DeadlineNone
	}
	d := *g.DaysRemaining
	switch {
	case d < 0:
		return DeadlineOverdue
	case d > 0 && d <= 7:
		return DeadlineDueSoon
	default:
		return DeadlineOnTrack
	}
}

// NewGoal is the POST /api/v1/goals/ body.
type NewGoal struct {
	Name         string  `json:"name"`
	TargetAmount string  `json:"target_amount"`
	TargetDate   *string `json:"target_date"`
	Category     *string `json:"category"`
}

// GoalUpdate is the PUT /api/v1/goals/{id} body; nil fields are left unchanged.
type GoalUpdate struct {
	Name          *string `json:"name,omitempty"`
	TargetAmount  *string `json:"target_amount,omitempty"`
	TargetDate    *string `json:"target_date,omitempty"`
	Category      *string `json:"category,omitempty"`
	CurrentAmount *string `json:"current_amount,omitempty"`
}
